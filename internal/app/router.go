package app

import (
	"gis_quiz_backend/docs"
	"gis_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		quiz := api.Group("/quiz")
		{
			quiz.POST("/uploads", c.quiz.Upload)
			quiz.GET("/uploads/:id", c.quiz.GetPool)

			quiz.POST("/sessions", c.quiz.CreateSession)
			quiz.POST("/sessions/retry-worst", c.quiz.RetryWorst)
			quiz.GET("/sessions/:id", c.quiz.GetSession)
			quiz.POST("/sessions/:id/submit", c.quiz.SubmitSession)
			quiz.GET("/sessions/:id/transcript", c.quiz.DownloadTranscript)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/overview", c.stats.GetOverview)
			stats.GET("/labels", c.stats.GetByLabel)
			stats.GET("/daily", c.stats.GetByDate)
			stats.GET("/worst", c.stats.GetWorst)
		}
	}
}
