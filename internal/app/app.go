package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gis_quiz_backend/internal/config"
	"gis_quiz_backend/internal/controller"
	"gis_quiz_backend/internal/middleware"
	"gis_quiz_backend/internal/repository"
	"gis_quiz_backend/internal/service"
	"gis_quiz_backend/pkg/logger"
	"gis_quiz_backend/pkg/monitoring"
	"gis_quiz_backend/pkg/security"
	"gis_quiz_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	services *services
}

type repositories struct {
	history *repository.HistoryRepository
}

type services struct {
	parser  *service.ParserService
	grader  *service.GraderService
	sampler *service.SamplerService
	stats   *service.StatsService
	quiz    *service.QuizService
}

type controllers struct {
	quiz   *controller.QuizController
	stats  *controller.StatsController
	health *controller.HealthController
}

func (a *App) initRepositories(cfg *config.Config) *repositories {
	return &repositories{
		history: repository.NewHistoryRepository(cfg.History.Path),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.parser = service.NewParserService()
	s.grader = service.NewGraderService()
	s.sampler = service.NewSamplerService(cfg.Quiz.MinPoolSize)
	s.stats = service.NewStatsService(repos.history)
	s.quiz = service.NewQuizService(s.parser, s.grader, s.sampler, s.stats, repos.history, cfg.Quiz)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, cfg *config.Config) *controllers {
	return &controllers{
		quiz:   controller.NewQuizController(s.quiz, cfg.Quiz.MaxUploadBytes),
		stats:  controller.NewStatsController(s.stats, cfg.Quiz.WorstRetryCount),
		health: controller.NewHealthController(repos.history),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ApplyConfig takes over the reloadable parts of a fresh config (quiz
// limits). Server address and middleware settings stay fixed for the
// process lifetime.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.services.quiz.SetLimits(cfg.Quiz)
	logger.Log.Info("quiz limits applied",
		zap.Int("minPoolSize", cfg.Quiz.MinPoolSize),
		zap.Int("defaultDrawCount", cfg.Quiz.DefaultDrawCount),
		zap.Int("worstRetryCount", cfg.Quiz.WorstRetryCount))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	repos := app.initRepositories(cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, repos, cfg)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("gis-quiz-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
