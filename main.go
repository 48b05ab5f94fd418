// @title GIS Quiz Backend API
// @version 1.0
// @description Backend for the GIS random quiz web app: question bank uploads, session drawing, grading and accuracy statistics.

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"

	"gis_quiz_backend/internal/app"
	"gis_quiz_backend/internal/config"
	"gis_quiz_backend/pkg/configwatcher"
	"gis_quiz_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	watch := flag.Bool("watch-config", true, "reload quiz limits when the config file changes")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig(*configDir+"/config.yaml", application.ApplyConfig)
	}

	application.Run()
}
