// @title LearnHub Backend API
// @version 1.0
// @description Course, quiz attempt and grading backend for the LearnHub learning platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"learnhub_backend/internal/app"
	"learnhub_backend/internal/config"
	"learnhub_backend/pkg/configwatcher"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force migrations at startup even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ForceMigrate = *migrate || *migrateOnly

	if *migrateOnly {
		logger.InitLogger(cfg)
		if _, err := database.InitDB(&cfg.Database, true); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		log.Println("Migration complete")
		return
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("configuration reloaded")
		application.OnConfigReload(newCfg)
	})

	application.Run()
}
