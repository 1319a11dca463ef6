package main

import (
	"log"

	_ "time/tzdata"

	"salarycheck/internal/config"
	"salarycheck/internal/db"
	"salarycheck/internal/logging"
	"salarycheck/internal/routes"
	"salarycheck/internal/snapshot"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.InitDB(cfg.DatabaseURL, false)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatalw("failed to migrate database", "error", err)
	}

	router := routes.SetupRouter(snapshot.NewStore(conn), logger)

	logger.Infow("starting server", "addr", cfg.APIAddr)
	if err := router.Run(cfg.APIAddr); err != nil {
		logger.Fatalw("failed to start server", "error", err)
	}
}
