package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"salarycheck/internal/config"
	"salarycheck/internal/db"
	"salarycheck/internal/logging"
	"salarycheck/internal/pipeline"
	"salarycheck/internal/snapshot"
	"salarycheck/internal/tasks"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	runner, err := pipeline.FromConfig(cfg, pipeline.NewSender(cfg, false, logger), logger)
	if err != nil {
		logger.Fatalw("failed to build runner", "error", err)
	}

	if cfg.DatabaseURL != "" {
		conn, err := db.InitDB(cfg.DatabaseURL, false)
		if err != nil {
			logger.Fatalw("failed to connect to database", "error", err)
		}
		if err := db.Migrate(conn); err != nil {
			logger.Fatalw("failed to migrate database", "error", err)
		}
		runner.WithStore(snapshot.NewStore(conn))
		logger.Info("worker connected to database")
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatalw("failed to parse redis url", "error", err)
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: cfg.Location,
		Logger:   logger,
	})

	entries, err := tasks.Schedule(scheduler, cfg.ScheduleCron, cfg.RefreshCron)
	if err != nil {
		logger.Fatalw("failed to register periodic tasks", "error", err)
	}
	for _, e := range entries {
		logger.Infow("registered periodic task", "type", e.Type, "cron", e.Cron, "entry_id", e.ID)
	}

	// One job at a time so scheduled runs never overlap.
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 1,
			},
			Concurrency: 1,
			Logger:      logger,
		},
	)

	mux := asynq.NewServeMux()
	tasks.NewTaskProcessor(runner, logger).Register(mux)

	go func() {
		logger.Info("starting asynq scheduler")
		if err := scheduler.Run(); err != nil {
			logger.Fatalw("could not run asynq scheduler", "error", err)
		}
	}()

	go func() {
		logger.Info("starting asynq worker server")
		if err := srv.Run(mux); err != nil {
			logger.Fatalw("could not run asynq worker server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info("shutdown signal received, shutting down gracefully")

	scheduler.Shutdown()
	logger.Info("asynq scheduler shut down")

	srv.Shutdown()
	logger.Info("worker process shut down complete")
}
