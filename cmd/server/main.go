package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codehive/classroom/internal/api"
	"github.com/codehive/classroom/internal/core/service"
	mongodb "github.com/codehive/classroom/internal/infrastructure/db/mongo"
	redisdb "github.com/codehive/classroom/internal/infrastructure/db/redis"
	"github.com/codehive/classroom/internal/infrastructure/queue"
	"github.com/codehive/classroom/internal/pkg/config"
	"github.com/codehive/classroom/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	// Mongo: the manager connects lazily; warm it up at boot so a bad URI
	// fails the process instead of the first request.
	manager := mongodb.NewManager(mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	db, err := manager.Database(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// Repositories
	accountRepo := mongodb.NewAccountRepository(db)
	submissionRepo := mongodb.NewSubmissionRepository(db)
	rosterRepo := mongodb.NewRosterRepository(db)

	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure account indexes")
	}
	if err := submissionRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure submission indexes")
	}

	// Services
	accountService := service.NewAccountService(accountRepo, log)
	submissionService := service.NewSubmissionService(submissionRepo, log)
	rosterService := service.NewRosterService(rosterRepo, log)

	// Async intake workers
	dispatcher := queue.NewDispatcher(cfg.IntakeWorkers, submissionService, log)
	workerCtx, workerCancel := context.WithCancel(ctx)
	dispatcher.Start(workerCtx)

	// HTTP server
	router := api.NewRouter(api.Deps{
		Accounts:    accountService,
		Submissions: submissionService,
		Roster:      rosterService,
		Queue:       dispatcher,
		Dedup:       redisdb.NewDedupChecker(rdb),
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")

	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
	if err := manager.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect failed")
	}

	log.Info().Msg("stopped")
}
