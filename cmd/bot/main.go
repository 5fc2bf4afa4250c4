package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg_job_hunter_bot/internal/config"
	"tg_job_hunter_bot/internal/dialog"
	"tg_job_hunter_bot/internal/feature/docgen"
	"tg_job_hunter_bot/internal/feature/user"
	"tg_job_hunter_bot/internal/feature/vacancy"
	"tg_job_hunter_bot/internal/headhunter"
	"tg_job_hunter_bot/internal/health"
	"tg_job_hunter_bot/internal/llm"
	"tg_job_hunter_bot/internal/logging"
	"tg_job_hunter_bot/internal/scheduler"
	"tg_job_hunter_bot/internal/store"
	"tg_job_hunter_bot/internal/telegram"
)

const (
	dbConnectTimeout        = 10 * time.Second
	dbMigrateTimeout        = 30 * time.Second
	telegramShutdownTimeout = 10 * time.Second
	healthShutdownTimeout   = 5 * time.Second
)

func main() {
	configOnly := flag.Bool("config-only", false, "load and print configuration then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("configuration error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		logging.Error("logger setup error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}

	if *configOnly {
		logging.Info("configuration check", logging.Fields{"event": "config_only"})
		fmt.Println("configuration check: ok")
		fmt.Println(config.FormatRedacted(cfg))
		return
	}

	logger.WithFields(logging.Fields{
		"event":     "startup",
		"llm_model": cfg.LLMModel,
	}).Info("configuration loaded")

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), dbConnectTimeout)
	manager, err := store.NewManager(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		logger.WithError(err).Error("database connection error")
		fmt.Fprintf(os.Stderr, "database connection error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "db_connect").Info("connected to database")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), dbMigrateTimeout)
	if err := manager.EnsureSchema(migrateCtx); err != nil {
		cancelMigrate()
		logger.WithError(err).Error("schema migration error")
		fmt.Fprintf(os.Stderr, "schema migration error: %v\n", err)
		os.Exit(1)
	}
	cancelMigrate()

	logger.WithField("event", "db_migrate").Info("ensured database schema")

	registrar := user.NewRegistrar(manager.Users(), logger)
	hhClient := headhunter.NewClient()
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	fetcher := vacancy.NewFetcher(hhClient, manager.Vacancies(), logger)
	generator := docgen.NewGenerator(llmClient, manager.Documents(), logger)

	handler, err := telegram.NewHandler(telegram.HandlerDeps{
		Registrar: registrar,
		Users:     manager.Users(),
		Filters:   manager.Filters(),
		Vacancies: manager.Vacancies(),
		Documents: manager.Documents(),
		Fetcher:   fetcher,
		Generator: generator,
		Sessions:  dialog.NewSessions(),
		Logger:    logger,
	})
	if err != nil {
		logger.WithError(err).Error("handler setup error")
		fmt.Fprintf(os.Stderr, "handler setup error: %v\n", err)
		os.Exit(1)
	}

	tgClient, err := telegram.NewClient(cfg, handler, logger)
	if err != nil {
		logger.WithError(err).Error("telegram client setup error")
		fmt.Fprintf(os.Stderr, "telegram client setup error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "telegram_ready").Info("telegram client initialized")

	broadcaster, err := scheduler.NewBroadcaster(cfg, manager.Filters(), manager.Vacancies(), fetcher, tgClient, logger)
	if err != nil {
		logger.WithError(err).Error("broadcast scheduler setup error")
		fmt.Fprintf(os.Stderr, "broadcast scheduler setup error: %v\n", err)
		os.Exit(1)
	}
	broadcaster.Start()

	healthServer := health.NewServer(cfg.HTTPPort, manager, manager.Stats(), logger)
	go func() {
		if err := healthServer.ListenAndServe(); err != nil {
			logger.WithError(err).Error("health server error")
		}
	}()

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegramCtx, cancelTelegram := context.WithCancel(context.Background())
	tgDone := make(chan struct{})

	go func() {
		tgClient.Start(telegramCtx)
		close(tgDone)
	}()

	select {
	case <-signalCtx.Done():
		logger.WithField("event", "shutdown_signal").Info("received termination signal, stopping telegram polling")
	case <-tgDone:
		logger.WithField("event", "telegram_stopped_early").Warn("telegram client stopped before shutdown signal")
	}

	cancelTelegram()

	waitCtx, cancelWait := context.WithTimeout(context.Background(), telegramShutdownTimeout)
	select {
	case <-tgDone:
	case <-waitCtx.Done():
		logger.WithField("event", "telegram_shutdown_timeout").Warn("timed out waiting for telegram client to stop")
	}
	cancelWait()

	broadcaster.Stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), healthShutdownTimeout)
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("health server shutdown error")
	}
	cancelShutdown()

	if err := manager.Close(); err != nil {
		logger.WithError(err).Error("database close error")
	} else {
		logger.WithField("event", "db_disconnect").Info("database connection closed")
	}

	logger.WithField("event", "shutdown_complete").Info("shutdown complete")
}
