package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeetGangani/study-backend/internal/api"
	"github.com/MeetGangani/study-backend/internal/config"
	"github.com/MeetGangani/study-backend/internal/ingester"
	"github.com/MeetGangani/study-backend/internal/metrics"
	"github.com/MeetGangani/study-backend/internal/session"
	slackalert "github.com/MeetGangani/study-backend/internal/slack"
	"github.com/MeetGangani/study-backend/internal/store"
	"github.com/MeetGangani/study-backend/internal/summary"
	"github.com/MeetGangani/study-backend/internal/transcribe"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("summarizer starting",
		"port", cfg.Port,
		"nats_url", cfg.NatsURL,
		"summary_model", cfg.SummaryModel,
		"max_sentences", cfg.MaxSummarySentences,
		"remote_summarizer", cfg.GeminiAPIKey != "",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 1: Connect to the session database.
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Step 2: Build the summarization pipeline.
	remote := summary.NewRemote(cfg.GeminiAPIKey, cfg.SummaryModel)
	transcriber := transcribe.New(cfg.TranscribeAPIKey, cfg.TranscribeModel)
	svc := session.NewService(db, remote, transcriber, cfg.MaxSummarySentences)
	svc.SetOriginRecorder(metrics.NewRecorder(db))

	// Conditionally create Slack alerter for stuck-pending sessions.
	if cfg.SlackBotToken != "" && cfg.SlackAlertChannel != "" {
		svc.SetAlerter(slackalert.NewAlerter(cfg.SlackBotToken, cfg.SlackAlertChannel))
		slog.Info("Slack stuck-pending alerter enabled", "channel", cfg.SlackAlertChannel)
	}

	// Step 3: Connect to NATS if configured. Fragments from the live speech
	// gateway flow through the same pipeline as HTTP submissions, and
	// summary-completed events are published back.
	if cfg.NatsURL != "" {
		ing, err := ingester.New(cfg.NatsURL, svc)
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer ing.Close()

		svc.SetPublisher(ing.Publish)

		if err := ing.Start(); err != nil {
			slog.Error("failed to start ingester", "error", err)
			os.Exit(1)
		}
		slog.Info("NATS ingester started")
	}

	// Step 4: Start HTTP API.
	srv := api.NewServer(db, svc, cfg.Port)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("summarizer ready", "port", cfg.Port)

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	slog.Info("shutting down", "signal", sig)
	cancel()
	slog.Info("summarizer stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
