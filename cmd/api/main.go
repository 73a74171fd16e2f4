package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/missionpool/backend/internal/config"
	"github.com/missionpool/backend/internal/events"
	"github.com/missionpool/backend/internal/identity"
	"github.com/missionpool/backend/internal/payments"
	"github.com/missionpool/backend/internal/repository"
	"github.com/missionpool/backend/internal/settlement"
	"github.com/missionpool/backend/internal/workflow"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL")

	// River migrations (job queue tables only; app schema is managed out of band).
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}

	// Repositories.
	accountRepo := repository.NewAccountRepo(pool)
	campaignRepo := repository.NewCampaignRepo(pool)
	missionRepo := repository.NewMissionRepo(pool)
	submissionRepo := repository.NewSubmissionRepo(pool)

	// External collaborators.
	verifier := identity.NewJWTVerifier(cfg.IdentitySecret, cfg.IdentityIssuer, cfg.IdentityAudience)
	gate := identity.NewGate(verifier, accountRepo)
	processor := payments.NewClient(cfg.ProcessorBaseURL, cfg.ProcessorSecretKey)

	// Core services.
	workflowSvc := workflow.NewService(gate, missionRepo, campaignRepo, submissionRepo, logger)
	coordinator := settlement.NewCoordinator(gate, campaignRepo, missionRepo, accountRepo, processor, logger)

	// Processor-event worker.
	workers := river.NewWorkers()
	river.AddWorker(workers, events.NewProcessorEventWorker(campaignRepo, logger))
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}
	enqueueEvent := func(ctx context.Context, args events.ProcessorEventArgs) error {
		_, err := riverClient.Insert(ctx, args, nil)
		return err
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, RouteDeps{
		Gate:           gate,
		Workflow:       workflowSvc,
		Coordinator:    coordinator,
		AccountRepo:    accountRepo,
		CampaignRepo:   campaignRepo,
		MissionRepo:    missionRepo,
		SubmissionRepo: submissionRepo,
		WebhookSecret:  cfg.WebhookSecret,
		EnqueueEvent:   enqueueEvent,
		Logger:         logger,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Processor-Signature"},
		AllowCredentials: true,
	}).Handler(mux)

	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	addr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
