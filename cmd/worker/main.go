// Package main provides the entry point for the video curation Temporal worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/surajit20072003/guddu-backend/internal/config"
	"github.com/surajit20072003/guddu-backend/internal/database"
	"github.com/surajit20072003/guddu-backend/internal/ingest"
	"github.com/surajit20072003/guddu-backend/internal/observability"
	"github.com/surajit20072003/guddu-backend/internal/repository"
	"github.com/surajit20072003/guddu-backend/internal/scheduler"
	"github.com/surajit20072003/guddu-backend/internal/temporal"
	"github.com/surajit20072003/guddu-backend/internal/temporal/activities"
	"github.com/surajit20072003/guddu-backend/internal/temporal/workflows"
	"github.com/surajit20072003/guddu-backend/internal/videosource/youtube"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "worker").Logger()
	logger.Info().Msg("guddu-backend worker starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	requestRepo := repository.NewPgRequestRepository(db)
	tagRepo := repository.NewPgTagRepository(db)
	topicRepo := repository.NewPgTopicRepository(db)
	videoRepo := repository.NewPgVideoRepository(db)

	metrics := observability.NewMetrics("guddu")

	source, err := youtube.New(ctx, cfg.YouTube, logger)
	if err != nil {
		return fmt.Errorf("create youtube client: %w", err)
	}
	logger.Info().
		Str("source", source.Name()).
		Int64("max_results", cfg.YouTube.MaxResults).
		Msg("video search client created")

	ingestService := ingest.NewService(db, requestRepo, metrics, logger)

	tagBatch := scheduler.NewTagBatch(
		tagRepo, videoRepo, source, db,
		cfg.Scheduler.TagBatchSize, cfg.YouTube.MaxResults,
		metrics, logger,
	)
	topicBatch := scheduler.NewTopicBatch(
		topicRepo, videoRepo, source, db,
		cfg.Scheduler.TopicBatchSize, cfg.YouTube.MaxResults,
		metrics, logger,
	)
	sweeper := scheduler.NewSweeper(
		tagRepo, topicRepo,
		cfg.Scheduler.ClaimLeaseTimeout, cfg.Scheduler.SweepInterval,
		metrics, logger,
	)

	curationActivities := activities.NewCurationActivities(
		ingestService, tagBatch, topicBatch, sweeper, logger,
	)

	temporalClient, err := temporal.NewClient(temporal.ClientConfig{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		TaskQueue: cfg.Temporal.TaskQueue,
		Logger:    observability.NewTemporalLogger(logger),
		TLS: &temporal.TLSConfig{
			Enabled:    cfg.Temporal.TLSEnabled,
			CertPath:   cfg.Temporal.TLSCertPath,
			KeyPath:    cfg.Temporal.TLSKeyPath,
			CACertPath: cfg.Temporal.TLSCACertPath,
			ServerName: cfg.Temporal.TLSServerName,
		},
	})
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer temporalClient.Close()
	logger.Info().
		Str("host_port", cfg.Temporal.HostPort).
		Str("namespace", cfg.Temporal.Namespace).
		Msg("temporal client connected")

	workerConfig := temporal.DefaultWorkerConfig(cfg.Temporal.TaskQueue)
	manager, err := temporal.NewWorkerManager(temporalClient, workerConfig)
	if err != nil {
		return fmt.Errorf("create worker manager: %w", err)
	}

	manager.RegisterWorkflow(workflows.TagExtractionWorkflow)
	manager.RegisterWorkflow(workflows.TagBatchWorkflow)
	manager.RegisterWorkflow(workflows.TopicBatchWorkflow)
	manager.RegisterActivity(curationActivities)

	// Background sweep keeps stranded PROCESSING claims from waiting for the
	// next batch run.
	go sweeper.Run(ctx)

	logger.Info().
		Str("task_queue", cfg.Temporal.TaskQueue).
		Msg("starting temporal worker")

	if err := manager.Start(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info().Msg("worker stopped via signal")
			return nil
		}
		return fmt.Errorf("worker error: %w", err)
	}

	return nil
}
