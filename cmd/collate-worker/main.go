// Package main provides the standalone queue worker entry point.
//
// collate-worker consumes grouping jobs from the shared Redis queue and
// writes results into the same database the API serves from. Run one or
// more of these next to collated when processing load should not share
// the API process.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thebtf/collate/internal/config"
	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/processing"
	"github.com/thebtf/collate/internal/profiles"
	"github.com/thebtf/collate/internal/queue"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	workers := flag.Int("workers", 0, "Worker pool size (default: COLLATE_WORKERS)")
	consumerID := flag.String("consumer-id", "", "Stable consumer ID for crash recovery (default: random)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if cfg.RedisAddr == "" {
		log.Fatal().Msg("COLLATE_REDIS_ADDR is required: a standalone worker needs the shared queue")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if *debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	store, err := gorm.NewStore(gorm.Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		DSN:      cfg.DBDSN,
		MaxConns: cfg.DBMaxConns,
		LogLevel: gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer store.Close()

	registry, err := profiles.Load(cfg.ProfilesPath, profiles.Profile{
		Threshold:       cfg.SimilarityThreshold,
		RemoveStopwords: cfg.RemoveStopwords,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ProfilesPath).Msg("Failed to load grouping profiles")
	}

	pool := queue.NewRedisPool(cfg.RedisAddr)
	defer pool.Close()
	jobQueue := queue.NewRedisQueue(pool, cfg.QueueName, *consumerID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Reclaim jobs a previous instance dequeued but never acked
	if moved, err := jobQueue.Recover(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to recover stranded jobs")
	} else if moved > 0 {
		log.Info().Int("jobs", moved).Msg("Requeued stranded jobs from previous run")
	}

	processor := processing.NewProcessor(processing.Config{
		Surveys:    gorm.NewSurveyStore(store),
		Responses:  gorm.NewResponseStore(store),
		Results:    gorm.NewResultStore(store),
		Profiles:   registry,
		FetchLimit: cfg.ResponseFetchLimit,
	})

	log.Info().
		Str("version", Version).
		Str("redisAddr", cfg.RedisAddr).
		Str("queue", cfg.QueueName).
		Int("workers", cfg.Workers).
		Msg("collate-worker started")

	worker := processing.NewWorker(jobQueue, processor, cfg.Workers)
	if err := worker.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Worker exited with error")
	}
	log.Info().Msg("collate-worker stopped")
}
