// Package main provides the collated API server entry point.
//
// collated serves the HTTP API and, when no Redis is configured, also
// runs an embedded worker pool so a single binary covers small
// deployments. With Redis configured, jobs go to the shared queue and
// separate collate-worker processes consume them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thebtf/collate/internal/api"
	"github.com/thebtf/collate/internal/api/sse"
	"github.com/thebtf/collate/internal/config"
	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/editing"
	"github.com/thebtf/collate/internal/locks"
	"github.com/thebtf/collate/internal/processing"
	"github.com/thebtf/collate/internal/profiles"
	"github.com/thebtf/collate/internal/queue"
	"github.com/thebtf/collate/internal/watcher"

	_ "github.com/thebtf/collate/docs" // swagger document
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	port := flag.Int("port", 0, "HTTP port (default: COLLATE_API_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (default: COLLATE_DB_PATH)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.EnsureAll(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure data directory")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *port > 0 {
		cfg.APIPort = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	setLogLevel(cfg.LogLevel, *debug)

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

	surveys := gorm.NewSurveyStore(store)
	responses := gorm.NewResponseStore(store)
	results := gorm.NewResultStore(store)
	broadcaster := sse.NewBroadcaster()

	// Redis wires the queue and locks across processes; without it both
	// stay in-process and the embedded worker pool handles jobs.
	var (
		jobQueue queue.Queue
		locker   locks.Locker
		embedded bool
	)
	if cfg.RedisAddr != "" {
		pool := queue.NewRedisPool(cfg.RedisAddr)
		defer pool.Close()
		jobQueue = queue.NewRedisQueue(pool, cfg.QueueName, "")
		locker = locks.NewRedisLocker(pool)
		log.Info().Str("redisAddr", cfg.RedisAddr).Str("queue", cfg.QueueName).Msg("Using Redis queue")
	} else {
		jobQueue = queue.NewLocalQueue(0)
		locker = locks.NewLocalLocker()
		embedded = true
		log.Info().Msg("No Redis configured, running embedded workers")
	}

	processor := processing.NewProcessor(processing.Config{
		Surveys:    surveys,
		Responses:  responses,
		Results:    results,
		Profiles:   registry,
		FetchLimit: cfg.ResponseFetchLimit,
		Notifier:   broadcaster,
	})
	editor := editing.NewEditor(results, locker, broadcaster)

	svc := api.New(api.Config{
		Version:     Version,
		Settings:    cfg,
		Store:       store,
		Surveys:     surveys,
		Responses:   responses,
		Results:     results,
		Profiles:    registry,
		Queue:       jobQueue,
		Editor:      editor,
		Broadcaster: broadcaster,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Separate worker processes write to the SQLite file directly, so
	// watch it to keep SSE clients informed of their results.
	if cfg.DBDriver == gorm.DriverSQLite || cfg.DBDriver == "" {
		startDBWatcher(cfg.DBPath, broadcaster)
	}

	g, ctx := errgroup.WithContext(ctx)
	if embedded {
		worker := processing.NewWorker(jobQueue, processor, cfg.Workers)
		g.Go(func() error { return worker.Run(ctx) })
	}
	g.Go(func() error { return svc.Run(ctx) })

	svc.MarkReady()
	log.Info().Int("port", cfg.APIPort).Str("version", Version).Msg("collated started")

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("collated exited with error")
	}
	log.Info().Msg("collated stopped")
}

// startDBWatcher feeds database file changes into the SSE stream.
func startDBWatcher(dbPath string, broadcaster *sse.Broadcaster) {
	w, err := watcher.New(dbPath, broadcaster.DataChanged)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create database watcher")
		return
	}
	if err := w.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start database watcher")
		return
	}
	log.Info().Str("path", dbPath).Msg("Database file watcher started")
}

// setLogLevel applies the configured zerolog level; -debug wins.
func setLogLevel(level string, debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
