// Package main provides collatectl, the operator CLI.
//
// collatectl runs the grouping pipeline synchronously for one survey
// and prints the persisted result as JSON, bypassing the queue. Useful
// for reprocessing a survey from a shell or inspecting what a profile
// produces before pointing dashboards at it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thebtf/collate/internal/config"
	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/processing"
	"github.com/thebtf/collate/internal/profiles"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	surveyID := flag.String("survey", "", "Survey ID to process (required)")
	profile := flag.String("profile", "", "Grouping profile name (default: the default profile)")
	threshold := flag.Int("threshold", -1, "Similarity threshold override, 0..100")
	removeStopwords := flag.Bool("remove-stopwords", false, "Drop stopwords during normalization")
	dbPath := flag.String("db", "", "SQLite database path (default: COLLATE_DB_PATH)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Results go to stdout, logs to stderr
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *surveyID == "" {
		log.Fatal().Msg("--survey is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	store, err := gorm.NewStore(gorm.Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		DSN:      cfg.DBDSN,
		MaxConns: cfg.DBMaxConns,
		LogLevel: gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	registry, err := profiles.Load(cfg.ProfilesPath, profiles.Profile{
		Threshold:       cfg.SimilarityThreshold,
		RemoveStopwords: cfg.RemoveStopwords,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ProfilesPath).Msg("Failed to load grouping profiles")
	}

	processor := processing.NewProcessor(processing.Config{
		Surveys:    gorm.NewSurveyStore(store),
		Responses:  gorm.NewResponseStore(store),
		Results:    gorm.NewResultStore(store),
		Profiles:   registry,
		FetchLimit: cfg.ResponseFetchLimit,
	})

	opts := processing.Options{Profile: *profile}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			opts.Threshold = threshold
		case "remove-stopwords":
			opts.RemoveStopwords = removeStopwords
		}
	})

	result, err := processor.Process(context.Background(), *surveyID, opts)
	if err != nil {
		log.Fatal().Err(err).Str("surveyId", *surveyID).Msg("Processing failed")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(out))
}
