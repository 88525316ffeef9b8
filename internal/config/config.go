// Package config provides configuration management for collate.
//
// Settings live in ~/.collate/settings.json and are created with
// defaults on first run. Environment variables using the same COLLATE_*
// keys override file values. All keys:
//
//	COLLATE_API_PORT                  HTTP port for collated (default 8642)
//	COLLATE_DB_DRIVER                 "sqlite" or "postgres" (default sqlite)
//	COLLATE_DB_PATH                   SQLite file path (default ~/.collate/collate.db)
//	COLLATE_DB_DSN                    Postgres DSN when the driver is postgres
//	COLLATE_DB_MAX_CONNS              connection pool size (default 4)
//	COLLATE_REDIS_ADDR                host:port; empty runs the embedded queue
//	COLLATE_QUEUE_NAME                Redis queue key prefix (default collate:jobs)
//	COLLATE_WORKERS                   worker pool size (default 2)
//	COLLATE_SIMILARITY_THRESHOLD      default grouping threshold (default 85)
//	COLLATE_REMOVE_STOPWORDS          drop stopwords during normalization (default false)
//	COLLATE_RESPONSE_FETCH_LIMIT      max responses fed to one grouping run (default 1000)
//	COLLATE_DEFAULT_PARTICIPANT_LIMIT fallback survey participant cap (default 500)
//	COLLATE_SCRUB_RESPONSES           redact PII from answers at intake (default false)
//	COLLATE_PROFILES_PATH             optional grouping profiles YAML
//	COLLATE_CORS_ORIGINS              comma-separated allowed origins (default *)
//	COLLATE_LOG_LEVEL                 zerolog level (default info)
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Defaults for settings that have no environment or file override.
const (
	DefaultAPIPort             = 8642
	DefaultDBDriver            = "sqlite"
	DefaultQueueName           = "collate:jobs"
	DefaultWorkers             = 2
	DefaultSimilarityThreshold = 85
	DefaultResponseFetchLimit  = 1000
	DefaultParticipantLimit    = 500
	DefaultLogLevel            = "info"
)

// Config holds all collate settings.
type Config struct {
	APIPort                 int
	DBDriver                string
	DBPath                  string
	DBDSN                   string
	DBMaxConns              int
	RedisAddr               string
	QueueName               string
	Workers                 int
	SimilarityThreshold     int
	RemoveStopwords         bool
	ResponseFetchLimit      int
	DefaultParticipantLimit int
	ScrubResponses          bool
	ProfilesPath            string
	CORSOrigins             []string
	LogLevel                string
}

var (
	cached   *Config
	cachedMu sync.Mutex
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIPort:                 DefaultAPIPort,
		DBDriver:                DefaultDBDriver,
		DBPath:                  DBPath(),
		DBMaxConns:              4,
		QueueName:               DefaultQueueName,
		Workers:                 DefaultWorkers,
		SimilarityThreshold:     DefaultSimilarityThreshold,
		RemoveStopwords:         false,
		ResponseFetchLimit:      DefaultResponseFetchLimit,
		DefaultParticipantLimit: DefaultParticipantLimit,
		ScrubResponses:          false,
		CORSOrigins:             []string{"*"},
		LogLevel:                DefaultLogLevel,
	}
}

// Load reads settings.json and applies environment overrides on top of
// the defaults. A missing or unreadable settings file is not an error;
// invalid JSON falls back to defaults.
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(SettingsPath()); err == nil {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err == nil {
			applySettings(cfg, raw)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Get returns the process-wide configuration, loading it once.
func Get() *Config {
	cachedMu.Lock()
	defer cachedMu.Unlock()
	if cached == nil {
		cached, _ = Load()
	}
	return cached
}

// applySettings copies recognized keys from the settings file into cfg.
func applySettings(cfg *Config, raw map[string]json.RawMessage) {
	intKey(raw, "COLLATE_API_PORT", &cfg.APIPort)
	strKey(raw, "COLLATE_DB_DRIVER", &cfg.DBDriver)
	strKey(raw, "COLLATE_DB_PATH", &cfg.DBPath)
	strKey(raw, "COLLATE_DB_DSN", &cfg.DBDSN)
	intKey(raw, "COLLATE_DB_MAX_CONNS", &cfg.DBMaxConns)
	strKey(raw, "COLLATE_REDIS_ADDR", &cfg.RedisAddr)
	strKey(raw, "COLLATE_QUEUE_NAME", &cfg.QueueName)
	intKey(raw, "COLLATE_WORKERS", &cfg.Workers)
	intKey(raw, "COLLATE_SIMILARITY_THRESHOLD", &cfg.SimilarityThreshold)
	boolKey(raw, "COLLATE_REMOVE_STOPWORDS", &cfg.RemoveStopwords)
	intKey(raw, "COLLATE_RESPONSE_FETCH_LIMIT", &cfg.ResponseFetchLimit)
	intKey(raw, "COLLATE_DEFAULT_PARTICIPANT_LIMIT", &cfg.DefaultParticipantLimit)
	boolKey(raw, "COLLATE_SCRUB_RESPONSES", &cfg.ScrubResponses)
	strKey(raw, "COLLATE_PROFILES_PATH", &cfg.ProfilesPath)
	strKey(raw, "COLLATE_LOG_LEVEL", &cfg.LogLevel)

	var origins string
	strKey(raw, "COLLATE_CORS_ORIGINS", &origins)
	if origins != "" {
		cfg.CORSOrigins = splitTrim(origins)
	}
}

// applyEnv overrides cfg fields from COLLATE_* environment variables.
func applyEnv(cfg *Config) {
	intEnv("COLLATE_API_PORT", &cfg.APIPort)
	strEnv("COLLATE_DB_DRIVER", &cfg.DBDriver)
	strEnv("COLLATE_DB_PATH", &cfg.DBPath)
	strEnv("COLLATE_DB_DSN", &cfg.DBDSN)
	intEnv("COLLATE_DB_MAX_CONNS", &cfg.DBMaxConns)
	strEnv("COLLATE_REDIS_ADDR", &cfg.RedisAddr)
	strEnv("COLLATE_QUEUE_NAME", &cfg.QueueName)
	intEnv("COLLATE_WORKERS", &cfg.Workers)
	intEnv("COLLATE_SIMILARITY_THRESHOLD", &cfg.SimilarityThreshold)
	boolEnv("COLLATE_REMOVE_STOPWORDS", &cfg.RemoveStopwords)
	intEnv("COLLATE_RESPONSE_FETCH_LIMIT", &cfg.ResponseFetchLimit)
	intEnv("COLLATE_DEFAULT_PARTICIPANT_LIMIT", &cfg.DefaultParticipantLimit)
	boolEnv("COLLATE_SCRUB_RESPONSES", &cfg.ScrubResponses)
	strEnv("COLLATE_PROFILES_PATH", &cfg.ProfilesPath)
	strEnv("COLLATE_LOG_LEVEL", &cfg.LogLevel)

	if v := os.Getenv("COLLATE_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitTrim(v)
	}
}

// DataDir returns the collate data directory (~/.collate).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".collate")
}

// DBPath returns the default SQLite database path.
func DBPath() string {
	return filepath.Join(DataDir(), "collate.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it does not exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o750)
}

// EnsureSettings writes a default settings file if none exists.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	defaults := map[string]interface{}{
		"COLLATE_API_PORT":                  DefaultAPIPort,
		"COLLATE_DB_DRIVER":                 DefaultDBDriver,
		"COLLATE_DB_PATH":                   DBPath(),
		"COLLATE_DB_DSN":                    "",
		"COLLATE_DB_MAX_CONNS":              4,
		"COLLATE_REDIS_ADDR":                "",
		"COLLATE_QUEUE_NAME":                DefaultQueueName,
		"COLLATE_WORKERS":                   DefaultWorkers,
		"COLLATE_SIMILARITY_THRESHOLD":      DefaultSimilarityThreshold,
		"COLLATE_REMOVE_STOPWORDS":          false,
		"COLLATE_RESPONSE_FETCH_LIMIT":      DefaultResponseFetchLimit,
		"COLLATE_DEFAULT_PARTICIPANT_LIMIT": DefaultParticipantLimit,
		"COLLATE_SCRUB_RESPONSES":           false,
		"COLLATE_PROFILES_PATH":             "",
		"COLLATE_CORS_ORIGINS":              "*",
		"COLLATE_LOG_LEVEL":                 DefaultLogLevel,
	}

	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// EnsureAll creates the data directory and settings file.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return err
	}
	return EnsureSettings()
}

// GetAPIPort returns the API port, preferring a valid COLLATE_API_PORT
// environment value over the loaded configuration.
func GetAPIPort() int {
	if v := os.Getenv("COLLATE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			return port
		}
	}
	return Get().APIPort
}

// splitTrim splits a comma-separated string, trimming whitespace and
// dropping empty entries.
func splitTrim(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func strKey(raw map[string]json.RawMessage, key string, dst *string) {
	if v, ok := raw[key]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			*dst = s
		}
	}
}

func intKey(raw map[string]json.RawMessage, key string, dst *int) {
	if v, ok := raw[key]; ok {
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			*dst = n
		}
	}
}

func boolKey(raw map[string]json.RawMessage, key string, dst *bool) {
	if v, ok := raw[key]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			*dst = b
		}
	}
}

func strEnv(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func intEnv(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func boolEnv(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
