// Package config provides configuration management for collate.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigSuite is a test suite for config operations.
type ConfigSuite struct {
	suite.Suite
	tempDir     string
	origHomeDir string
}

func (s *ConfigSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "config-test-*")
	s.Require().NoError(err)

	// Save and override HOME
	s.origHomeDir = os.Getenv("HOME")
	os.Setenv("HOME", s.tempDir)
}

func (s *ConfigSuite) TearDownTest() {
	os.Setenv("HOME", s.origHomeDir)
	os.RemoveAll(s.tempDir)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

// TestDefault tests default configuration values.
func (s *ConfigSuite) TestDefault() {
	cfg := Default()

	s.Equal(DefaultAPIPort, cfg.APIPort)
	s.Equal(DefaultDBDriver, cfg.DBDriver)
	s.Equal(4, cfg.DBMaxConns)
	s.Empty(cfg.RedisAddr)
	s.Equal(DefaultQueueName, cfg.QueueName)
	s.Equal(DefaultWorkers, cfg.Workers)
	s.Equal(DefaultSimilarityThreshold, cfg.SimilarityThreshold)
	s.False(cfg.RemoveStopwords)
	s.Equal(DefaultResponseFetchLimit, cfg.ResponseFetchLimit)
	s.Equal(DefaultParticipantLimit, cfg.DefaultParticipantLimit)
	s.False(cfg.ScrubResponses)
	s.Equal([]string{"*"}, cfg.CORSOrigins)
	s.Equal(DefaultLogLevel, cfg.LogLevel)
}

// TestDataDir tests data directory path.
func (s *ConfigSuite) TestDataDir() {
	dir := DataDir()
	s.Contains(dir, ".collate")
}

// TestDBPath tests database path.
func (s *ConfigSuite) TestDBPath() {
	path := DBPath()
	s.Contains(path, "collate.db")
}

// TestSettingsPath tests settings file path.
func (s *ConfigSuite) TestSettingsPath() {
	path := SettingsPath()
	s.Contains(path, "settings.json")
}

// TestEnsureDataDir tests data directory creation.
func (s *ConfigSuite) TestEnsureDataDir() {
	err := EnsureDataDir()
	s.NoError(err)

	dir := DataDir()
	info, err := os.Stat(dir)
	s.NoError(err)
	s.True(info.IsDir())
}

// TestEnsureSettings tests settings file creation.
func (s *ConfigSuite) TestEnsureSettings() {
	// First ensure data dir exists
	err := EnsureDataDir()
	s.NoError(err)

	// Ensure settings creates default file
	err = EnsureSettings()
	s.NoError(err)

	path := SettingsPath()
	info, err := os.Stat(path)
	s.NoError(err)
	s.False(info.IsDir())

	// Second call should not error (file exists)
	err = EnsureSettings()
	s.NoError(err)
}

// TestEnsureAll tests full initialization.
func (s *ConfigSuite) TestEnsureAll() {
	err := EnsureAll()
	s.NoError(err)

	// Verify dir and settings exist
	_, err = os.Stat(DataDir())
	s.NoError(err)
	_, err = os.Stat(SettingsPath())
	s.NoError(err)
}

// TestLoad_TableDriven tests configuration loading with various scenarios.
func (s *ConfigSuite) TestLoad_TableDriven() {
	tests := []struct {
		name              string
		settingsJSON      string
		expectedPort      int
		expectedThreshold int
		expectedDriver    string
	}{
		{
			name:              "no settings file",
			settingsJSON:      "",
			expectedPort:      DefaultAPIPort,
			expectedThreshold: DefaultSimilarityThreshold,
			expectedDriver:    DefaultDBDriver,
		},
		{
			name:              "custom port",
			settingsJSON:      `{"COLLATE_API_PORT": 9100}`,
			expectedPort:      9100,
			expectedThreshold: DefaultSimilarityThreshold,
			expectedDriver:    DefaultDBDriver,
		},
		{
			name:              "custom threshold",
			settingsJSON:      `{"COLLATE_SIMILARITY_THRESHOLD": 70}`,
			expectedPort:      DefaultAPIPort,
			expectedThreshold: 70,
			expectedDriver:    DefaultDBDriver,
		},
		{
			name:              "multiple settings",
			settingsJSON:      `{"COLLATE_API_PORT": 9200, "COLLATE_DB_DRIVER": "postgres", "COLLATE_SIMILARITY_THRESHOLD": 90}`,
			expectedPort:      9200,
			expectedThreshold: 90,
			expectedDriver:    "postgres",
		},
		{
			name:              "invalid JSON returns defaults",
			settingsJSON:      `{invalid}`,
			expectedPort:      DefaultAPIPort,
			expectedThreshold: DefaultSimilarityThreshold,
			expectedDriver:    DefaultDBDriver,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			// Create fresh temp dir
			tempDir, err := os.MkdirTemp("", "config-test-*")
			s.Require().NoError(err)
			defer os.RemoveAll(tempDir)

			os.Setenv("HOME", tempDir)

			// Create data dir
			err = os.MkdirAll(filepath.Join(tempDir, ".collate"), 0750)
			s.Require().NoError(err)

			if tt.settingsJSON != "" {
				writeErr := os.WriteFile(
					filepath.Join(tempDir, ".collate", "settings.json"),
					[]byte(tt.settingsJSON),
					0600,
				)
				s.Require().NoError(writeErr)
			}

			cfg, err := Load()
			s.NoError(err)
			s.NotNil(cfg)
			s.Equal(tt.expectedPort, cfg.APIPort)
			s.Equal(tt.expectedThreshold, cfg.SimilarityThreshold)
			s.Equal(tt.expectedDriver, cfg.DBDriver)
		})
	}
}

// TestLoad_EnvOverridesFile tests that environment variables win over
// settings file values.
func TestLoad_EnvOverridesFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", origHome)

	err = os.MkdirAll(filepath.Join(tempDir, ".collate"), 0750)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(tempDir, ".collate", "settings.json"),
		[]byte(`{"COLLATE_SIMILARITY_THRESHOLD": 70, "COLLATE_REMOVE_STOPWORDS": false}`),
		0600,
	)
	require.NoError(t, err)

	os.Setenv("COLLATE_SIMILARITY_THRESHOLD", "95")
	os.Setenv("COLLATE_REMOVE_STOPWORDS", "true")
	defer os.Unsetenv("COLLATE_SIMILARITY_THRESHOLD")
	defer os.Unsetenv("COLLATE_REMOVE_STOPWORDS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 95, cfg.SimilarityThreshold)
	assert.True(t, cfg.RemoveStopwords)
}

// TestLoad_CORSOrigins tests comma-separated origin parsing.
func TestLoad_CORSOrigins(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", origHome)

	err = os.MkdirAll(filepath.Join(tempDir, ".collate"), 0750)
	require.NoError(t, err)

	settingsJSON := `{"COLLATE_CORS_ORIGINS": "http://localhost:5173, http://localhost:3000"}`
	err = os.WriteFile(
		filepath.Join(tempDir, ".collate", "settings.json"),
		[]byte(settingsJSON),
		0600,
	)
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

// TestGetAPIPort_WithEnv tests GetAPIPort with environment variable.
func TestGetAPIPort_WithEnv(t *testing.T) {
	// Save original env
	origEnv := os.Getenv("COLLATE_API_PORT")
	defer os.Setenv("COLLATE_API_PORT", origEnv)

	// Test with valid port in env
	os.Setenv("COLLATE_API_PORT", "45678")
	port := GetAPIPort()
	assert.Equal(t, 45678, port)

	// Test with invalid port (should fall back to config)
	os.Setenv("COLLATE_API_PORT", "not-a-number")
	port = GetAPIPort()
	assert.Greater(t, port, 0)

	// Test with zero port (should fall back to config)
	os.Setenv("COLLATE_API_PORT", "0")
	port = GetAPIPort()
	assert.Greater(t, port, 0)

	// Test with no env (should use config)
	os.Unsetenv("COLLATE_API_PORT")
	port = GetAPIPort()
	assert.Greater(t, port, 0)
}

// TestGet tests the global config getter.
func TestGet(t *testing.T) {
	// Save and restore HOME
	origHome := os.Getenv("HOME")
	tempDir, err := os.MkdirTemp("", "config-get-test-*")
	require.NoError(t, err)
	defer func() {
		os.Setenv("HOME", origHome)
		os.RemoveAll(tempDir)
	}()
	os.Setenv("HOME", tempDir)

	// Create data dir
	err = os.MkdirAll(filepath.Join(tempDir, ".collate"), 0750)
	require.NoError(t, err)

	// Get() should return a valid config
	cfg := Get()
	require.NotNil(t, cfg)
	assert.Greater(t, cfg.APIPort, 0)
	assert.NotEmpty(t, cfg.DBDriver)
}

// TestSplitTrim tests the splitTrim helper function.
func TestSplitTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "single value",
			input:    "http://localhost:5173",
			expected: []string{"http://localhost:5173"},
		},
		{
			name:     "multiple values",
			input:    "a,b,c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "values with spaces",
			input:    " a , b , c ",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty values filtered",
			input:    "a,,b,,",
			expected: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
