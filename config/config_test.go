package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()

	assert.NilError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, ":8080", cfg.Address())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	// Set environment variables
	os.Setenv("PORT", "9000")
	os.Setenv("LOG_LEVEL", "DEBUG")
	os.Setenv("SHUTDOWN_TIMEOUT", "20s")
	os.Setenv("VERSION", "2.0.0-beta")
	os.Setenv("LAB4_API_KEY", "super-secret")
	os.Setenv("STORE_BACKEND", "redis")
	os.Setenv("REDIS_URL", "redis://redis:6379/2")

	defer func() {
		os.Clearenv()
	}()

	cfg, err := LoadConfig()

	assert.NilError(t, err)
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "2.0.0-beta", cfg.Version)
	assert.Equal(t, "super-secret", cfg.APIKey)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, "redis://redis:6379/2", cfg.RedisURL)
	assert.Equal(t, ":9000", cfg.Address())
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	// Set invalid environment variables
	os.Setenv("PORT", "not-a-number")
	os.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	defer func() {
		os.Clearenv()
	}()

	cfg, err := LoadConfig()

	// Should fall back to defaults and validate successfully
	assert.NilError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port string
	}{
		{"port too low", "0"},
		{"port too high", "65536"},
		{"negative port", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("PORT", tt.port)
			defer os.Clearenv()

			cfg, err := LoadConfig()

			assert.Assert(t, cfg == nil)
			assert.Assert(t, err != nil)
			assert.Assert(t, strings.Contains(err.Error(), "invalid server port"))
		})
	}
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"invalid level", "INVALID"},
		{"numeric level", "123"},
		{"random string", "random"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("LOG_LEVEL", tt.logLevel)
			defer os.Clearenv()

			cfg, err := LoadConfig()

			assert.Assert(t, cfg == nil)
			assert.Assert(t, err != nil)
			assert.Assert(t, strings.Contains(err.Error(), "invalid log level"))
		})
	}
}

func TestLoadConfig_LogLevelNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase debug", "debug", "DEBUG"},
		{"lowercase info", "info", "INFO"},
		{"mixed case warn", "WaRn", "WARN"},
		{"with spaces", " ERROR ", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("LOG_LEVEL", tt.input)
			defer os.Clearenv()

			cfg, err := LoadConfig()

			assert.NilError(t, err)
			assert.Equal(t, tt.expected, cfg.LogLevel)
		})
	}
}

func TestLoadConfig_InvalidShutdownTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  string
		errorMsg string
	}{
		{"negative timeout", "-5s", "must be positive"},
		{"too large timeout", "10m", "must not exceed 5 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("SHUTDOWN_TIMEOUT", tt.timeout)
			defer os.Clearenv()

			cfg, err := LoadConfig()

			assert.Assert(t, cfg == nil)
			assert.Assert(t, err != nil)
			assert.Assert(t, strings.Contains(err.Error(), "invalid shutdown timeout"))
			assert.Assert(t, strings.Contains(err.Error(), tt.errorMsg))
		})
	}
}

func TestLoadConfig_StoreBackendNormalization(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase memory", "MEMORY", StoreMemory},
		{"mixed case redis", "Redis", StoreRedis},
		{"with spaces", " memory ", StoreMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("STORE_BACKEND", tt.input)
			defer os.Clearenv()

			cfg, err := LoadConfig()

			assert.NilError(t, err)
			assert.Equal(t, tt.expected, cfg.StoreBackend)
		})
	}
}

func TestLoadConfig_InvalidStoreBackend(t *testing.T) {
	os.Clearenv()
	os.Setenv("STORE_BACKEND", "postgres")
	defer os.Clearenv()

	cfg, err := LoadConfig()

	assert.Assert(t, cfg == nil)
	assert.Assert(t, err != nil)
	assert.Assert(t, strings.Contains(err.Error(), "invalid store backend"))
}
