package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultListen          = ":8080"
	DefaultMaxUploadBytes  = 32 << 20
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultAnalysisTimeout = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultWebhookTimeout  = 10 * time.Second
)

// Environment variable names.
const (
	EnvListen         = "LOGTALLY_LISTEN"
	EnvMaxUploadBytes = "LOGTALLY_MAX_UPLOAD_BYTES"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          DefaultListen,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			AnalysisTimeout: DefaultAnalysisTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Unparseable numeric values are left for Validate to reject.
func (c *Config) applyEnvironmentOverrides() {
	if listen := os.Getenv(EnvListen); listen != "" {
		c.Server.Listen = listen
	}
	if raw := os.Getenv(EnvMaxUploadBytes); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			n = -1
		}
		c.Server.MaxUploadBytes = n
	}
}
