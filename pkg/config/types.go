// Package config provides configuration loading and validation for logtally.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// Server configures the HTTP analysis service.
	Server ServerConfig `yaml:"server"`

	// Webhooks lists endpoints to notify after a CLI analysis.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// ServerConfig configures the HTTP listener and request limits.
type ServerConfig struct {
	// Listen is the host:port address to bind.
	Listen string `yaml:"listen"`

	// MaxUploadBytes caps the size of a request body.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// ReadTimeout bounds reading the full request, body included.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// AnalysisTimeout bounds a single analysis. The fold is abandoned
	// when it expires.
	AnalysisTimeout time.Duration `yaml:"analysis_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when error lines are found (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending analysis results.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_errors" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
