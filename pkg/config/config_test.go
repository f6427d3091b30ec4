package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  listen: "127.0.0.1:9090"
  max_upload_bytes: 1048576
  read_timeout: 5s
  analysis_timeout: 2s
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Listen != "127.0.0.1:9090" {
		t.Errorf("Listen = %q, want 127.0.0.1:9090", cfg.Server.Listen)
	}
	if cfg.Server.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d, want 1048576", cfg.Server.MaxUploadBytes)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.AnalysisTimeout != 2*time.Second {
		t.Errorf("AnalysisTimeout = %v, want 2s", cfg.Server.AnalysisTimeout)
	}
	// Unset values keep their defaults
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", cfg.Server.WriteTimeout, DefaultWriteTimeout)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Listen != DefaultListen {
		t.Errorf("Listen = %q, want %q", cfg.Server.Listen, DefaultListen)
	}
	if cfg.Server.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.Server.MaxUploadBytes, DefaultMaxUploadBytes)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvListen, ":7070")
	t.Setenv(EnvMaxUploadBytes, "2048")

	path := writeTempFile(t, "config.yaml", "server:\n  listen: \":9090\"\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Listen != ":7070" {
		t.Errorf("Listen = %q, want :7070", cfg.Server.Listen)
	}
	if cfg.Server.MaxUploadBytes != 2048 {
		t.Errorf("MaxUploadBytes = %d, want 2048", cfg.Server.MaxUploadBytes)
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv(EnvMaxUploadBytes, "lots")

	_, err := Load(context.Background(), "")
	if err == nil {
		t.Error("Load() expected error for non-numeric max upload override")
	}
}

func TestValidate_Server(t *testing.T) {
	tests := []struct {
		name    string
		server  ServerConfig
		wantErr bool
	}{
		{"defaults", DefaultConfig().Server, false},
		{"bad listen address", ServerConfig{Listen: "localhost", MaxUploadBytes: 1}, true},
		{"zero max upload", ServerConfig{Listen: ":8080", MaxUploadBytes: 0}, true},
		{"negative timeout", ServerConfig{Listen: ":8080", MaxUploadBytes: 1, ReadTimeout: -time.Second}, true},
		{"empty listen gets default", ServerConfig{MaxUploadBytes: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: tt.server}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_DefaultTimeouts(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Listen: ":8080", MaxUploadBytes: 1}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.Server.AnalysisTimeout != DefaultAnalysisTimeout {
		t.Errorf("AnalysisTimeout = %v, want %v", cfg.Server.AnalysisTimeout, DefaultAnalysisTimeout)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
}

func validConfig(webhooks ...WebhookConfig) *Config {
	cfg := DefaultConfig()
	cfg.Webhooks = webhooks
	return cfg
}

func TestValidate_Webhook_MissingURL(t *testing.T) {
	err := Validate(validConfig(WebhookConfig{Name: "test"}))
	if err == nil {
		t.Error("Validate() expected error for missing url")
	}
}

func TestValidate_Webhook_InvalidScheme(t *testing.T) {
	err := Validate(validConfig(WebhookConfig{URL: "ftp://example.com/webhook"}))
	if err == nil {
		t.Error("Validate() expected error for ftp scheme")
	}
}

func TestValidate_Webhook_MissingHost(t *testing.T) {
	err := Validate(validConfig(WebhookConfig{URL: "https:///path"}))
	if err == nil {
		t.Error("Validate() expected error for missing host")
	}
}

func TestValidate_Webhook_InvalidTrigger(t *testing.T) {
	err := Validate(validConfig(WebhookConfig{URL: "https://example.com/webhook", Trigger: "on_warnings"}))
	if err == nil {
		t.Error("Validate() expected error for invalid trigger")
	}
}

func TestValidate_Webhook_AllTriggers(t *testing.T) {
	triggers := []WebhookTrigger{
		WebhookTriggerOnErrors,
		WebhookTriggerAlways,
		WebhookTriggerNever,
	}

	for _, trigger := range triggers {
		err := Validate(validConfig(WebhookConfig{URL: "https://example.com/webhook", Trigger: trigger}))
		if err != nil {
			t.Errorf("Validate() with trigger %q error = %v", trigger, err)
		}
	}
}

func TestValidate_Webhook_Defaults(t *testing.T) {
	cfg := validConfig(WebhookConfig{URL: "https://example.com/webhook"})
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnErrors {
		t.Errorf("Default trigger = %v, want %v", cfg.Webhooks[0].Trigger, WebhookTriggerOnErrors)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Default timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestValidate_Webhook_TokenExpansion(t *testing.T) {
	t.Setenv("TEST_HOOK_TOKEN", "secret-value")

	cfg := validConfig(WebhookConfig{URL: "https://example.com/webhook", Token: "${TEST_HOOK_TOKEN}"})
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Token != "secret-value" {
		t.Errorf("Token = %q, want secret-value", cfg.Webhooks[0].Token)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${NONEXISTENT_VAR}", ""},
	}

	for _, tt := range tests {
		got := expandEnvVar(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	content := `
webhooks:
  - name: test-webhook
    url: "https://example.com/webhook"
    trigger: on_errors
    timeout: 30s
  - url: "https://backup.example.com/webhook"
    trigger: always
`
	path := writeTempFile(t, "config-with-webhooks.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 2 {
		t.Fatalf("Webhooks = %d, want 2", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Name != "test-webhook" {
		t.Errorf("Webhook[0].Name = %q, want %q", cfg.Webhooks[0].Name, "test-webhook")
	}
	if cfg.Webhooks[0].Timeout != 30*time.Second {
		t.Errorf("Webhook[0].Timeout = %v, want 30s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[1].Trigger != WebhookTriggerAlways {
		t.Errorf("Webhook[1].Trigger = %v, want %v", cfg.Webhooks[1].Trigger, WebhookTriggerAlways)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
