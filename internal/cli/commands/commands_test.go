package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand()

	if cmd.Use != "analyze [file|-]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{
		"output", "config", "verbose", "quiet",
		"cloudwatch-group", "region", "profile", "since",
		"webhook-url", "webhook-token", "webhook-trigger",
	}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	if cmd.Use != "serve" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"config", "listen"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if buf.String() != "logtally "+Version+"\n" {
		t.Errorf("version output = %q", buf.String())
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	return path
}

func TestRunValidate_Success(t *testing.T) {
	configPath := writeConfig(t, `server:
  listen: "127.0.0.1:9090"
  max_upload_bytes: 1048576
  analysis_timeout: 5s
webhooks:
  - name: alerts
    url: https://example.com/hook
    trigger: always
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})

	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Configuration valid!", "127.0.0.1:9090", "1048576 bytes", "5s", "[always] alerts"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, "invalid: yaml: content")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestRunValidate_InvalidValues(t *testing.T) {
	configPath := writeConfig(t, "server:\n  max_upload_bytes: -5\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "max_upload_bytes") {
		t.Errorf("error = %v, want max_upload_bytes failure", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})
	cmd.SetOut(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadServeConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadServeConfig(context.Background(), &ServeOptions{})
		if err != nil {
			t.Fatalf("loadServeConfig() error = %v", err)
		}
		if cfg.Server.AnalysisTimeout != 30*time.Second {
			t.Errorf("AnalysisTimeout = %s, want 30s", cfg.Server.AnalysisTimeout)
		}
	})

	t.Run("listen flag overrides file", func(t *testing.T) {
		configPath := writeConfig(t, "server:\n  listen: \":9000\"\n")
		cfg, err := loadServeConfig(context.Background(), &ServeOptions{Config: configPath, Listen: "127.0.0.1:7000"})
		if err != nil {
			t.Fatalf("loadServeConfig() error = %v", err)
		}
		if cfg.Server.Listen != "127.0.0.1:7000" {
			t.Errorf("Listen = %q", cfg.Server.Listen)
		}
	})

	t.Run("invalid listen flag", func(t *testing.T) {
		_, err := loadServeConfig(context.Background(), &ServeOptions{Listen: "no-port"})
		if err == nil || !strings.Contains(err.Error(), "invalid --listen") {
			t.Errorf("error = %v, want invalid --listen", err)
		}
	})
}

func TestRunServe_ShutsDownOnCancel(t *testing.T) {
	t.Setenv("LOGTALLY_LISTEN", "127.0.0.1:0")
	cmd := NewServeCommand()
	cmd.SetArgs(nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- cmd.ExecuteContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		output  string
		wantErr bool
	}{
		{"text", false},
		{"json", false},
		{"html", false},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			opts := &AnalyzeOptions{Output: tt.output}
			_, err := createFormatter(opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("createFormatter(%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
			}
		})
	}
}
