package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xlate.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected default shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Provider.Kind != "openai" {
		t.Errorf("expected default kind openai, got %q", cfg.Provider.Kind)
	}
	if cfg.Provider.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Provider.Timeout)
	}
	if cfg.Provider.Retries != 0 {
		t.Errorf("expected default retries 0, got %d", cfg.Provider.Retries)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected default format text, got %q", cfg.Logging.Format)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 5s
provider:
  kind: openrouter
  model: openai/gpt-4o-mini
  timeout: 15s
  retries: 2
  referer: https://example.com
  title: example
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected shutdown timeout 5s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Provider.Kind != "openrouter" {
		t.Errorf("expected kind openrouter, got %q", cfg.Provider.Kind)
	}
	if cfg.Provider.Model != "openai/gpt-4o-mini" {
		t.Errorf("expected model openai/gpt-4o-mini, got %q", cfg.Provider.Model)
	}
	if cfg.Provider.Timeout != 15*time.Second {
		t.Errorf("expected timeout 15s, got %v", cfg.Provider.Timeout)
	}
	if cfg.Provider.Retries != 2 {
		t.Errorf("expected retries 2, got %d", cfg.Provider.Retries)
	}
	if cfg.Provider.Referer != "https://example.com" {
		t.Errorf("expected referer, got %q", cfg.Provider.Referer)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected format json, got %q", cfg.Logging.Format)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
provider:
  kind: openai
`)
	t.Setenv("XLATE_PROVIDER_KIND", "mock")
	t.Setenv("XLATE_SERVER_ADDR", ":7070")
	t.Setenv("XLATE_PROVIDER_TIMEOUT", "5s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider.Kind != "mock" {
		t.Errorf("expected env override kind mock, got %q", cfg.Provider.Kind)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("expected env override addr :7070, got %q", cfg.Server.Addr)
	}
	if cfg.Provider.Timeout != 5*time.Second {
		t.Errorf("expected env override timeout 5s, got %v", cfg.Provider.Timeout)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("explicit_path_missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Fatal("expected error for missing explicit config")
		}
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		path := writeConfig(t, "server: [not, a, map")
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for malformed config")
		}
	})

	t.Run("invalid_values", func(t *testing.T) {
		path := writeConfig(t, `
logging:
  format: xml
`)
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "logging.format") {
			t.Errorf("expected logging.format in error, got: %v", err)
		}
	})
}

func validConfig() Config {
	return Config{
		Server:   Server{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Provider: Provider{Kind: "openai", Timeout: 30 * time.Second},
		Logging:  Logging{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty_addr",
			mutate:  func(c *Config) { c.Server.Addr = "  " },
			wantErr: "server.addr",
		},
		{
			name:    "negative_shutdown_timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = -time.Second },
			wantErr: "server.shutdown_timeout",
		},
		{
			name:    "empty_kind",
			mutate:  func(c *Config) { c.Provider.Kind = "" },
			wantErr: "provider.kind",
		},
		{
			name:    "negative_timeout",
			mutate:  func(c *Config) { c.Provider.Timeout = -time.Second },
			wantErr: "provider.timeout",
		},
		{
			name:    "negative_retries",
			mutate:  func(c *Config) { c.Provider.Retries = -1 },
			wantErr: "provider.retries",
		},
		{
			name:    "unknown_level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "unknown_format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestProviderAPIKey(t *testing.T) {
	t.Run("explicit_env_var", func(t *testing.T) {
		t.Setenv("XLATE_TEST_KEY", "sk-explicit")
		p := Provider{Kind: "openai", APIKeyEnv: "XLATE_TEST_KEY"}
		if got := p.APIKey(); got != "sk-explicit" {
			t.Errorf("expected sk-explicit, got %q", got)
		}
	})

	t.Run("openai_default", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		p := Provider{Kind: "openai"}
		if got := p.APIKey(); got != "sk-openai" {
			t.Errorf("expected sk-openai, got %q", got)
		}
	})

	t.Run("openrouter_default", func(t *testing.T) {
		t.Setenv("OPENROUTER_API_KEY", "sk-or")
		p := Provider{Kind: "openrouter"}
		if got := p.APIKey(); got != "sk-or" {
			t.Errorf("expected sk-or, got %q", got)
		}
	})

	t.Run("anthropic_default", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
		p := Provider{Kind: "Anthropic"}
		if got := p.APIKey(); got != "sk-ant" {
			t.Errorf("expected sk-ant, got %q", got)
		}
	})

	t.Run("keyless_kinds", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		for _, kind := range []string{"mock", "lambda"} {
			p := Provider{Kind: kind}
			if got := p.APIKey(); got != "" {
				t.Errorf("expected empty key for %s, got %q", kind, got)
			}
		}
	})
}
