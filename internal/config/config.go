// Package config loads xlated configuration from YAML files and
// XLATE_-prefixed environment variables.
//
// Resolution order: explicit --config path, then ./xlate.yaml, then
// $HOME/.xlate/xlate.yaml, then built-in defaults. Environment variables
// override file values key by key (XLATE_PROVIDER_KIND, XLATE_SERVER_ADDR,
// and so on). API keys are never stored in files; they are read from the
// environment variable named by provider.api_key_env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "XLATE"

// Config is the full xlated configuration tree.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Provider Provider `mapstructure:"provider"`
	Logging  Logging  `mapstructure:"logging"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Provider selects and configures the LLM gateway. Only the fields
// relevant to the chosen kind are consulted; the rest are ignored.
type Provider struct {
	Kind      string        `mapstructure:"kind"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`

	// OpenAI only.
	OrgID string `mapstructure:"org_id"`

	// OpenRouter attribution headers.
	Referer string `mapstructure:"referer"`
	Title   string `mapstructure:"title"`

	// Lambda gateway only.
	FunctionName string `mapstructure:"function_name"`
	Region       string `mapstructure:"region"`
}

// Logging controls logrus output.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file path, or from the default
// search locations when path is empty. A missing file in the default
// locations is not an error; an explicit path that cannot be read is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("xlate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".xlate"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every known key so environment overrides are
// picked up even when no file is present.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("provider.kind", "openai")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.api_key_env", "")
	v.SetDefault("provider.timeout", 30*time.Second)
	v.SetDefault("provider.retries", 0)
	v.SetDefault("provider.org_id", "")
	v.SetDefault("provider.referer", "")
	v.SetDefault("provider.title", "")
	v.SetDefault("provider.function_name", "")
	v.SetDefault("provider.region", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate reports the first structural problem in the configuration.
// Provider kind validity is left to the provider factory, which knows
// the full set of kinds.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must not be negative")
	}
	if strings.TrimSpace(c.Provider.Kind) == "" {
		return errors.New("provider.kind must not be empty")
	}
	if c.Provider.Timeout < 0 {
		return errors.New("provider.timeout must not be negative")
	}
	if c.Provider.Retries < 0 {
		return errors.New("provider.retries must not be negative")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

// APIKey reads the provider API key from the environment variable named
// by api_key_env, falling back to the conventional variable for the
// kind. Kinds without API keys (lambda, mock) resolve to empty unless
// api_key_env is set explicitly.
func (p Provider) APIKey() string {
	name := strings.TrimSpace(p.APIKeyEnv)
	if name == "" {
		switch strings.ToLower(strings.TrimSpace(p.Kind)) {
		case "openai":
			name = "OPENAI_API_KEY"
		case "openrouter":
			name = "OPENROUTER_API_KEY"
		case "anthropic":
			name = "ANTHROPIC_API_KEY"
		default:
			return ""
		}
	}
	return strings.TrimSpace(os.Getenv(name))
}
