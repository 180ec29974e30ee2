// Package providers selects and builds a gateway adapter from configuration.
package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xlate/xlate"
	"github.com/xlate/xlate/providers/anthropic"
	"github.com/xlate/xlate/providers/lambda"
	"github.com/xlate/xlate/providers/openai"
	"github.com/xlate/xlate/providers/openrouter"
)

// Config carries the union of adapter settings; each kind reads the
// fields it understands and ignores the rest.
type Config struct {
	Kind    string        // openai, openrouter, anthropic, lambda, or mock
	APIKey  string        // openai, openrouter, anthropic
	Model   string        // openai, openrouter, anthropic
	BaseURL string        // openai, openrouter, anthropic
	Timeout time.Duration // openai, openrouter, anthropic

	OrgID string // openai organization

	Referer string // openrouter attribution
	Title   string // openrouter attribution

	FunctionName string // lambda gateway function
	Region       string // lambda AWS region
}

// Kinds returns the recognized provider kinds.
func Kinds() []string {
	return []string{"openai", "openrouter", "anthropic", "lambda", "mock"}
}

// New builds the provider named by cfg.Kind.
func New(ctx context.Context, cfg Config) (xlate.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "openai":
		return openai.New(openai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			OrgID:   cfg.OrgID,
		})
	case "openrouter":
		return openrouter.New(openrouter.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Referer: cfg.Referer,
			Title:   cfg.Title,
			Timeout: cfg.Timeout,
		})
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	case "lambda":
		return lambda.New(ctx, lambda.Config{
			FunctionName: cfg.FunctionName,
			Region:       cfg.Region,
		})
	case "mock":
		return xlate.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q (valid: %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
}
