// Package openrouter provides an xlate Provider backed by the OpenRouter
// chat-completions API. OpenRouter fronts many upstream models; JSON mode
// support varies by model, so a rejected response_format falls back to an
// unconstrained request and the engine's parse+validate step carries the
// schema guarantee.
package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"github.com/zoobzio/capitan"

	"github.com/xlate/xlate"
)

// Provider implements the xlate Provider interface for the OpenRouter API.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	referer    string
	title      string
	httpClient *resty.Client
	name       string
}

// Config holds configuration for the OpenRouter provider.
type Config struct {
	APIKey  string
	Model   string        // e.g. "openai/gpt-4o", "anthropic/claude-sonnet-4"
	BaseURL string        // Optional, defaults to "https://openrouter.ai/api/v1"
	Referer string        // Optional HTTP-Referer attribution header
	Title   string        // Optional X-Title attribution header
	Timeout time.Duration // Optional, defaults to 30s
}

// New creates a new OpenRouter provider.
func New(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openrouter: API key is required")
	}
	if config.Model == "" {
		config.Model = "openai/gpt-4o"
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://openrouter.ai/api/v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Provider{
		apiKey:     config.APIKey,
		model:      config.Model,
		baseURL:    config.BaseURL,
		referer:    config.Referer,
		title:      config.Title,
		name:       "openrouter",
		httpClient: resty.New().SetTimeout(config.Timeout),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Call sends a prompt to OpenRouter and returns the response content.
func (p *Provider) Call(ctx context.Context, prompt string, temperature float32) (string, error) {
	startTime := time.Now()

	capitan.Info(ctx, xlate.ProviderCallStarted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(p.model),
	)

	body := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature":     temperature,
		"response_format": map[string]string{"type": "json_object"},
	}

	resp, err := p.post(ctx, body)
	if err != nil {
		capitan.Error(ctx, xlate.ProviderCallFailed,
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.model),
			xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
			xlate.ErrorKey.Field(err.Error()),
		)
		return "", fmt.Errorf("request failed: %w", err)
	}

	// Some upstream models reject response_format outright; retry once
	// without it. The schema still rides in the prompt.
	if resp.StatusCode() == http.StatusBadRequest {
		delete(body, "response_format")
		resp, err = p.post(ctx, body)
		if err != nil {
			capitan.Error(ctx, xlate.ProviderCallFailed,
				xlate.ProviderKey.Field(p.name),
				xlate.ModelKey.Field(p.model),
				xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
				xlate.ErrorKey.Field(err.Error()),
			)
			return "", fmt.Errorf("request failed: %w", err)
		}
	}

	if resp.IsError() {
		duration := time.Since(startTime)
		apiMessage := gjson.GetBytes(resp.Body(), "error.message").String()

		fields := []capitan.Field{
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.model),
			xlate.HTTPStatusCodeKey.Field(resp.StatusCode()),
			xlate.DurationMsKey.Field(int(duration.Milliseconds())),
		}

		if apiMessage != "" {
			fields = append(fields, xlate.ErrorKey.Field(apiMessage))
			capitan.Error(ctx, xlate.ProviderCallFailed, fields...)

			if resp.StatusCode() == http.StatusTooManyRequests {
				return "", fmt.Errorf("rate limit exceeded: %s", apiMessage)
			}
			if resp.StatusCode() >= http.StatusInternalServerError {
				return "", fmt.Errorf("openrouter unavailable (%d): %s", resp.StatusCode(), apiMessage)
			}
			return "", fmt.Errorf("openrouter error (%d): %s", resp.StatusCode(), apiMessage)
		}

		fields = append(fields, xlate.ErrorKey.Field(resp.Status()))
		capitan.Error(ctx, xlate.ProviderCallFailed, fields...)
		return "", fmt.Errorf("openrouter error: %s; body: %s", resp.Status(), truncate(resp.String(), 512))
	}

	content := gjson.GetBytes(resp.Body(), "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		return "", fmt.Errorf("no response choices returned")
	}

	duration := time.Since(startTime)

	capitan.Info(ctx, xlate.ProviderCallCompleted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(gjson.GetBytes(resp.Body(), "model").String()),
		xlate.PromptTokensKey.Field(int(gjson.GetBytes(resp.Body(), "usage.prompt_tokens").Int())),
		xlate.CompletionTokensKey.Field(int(gjson.GetBytes(resp.Body(), "usage.completion_tokens").Int())),
		xlate.TotalTokensKey.Field(int(gjson.GetBytes(resp.Body(), "usage.total_tokens").Int())),
		xlate.DurationMsKey.Field(int(duration.Milliseconds())),
		xlate.HTTPStatusCodeKey.Field(resp.StatusCode()),
	)

	return content.String(), nil
}

// post issues one chat-completions request with attribution headers.
func (p *Provider) post(ctx context.Context, body map[string]any) (*resty.Response, error) {
	req := p.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body)

	if p.referer != "" {
		req.SetHeader("HTTP-Referer", p.referer)
	}
	if p.title != "" {
		req.SetHeader("X-Title", p.title)
	}

	return req.Post(p.baseURL + "/chat/completions")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
