// Package anthropic provides an xlate Provider backed by the Anthropic
// messages API. The API has no JSON response mode; schema conformance
// relies on the schema embedded in the rendered prompt and on the
// engine's parse+validate step.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/xlate/xlate"
)

// Provider implements the xlate Provider interface for the Anthropic API.
type Provider struct {
	apiKey     string
	model      string
	version    string
	baseURL    string
	maxTokens  int
	httpClient *http.Client
	name       string
}

// Config holds configuration for the Anthropic provider.
type Config struct {
	APIKey    string
	Model     string        // e.g. "claude-sonnet-4-20250514"
	Version   string        // API version header, defaults to "2023-06-01"
	BaseURL   string        // Optional, defaults to "https://api.anthropic.com/v1"
	MaxTokens int           // Optional, defaults to 4096
	Timeout   time.Duration // Optional, defaults to 30s
}

// New creates a new Anthropic provider.
func New(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if config.Model == "" {
		config.Model = "claude-sonnet-4-20250514"
	}
	if config.Version == "" {
		config.Version = "2023-06-01"
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com/v1"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Provider{
		apiKey:    config.APIKey,
		model:     config.Model,
		version:   config.Version,
		baseURL:   config.BaseURL,
		maxTokens: config.MaxTokens,
		name:      "anthropic",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Call sends a prompt to Anthropic and returns the response text.
func (p *Provider) Call(ctx context.Context, prompt string, temperature float32) (string, error) {
	startTime := time.Now()

	capitan.Info(ctx, xlate.ProviderCallStarted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(p.model),
	)

	requestBody := messagesRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: temperature,
		Messages: []message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", p.version)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		capitan.Error(ctx, xlate.ProviderCallFailed,
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.model),
			xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
			xlate.ErrorKey.Field(err.Error()),
		)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		duration := time.Since(startTime)
		var errorResp errorResponse

		fields := []capitan.Field{
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.model),
			xlate.HTTPStatusCodeKey.Field(resp.StatusCode),
			xlate.DurationMsKey.Field(int(duration.Milliseconds())),
		}

		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			fields = append(fields,
				xlate.ErrorKey.Field(errorResp.Error.Message),
				xlate.APIErrorTypeKey.Field(errorResp.Error.Type),
			)
			capitan.Error(ctx, xlate.ProviderCallFailed, fields...)

			if resp.StatusCode == http.StatusTooManyRequests {
				return "", fmt.Errorf("rate limit exceeded: %s", errorResp.Error.Message)
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return "", fmt.Errorf("anthropic unavailable (%d): %s", resp.StatusCode, errorResp.Error.Message)
			}
			return "", fmt.Errorf("anthropic error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}

		fields = append(fields, xlate.ErrorKey.Field(fmt.Sprintf("status %d", resp.StatusCode)))
		capitan.Error(ctx, xlate.ProviderCallFailed, fields...)
		return "", fmt.Errorf("anthropic error: status %d", resp.StatusCode)
	}

	var messagesResp messagesResponse
	if err := json.Unmarshal(body, &messagesResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	// Concatenate text blocks; tool-use and thinking blocks are ignored
	var result string
	for _, content := range messagesResp.Content {
		if content.Type == "text" {
			result += content.Text
		}
	}

	if result == "" {
		return "", fmt.Errorf("no text content in response")
	}

	duration := time.Since(startTime)

	capitan.Info(ctx, xlate.ProviderCallCompleted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(messagesResp.Model),
		xlate.PromptTokensKey.Field(messagesResp.Usage.InputTokens),
		xlate.CompletionTokensKey.Field(messagesResp.Usage.OutputTokens),
		xlate.TotalTokensKey.Field(messagesResp.Usage.InputTokens+messagesResp.Usage.OutputTokens),
		xlate.DurationMsKey.Field(int(duration.Milliseconds())),
		xlate.HTTPStatusCodeKey.Field(resp.StatusCode),
	)

	return result, nil
}

// Request/Response types for the Anthropic API

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float32   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Role    string    `json:"role"`
	Content []content `json:"content"`
	Model   string    `json:"model"`
	Usage   usage     `json:"usage"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
