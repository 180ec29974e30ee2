// Package openai provides an xlate Provider backed by the OpenAI
// chat-completions API.
package openai

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

// Provider implements the xlate Provider interface for the OpenAI API.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	orgID      string
	httpClient *http.Client
	name       string
}

// Config holds configuration for the OpenAI provider.
type Config struct {
	APIKey  string
	Model   string        // e.g. "gpt-4o", "gpt-4o-mini"
	BaseURL string        // Optional, defaults to "https://api.openai.com/v1"
	Timeout time.Duration // Optional, defaults to 30s
	OrgID   string        // Optional OpenAI organization
}

// New creates a new OpenAI provider.
func New(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if config.Model == "" {
		config.Model = "gpt-4o"
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Provider{
		apiKey:  config.APIKey,
		model:   config.Model,
		baseURL: config.BaseURL,
		orgID:   config.OrgID,
		name:    "openai",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Call sends a prompt to OpenAI and returns the response content.
func (p *Provider) Call(ctx context.Context, prompt string, temperature float32) (string, error) {
	startTime := time.Now()

	capitan.Info(ctx, xlate.ProviderCallStarted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(p.model),
	)

	// JSON mode keeps responses parseable without prose wrappers
	requestBody := chatCompletionRequest{
		Model: p.model,
		Messages: []message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: temperature,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.orgID != "" {
		req.Header.Set("OpenAI-Organization", p.orgID)
	}

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
			if errorResp.Error.Code != "" {
				fields = append(fields, xlate.APIErrorCodeKey.Field(errorResp.Error.Code))
			}

			capitan.Error(ctx, xlate.ProviderCallFailed, fields...)

			if resp.StatusCode == http.StatusTooManyRequests {
				return "", fmt.Errorf("rate limit exceeded: %s", errorResp.Error.Message)
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return "", fmt.Errorf("openai unavailable (%d): %s", resp.StatusCode, errorResp.Error.Message)
			}
			return "", fmt.Errorf("openai error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}

		fields = append(fields, xlate.ErrorKey.Field(fmt.Sprintf("status %d", resp.StatusCode)))
		capitan.Error(ctx, xlate.ProviderCallFailed, fields...)
		return "", fmt.Errorf("openai error: status %d", resp.StatusCode)
	}

	var completionResp chatCompletionResponse
	if err := json.Unmarshal(body, &completionResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	duration := time.Since(startTime)

	capitan.Info(ctx, xlate.ProviderCallCompleted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(completionResp.Model),
		xlate.PromptTokensKey.Field(completionResp.Usage.PromptTokens),
		xlate.CompletionTokensKey.Field(completionResp.Usage.CompletionTokens),
		xlate.TotalTokensKey.Field(completionResp.Usage.TotalTokens),
		xlate.DurationMsKey.Field(int(duration.Milliseconds())),
		xlate.HTTPStatusCodeKey.Field(resp.StatusCode),
	)

	return completionResp.Choices[0].Message.Content, nil
}

// Request/Response types for the OpenAI API

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
