// Package lambda provides an xlate Provider that invokes an AWS Lambda
// function fronting a model. The function receives the rendered prompt and
// temperature, and answers with the raw model text.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/zoobzio/capitan"

	"github.com/xlate/xlate"
)

// InvokeAPI is the subset of the Lambda client used by the provider.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

// Provider implements the xlate Provider interface over a Lambda invocation.
type Provider struct {
	client       InvokeAPI
	functionName string
	name         string
}

// Config holds configuration for the Lambda provider.
type Config struct {
	FunctionName string // Name or ARN of the gateway function
	Region       string // Optional, defaults to the SDK resolution chain
}

// New creates a new Lambda provider using the default AWS credential chain.
func New(ctx context.Context, config Config) (*Provider, error) {
	if config.FunctionName == "" {
		return nil, fmt.Errorf("lambda: function name is required")
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if config.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(config.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(awslambda.NewFromConfig(awsCfg), config.FunctionName), nil
}

// NewWithClient creates a provider with a pre-built Lambda client.
func NewWithClient(client InvokeAPI, functionName string) *Provider {
	return &Provider{
		client:       client,
		functionName: functionName,
		name:         "lambda",
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Call invokes the gateway function and returns its content.
func (p *Provider) Call(ctx context.Context, prompt string, temperature float32) (string, error) {
	startTime := time.Now()

	capitan.Info(ctx, xlate.ProviderCallStarted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(p.functionName),
	)

	payload, err := json.Marshal(gatewayRequest{
		Prompt:      prompt,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	result, err := p.client.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName: &p.functionName,
		Payload:      payload,
	})
	if err != nil {
		capitan.Error(ctx, xlate.ProviderCallFailed,
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.functionName),
			xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
			xlate.ErrorKey.Field(err.Error()),
		)
		return "", fmt.Errorf("failed to invoke %s: %w", p.functionName, err)
	}

	// FunctionError means the function ran but raised; the payload carries
	// the runtime error document, not a gateway response
	if result.FunctionError != nil {
		capitan.Error(ctx, xlate.ProviderCallFailed,
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.functionName),
			xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
			xlate.ErrorKey.Field(*result.FunctionError),
		)
		return "", fmt.Errorf("lambda error: %s", *result.FunctionError)
	}

	var resp gatewayResponse
	if err := json.Unmarshal(result.Payload, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Error != "" {
		capitan.Error(ctx, xlate.ProviderCallFailed,
			xlate.ProviderKey.Field(p.name),
			xlate.ModelKey.Field(p.functionName),
			xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
			xlate.ErrorKey.Field(resp.Error),
		)
		return "", fmt.Errorf("gateway error: %s", resp.Error)
	}

	if resp.Content == "" {
		return "", fmt.Errorf("no content in response")
	}

	capitan.Info(ctx, xlate.ProviderCallCompleted,
		xlate.ProviderKey.Field(p.name),
		xlate.ModelKey.Field(p.functionName),
		xlate.ResponseBytesKey.Field(len(resp.Content)),
		xlate.DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
		xlate.HTTPStatusCodeKey.Field(int(result.StatusCode)),
	)

	return resp.Content, nil
}

// gatewayRequest is the payload sent to the gateway function.
type gatewayRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float32 `json:"temperature"`
}

// gatewayResponse is the payload returned by the gateway function.
type gatewayResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}
