package xlate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Validator defines the interface for response validation.
// All response types must implement this to ensure LLM outputs are valid.
type Validator interface {
	Validate() error
}

// Service provides type-safe LLM interactions for a specific response type T.
// It wraps a pipz pipeline and handles JSON parsing of responses.
// T must implement Validator to ensure response validation.
type Service[T Validator] struct {
	pipeline           pipz.Chainable[*SynapseRequest]
	synapseType        string
	providerName       string
	defaultTemperature float32
}

// NewService creates a new Service with the given pipeline, synapse type,
// provider, and default temperature. The default temperature is used when
// Execute is called with TemperatureUnset.
func NewService[T Validator](pipeline pipz.Chainable[*SynapseRequest], synapseType string, provider Provider, defaultTemperature float32) *Service[T] {
	return &Service[T]{
		pipeline:           pipeline,
		synapseType:        synapseType,
		providerName:       provider.Name(),
		defaultTemperature: defaultTemperature,
	}
}

// NewTerminal creates the terminal processor that renders the prompt and
// calls the provider. This is the common terminal used by all synapse types.
func NewTerminal(provider Provider) pipz.Chainable[*SynapseRequest] {
	return pipz.Apply("llm-call", func(ctx context.Context, req *SynapseRequest) (*SynapseRequest, error) {
		resp, err := provider.Call(ctx, req.Prompt.Render(), req.Temperature)
		if err != nil {
			return req, err
		}
		req.Response = resp
		return req, nil
	})
}

// GetPipeline returns the internal pipeline for composition.
// This is used by WithFallback to combine pipelines.
func (s *Service[T]) GetPipeline() pipz.Chainable[*SynapseRequest] {
	return s.pipeline
}

// Execute processes a prompt through the pipeline and returns a typed response.
// It creates a SynapseRequest, runs it through the pipeline, parses the raw
// response into T, and validates the result.
//
// Temperature resolution: TemperatureUnset falls back to the service's
// default. Zero is a valid explicit temperature and passes through.
func (s *Service[T]) Execute(ctx context.Context, prompt *Prompt, temperature float32) (T, error) {
	var result T

	if temperature == TemperatureUnset {
		temperature = s.defaultTemperature
	}

	// Validate prompt
	if err := prompt.Validate(); err != nil {
		return result, fmt.Errorf("invalid prompt: %w", err)
	}

	requestID := uuid.New().String()
	started := time.Now()

	request := &SynapseRequest{
		Prompt:       prompt,
		Temperature:  temperature,
		RequestID:    requestID,
		SynapseType:  s.synapseType,
		ProviderName: s.providerName,
	}

	capitan.Info(ctx, RequestStarted,
		RequestIDKey.Field(requestID),
		SynapseTypeKey.Field(s.synapseType),
		ProviderKey.Field(s.providerName),
		PromptTaskKey.Field(prompt.Task),
		InputBytesKey.Field(len(prompt.Input)+len(prompt.Code)),
		TemperatureKey.Field(float64(temperature)),
	)

	// Process through pipeline
	processed, err := s.pipeline.Process(ctx, request)
	if err != nil {
		capitan.Error(ctx, RequestFailed,
			RequestIDKey.Field(requestID),
			SynapseTypeKey.Field(s.synapseType),
			ProviderKey.Field(s.providerName),
			PromptTaskKey.Field(prompt.Task),
			DurationMsKey.Field(int(time.Since(started).Milliseconds())),
			ErrorKey.Field(err.Error()),
		)
		return result, err
	}

	if processed.Response == "" {
		return result, fmt.Errorf("no response from provider")
	}

	// Parse response to type T
	if parseErr := json.Unmarshal([]byte(processed.Response), &result); parseErr != nil {
		capitan.Error(ctx, ResponseParseFailed,
			RequestIDKey.Field(requestID),
			SynapseTypeKey.Field(s.synapseType),
			ProviderKey.Field(s.providerName),
			PromptTaskKey.Field(prompt.Task),
			ResponseBytesKey.Field(len(processed.Response)),
			ErrorKey.Field(parseErr.Error()),
			ErrorTypeKey.Field("parse_error"),
		)
		return result, fmt.Errorf("failed to parse response: %w", parseErr)
	}

	// Validate response (T is constrained to Validator)
	if validationErr := result.Validate(); validationErr != nil {
		capitan.Error(ctx, ResponseParseFailed,
			RequestIDKey.Field(requestID),
			SynapseTypeKey.Field(s.synapseType),
			ProviderKey.Field(s.providerName),
			PromptTaskKey.Field(prompt.Task),
			ResponseBytesKey.Field(len(processed.Response)),
			ErrorKey.Field(validationErr.Error()),
			ErrorTypeKey.Field("validation_error"),
		)
		return result, fmt.Errorf("invalid response: %w", validationErr)
	}

	capitan.Info(ctx, RequestCompleted,
		RequestIDKey.Field(requestID),
		SynapseTypeKey.Field(s.synapseType),
		ProviderKey.Field(s.providerName),
		PromptTaskKey.Field(prompt.Task),
		ResponseBytesKey.Field(len(processed.Response)),
		DurationMsKey.Field(int(time.Since(started).Milliseconds())),
	)

	return result, nil
}
