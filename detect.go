package xlate

import (
	"context"
	"fmt"

	"github.com/zoobzio/pipz"
)

// DetectInput contains rich input structure for language detection.
type DetectInput struct {
	Code        string   // The code sample under conversion
	Instruction string   // The caller's conversion instruction
	Context     string   // Background information, if any
	Constraints []string // Additional rules for the model
}

// LanguagePair is the detected source/target combination.
// Both fields are constrained to the language catalog, in the schema and
// again after parsing.
type LanguagePair struct {
	Source Language `json:"source_language" enum:"language" desc:"The language the provided code is written in"`
	Target Language `json:"target_language" enum:"language" desc:"The language the code should be converted into"`
}

// Validate checks that both languages are catalog members.
func (p LanguagePair) Validate() error {
	if !p.Source.Valid() {
		return fmt.Errorf("source_language %q: %w", string(p.Source), ErrLanguageNotRecognized)
	}
	if !p.Target.Valid() {
		return fmt.Errorf("target_language %q: %w", string(p.Target), ErrLanguageNotRecognized)
	}
	return nil
}

// DetectSynapse identifies the source and target languages for a conversion.
// It runs at TemperatureZero: detection must be deterministic.
type DetectSynapse struct {
	schema   string // Pre-computed JSON schema
	defaults DetectInput
	service  *Service[LanguagePair]
}

// NewDetect creates a detection synapse bound to a provider.
// The synapse is immediately usable and can be enhanced with options.
// Returns an error if the JSON schema cannot be generated.
func NewDetect(provider Provider, opts ...Option) (*DetectSynapse, error) {
	// Generate schema once at construction
	schema, err := generateJSONSchema[LanguagePair]()
	if err != nil {
		return nil, fmt.Errorf("detect synapse: %w", err)
	}

	// Apply options to build pipeline
	pipeline := NewTerminal(provider)
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}

	svc := NewService[LanguagePair](pipeline, "detect", provider, TemperatureZero)

	return &DetectSynapse{
		schema:  schema,
		service: svc,
	}, nil
}

// GetPipeline returns the internal pipeline for composition.
// Implements ServiceProvider interface.
func (d *DetectSynapse) GetPipeline() pipz.Chainable[*SynapseRequest] {
	return d.service.GetPipeline()
}

// WithDefaults creates a Detect with default input values.
// These are merged with user input at execution time.
func (d *DetectSynapse) WithDefaults(defaults DetectInput) *DetectSynapse {
	d.defaults = defaults
	return d
}

// Fire executes the synapse against a code sample and instruction.
func (d *DetectSynapse) Fire(ctx context.Context, code, instruction string) (LanguagePair, error) {
	return d.FireWithInput(ctx, DetectInput{Code: code, Instruction: instruction})
}

// FireWithInput executes the synapse with rich input structure.
func (d *DetectSynapse) FireWithInput(ctx context.Context, input DetectInput) (LanguagePair, error) {
	merged := d.mergeInputs(input)
	prompt := d.buildPrompt(merged)

	return d.service.Execute(ctx, prompt, TemperatureUnset)
}

// mergeInputs combines defaults with user input.
func (d *DetectSynapse) mergeInputs(input DetectInput) DetectInput {
	merged := d.defaults

	if input.Code != "" {
		merged.Code = input.Code
	}
	if input.Instruction != "" {
		merged.Instruction = input.Instruction
	}
	if input.Context != "" {
		merged.Context = input.Context
	}
	if len(input.Constraints) > 0 {
		merged.Constraints = append(merged.Constraints, input.Constraints...)
	}

	return merged
}

// buildPrompt constructs the prompt from the merged input.
func (d *DetectSynapse) buildPrompt(input DetectInput) *Prompt {
	prompt := &Prompt{
		Task:      "Identify the source and target programming languages for a code conversion",
		Input:     input.Instruction,
		Context:   input.Context,
		Languages: LanguageStrings(),
		Code:      input.Code,
		Schema:    d.schema,
	}

	prompt.Constraints = []string{
		"source_language: the language the code sample is written in",
		"target_language: the language the instruction asks to convert into",
		"both values must be exact identifiers from the languages list",
	}

	prompt.Constraints = append(prompt.Constraints, input.Constraints...)

	return prompt
}

// Detect creates a detection synapse bound to a provider.
//
// Example:
//
//	synapse, err := Detect(provider)
//	pair, err := synapse.Fire(ctx, code, "Convert this to rust")
func Detect(provider Provider, opts ...Option) (*DetectSynapse, error) {
	return NewDetect(provider, opts...)
}
