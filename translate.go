package xlate

import (
	"context"
	"fmt"

	"github.com/zoobzio/pipz"
)

// TranslateInput contains rich input structure for code translation.
type TranslateInput struct {
	Code        string   // The code to convert
	Instruction string   // The caller's conversion instruction
	Source      Language // Language the code is written in
	Target      Language // Language to convert into
	Constraints []string // Additional rules for the model
}

// TranslationResponse contains the response from a translate synapse.
// This is also the conversion result returned to API callers.
type TranslationResponse struct {
	Code                         string   `json:"code" desc:"The converted code"`
	LanguageSpecificNotes        []string `json:"language_specific_notes" desc:"Important notes about the target language"`
	PotentialCompatibilityIssues []string `json:"potential_compatibility_issues" desc:"List of potential compatibility concerns"`
}

// Validate checks that all result fields came back. The two note arrays
// must be present even when empty; a nil slice means the model dropped
// the key entirely.
func (r TranslationResponse) Validate() error {
	if r.LanguageSpecificNotes == nil {
		return fmt.Errorf("language_specific_notes missing from response")
	}
	if r.PotentialCompatibilityIssues == nil {
		return fmt.Errorf("potential_compatibility_issues missing from response")
	}
	return nil
}

// TranslateSynapse converts code from one language to another.
// It runs at TemperatureCreative so the model can pick idiomatic
// constructs in the target language.
type TranslateSynapse struct {
	schema   string // Pre-computed JSON schema
	defaults TranslateInput
	service  *Service[TranslationResponse]
}

// NewTranslate creates a translation synapse bound to a provider.
// The synapse is immediately usable and can be enhanced with options.
// Returns an error if the JSON schema cannot be generated.
func NewTranslate(provider Provider, opts ...Option) (*TranslateSynapse, error) {
	// Generate schema once at construction
	schema, err := generateJSONSchema[TranslationResponse]()
	if err != nil {
		return nil, fmt.Errorf("translate synapse: %w", err)
	}

	// Apply options to build pipeline
	pipeline := NewTerminal(provider)
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}

	svc := NewService[TranslationResponse](pipeline, "translate", provider, TemperatureCreative)

	return &TranslateSynapse{
		schema:  schema,
		service: svc,
	}, nil
}

// GetPipeline returns the internal pipeline for composition.
// Implements ServiceProvider interface.
func (t *TranslateSynapse) GetPipeline() pipz.Chainable[*SynapseRequest] {
	return t.service.GetPipeline()
}

// WithDefaults creates a Translate with default input values.
// These are merged with user input at execution time.
func (t *TranslateSynapse) WithDefaults(defaults TranslateInput) *TranslateSynapse {
	t.defaults = defaults
	return t
}

// Fire executes the synapse with rich input structure.
func (t *TranslateSynapse) Fire(ctx context.Context, input TranslateInput) (TranslationResponse, error) {
	merged := t.mergeInputs(input)

	if !merged.Source.Valid() {
		return TranslationResponse{}, fmt.Errorf("translate source: %q: %w", string(merged.Source), ErrLanguageNotRecognized)
	}
	if !merged.Target.Valid() {
		return TranslationResponse{}, fmt.Errorf("translate target: %q: %w", string(merged.Target), ErrLanguageNotRecognized)
	}

	prompt := t.buildPrompt(merged)

	return t.service.Execute(ctx, prompt, TemperatureUnset)
}

// mergeInputs combines defaults with user input.
func (t *TranslateSynapse) mergeInputs(input TranslateInput) TranslateInput {
	merged := t.defaults

	if input.Code != "" {
		merged.Code = input.Code
	}
	if input.Instruction != "" {
		merged.Instruction = input.Instruction
	}
	if input.Source != "" {
		merged.Source = input.Source
	}
	if input.Target != "" {
		merged.Target = input.Target
	}
	if len(input.Constraints) > 0 {
		merged.Constraints = append(merged.Constraints, input.Constraints...)
	}

	return merged
}

// buildPrompt constructs the prompt from the merged input.
func (t *TranslateSynapse) buildPrompt(input TranslateInput) *Prompt {
	prompt := &Prompt{
		Task:         fmt.Sprintf("Convert the provided %s code to %s", input.Source, input.Target),
		Input:        input.Instruction,
		Code:         input.Code,
		CodeLanguage: string(input.Source),
		Schema:       t.schema,
	}

	prompt.Constraints = []string{
		"maintain the same functionality as the original code",
		fmt.Sprintf("use idiomatic %s patterns and conventions", input.Target),
		"the converted code must be complete and executable",
		"language_specific_notes: important notes about working in the target language",
		"potential_compatibility_issues: concerns a reviewer should check before running the result",
	}

	prompt.Constraints = append(prompt.Constraints, input.Constraints...)

	return prompt
}

// Translate creates a translation synapse bound to a provider.
//
// Example:
//
//	synapse, err := Translate(provider)
//	result, err := synapse.Fire(ctx, TranslateInput{
//	    Code:   code,
//	    Source: xlate.LanguagePython,
//	    Target: xlate.LanguageGo,
//	})
func Translate(provider Provider, opts ...Option) (*TranslateSynapse, error) {
	return NewTranslate(provider, opts...)
}
