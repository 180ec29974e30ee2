// Package xlate converts source code between programming languages by
// orchestrating schema-constrained LLM calls.
//
// A conversion runs two synapses in sequence:
//
//   - Detect: identifies the source and target languages from the code and
//     the caller's instruction (temperature 0, enum-constrained schema)
//   - Translate: produces the converted code with notes and compatibility
//     concerns (temperature 0.3)
//
// Both synapses parse the raw model output into typed structs and validate
// them before returning. Reliability options (retry, timeout, circuit
// breaker, rate limiting) compose onto either synapse but none are applied
// by default: a conversion makes exactly two provider calls, and the second
// never happens when the first fails.
//
// Basic usage:
//
//	provider, _ := openai.New(openai.Config{APIKey: key})
//	conv, _ := xlate.NewConversion(provider)
//	result, _ := conv.Fire(ctx, xlate.ConversionInput{
//	    Code:        source,
//	    Instruction: "Convert this to rust",
//	})
//	fmt.Println(result.Code)
package xlate

import "context"

// Provider defines the interface for LLM providers.
// Providers accept a rendered prompt and return the raw text response.
type Provider interface {
	// Call sends a prompt to the LLM and returns the text response.
	Call(ctx context.Context, prompt string, temperature float32) (string, error)

	// Name returns the provider identifier (e.g., "openai", "openrouter")
	Name() string
}
