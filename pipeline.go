package xlate

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
)

// DefaultInstruction is used when a conversion request carries no prompt.
const DefaultInstruction = "Convert the code to the target language."

// ConversionInput is a single conversion request.
type ConversionInput struct {
	Code        string // The code to convert; may be empty
	Instruction string // Free-text instruction; DefaultInstruction when empty
}

// Conversion runs the two-stage pipeline: detect the language pair, then
// translate the code. Plain sequential composition, no branching: if
// detection fails, translation never runs.
type Conversion struct {
	detect    *DetectSynapse
	translate *TranslateSynapse
}

// NewConversion creates a conversion pipeline bound to a provider.
// Options apply to both stages.
func NewConversion(provider Provider, opts ...Option) (*Conversion, error) {
	detect, err := NewDetect(provider, opts...)
	if err != nil {
		return nil, err
	}

	translate, err := NewTranslate(provider, opts...)
	if err != nil {
		return nil, err
	}

	return &Conversion{
		detect:    detect,
		translate: translate,
	}, nil
}

// Fire runs a conversion and returns the translation result.
func (c *Conversion) Fire(ctx context.Context, input ConversionInput) (TranslationResponse, error) {
	result, _, err := c.FireWithPair(ctx, input)
	return result, err
}

// FireWithPair runs a conversion and also returns the detected language
// pair. The pair is zero-valued when detection fails.
func (c *Conversion) FireWithPair(ctx context.Context, input ConversionInput) (TranslationResponse, LanguagePair, error) {
	instruction := input.Instruction
	if instruction == "" {
		instruction = DefaultInstruction
	}

	started := time.Now()

	capitan.Info(ctx, ConversionStarted,
		CodeBytesKey.Field(len(input.Code)),
	)

	pair, err := c.detect.Fire(ctx, input.Code, instruction)
	if err != nil {
		capitan.Error(ctx, ConversionFailed,
			StageKey.Field("detect"),
			DurationMsKey.Field(int(time.Since(started).Milliseconds())),
			ErrorKey.Field(err.Error()),
		)
		return TranslationResponse{}, LanguagePair{}, fmt.Errorf("language detection: %w", err)
	}

	result, err := c.translate.Fire(ctx, TranslateInput{
		Code:        input.Code,
		Instruction: instruction,
		Source:      pair.Source,
		Target:      pair.Target,
	})
	if err != nil {
		capitan.Error(ctx, ConversionFailed,
			StageKey.Field("translate"),
			SourceLanguageKey.Field(string(pair.Source)),
			TargetLanguageKey.Field(string(pair.Target)),
			DurationMsKey.Field(int(time.Since(started).Milliseconds())),
			ErrorKey.Field(err.Error()),
		)
		return TranslationResponse{}, pair, fmt.Errorf("code translation: %w", err)
	}

	capitan.Info(ctx, ConversionCompleted,
		SourceLanguageKey.Field(string(pair.Source)),
		TargetLanguageKey.Field(string(pair.Target)),
		CodeBytesKey.Field(len(result.Code)),
		DurationMsKey.Field(int(time.Since(started).Milliseconds())),
	)

	return result, pair, nil
}
