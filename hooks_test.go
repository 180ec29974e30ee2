package xlate

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
)

const hookTimeout = 2 * time.Second

// waitHook blocks until the WaitGroup clears or the timeout fires.
// Signal delivery is asynchronous, so every hook test needs this.
func waitHook(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(hookTimeout):
		t.Fatal("timeout waiting for hook")
	}
}

// TestRequestStartedHook verifies that request.started is emitted with all fields.
func TestRequestStartedHook(t *testing.T) {
	var wg sync.WaitGroup
	var requestID string
	var synapseType string
	var provider string
	var task string
	var inputBytes int
	var temperature float64
	var temperatureSet bool

	wg.Add(1)
	listener := capitan.Hook(RequestStarted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		requestID, _ = RequestIDKey.From(e)
		synapseType, _ = SynapseTypeKey.From(e)
		provider, _ = ProviderKey.From(e)
		task, _ = PromptTaskKey.From(e)
		inputBytes, _ = InputBytesKey.From(e)
		temperature, temperatureSet = TemperatureKey.From(e)
	})
	defer listener.Close()

	synapse, err := NewDetect(NewMockProvider())
	if err != nil {
		t.Fatalf("new detect: %v", err)
	}
	if _, err := synapse.Fire(context.Background(), "def main(): pass", "convert to go"); err != nil {
		t.Fatalf("fire: %v", err)
	}

	waitHook(t, &wg)

	if requestID == "" {
		t.Error("request ID was not set in hook")
	}
	if synapseType != "detect" {
		t.Errorf("expected synapse type 'detect', got %q", synapseType)
	}
	if provider != "mock" {
		t.Errorf("expected provider 'mock', got %q", provider)
	}
	if task != "Identify the source and target programming languages for a code conversion" {
		t.Errorf("unexpected task: %q", task)
	}
	if inputBytes == 0 {
		t.Error("input bytes were not set in hook")
	}
	if !temperatureSet || temperature != 0 {
		t.Errorf("expected detection temperature 0, got %v", temperature)
	}
}

// TestRequestStartedHookTranslateTemperature verifies the translation stage
// runs at the creative temperature.
func TestRequestStartedHookTranslateTemperature(t *testing.T) {
	var wg sync.WaitGroup
	var synapseType string
	var temperature float64

	wg.Add(1)
	listener := capitan.Hook(RequestStarted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		synapseType, _ = SynapseTypeKey.From(e)
		temperature, _ = TemperatureKey.From(e)
	})
	defer listener.Close()

	synapse, err := NewTranslate(NewMockProvider())
	if err != nil {
		t.Fatalf("new translate: %v", err)
	}
	_, err = synapse.Fire(context.Background(), TranslateInput{
		Code:   "def main(): pass",
		Source: LanguagePython,
		Target: LanguageGo,
	})
	if err != nil {
		t.Fatalf("fire: %v", err)
	}

	waitHook(t, &wg)

	if synapseType != "translate" {
		t.Errorf("expected synapse type 'translate', got %q", synapseType)
	}
	if float32(temperature) != TemperatureCreative {
		t.Errorf("expected translation temperature 0.3, got %v", temperature)
	}
}

// TestRequestCompletedHook verifies that request.completed is emitted with all fields.
func TestRequestCompletedHook(t *testing.T) {
	var wg sync.WaitGroup
	var requestID string
	var synapseType string
	var responseBytes int
	var durationSet bool

	wg.Add(1)
	listener := capitan.Hook(RequestCompleted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		requestID, _ = RequestIDKey.From(e)
		synapseType, _ = SynapseTypeKey.From(e)
		responseBytes, _ = ResponseBytesKey.From(e)
		_, durationSet = DurationMsKey.From(e)
	})
	defer listener.Close()

	synapse, err := NewDetect(NewMockProvider())
	if err != nil {
		t.Fatalf("new detect: %v", err)
	}
	if _, err := synapse.Fire(context.Background(), "def main(): pass", "convert to go"); err != nil {
		t.Fatalf("fire: %v", err)
	}

	waitHook(t, &wg)

	if requestID == "" {
		t.Error("request ID was not set in hook")
	}
	if synapseType != "detect" {
		t.Errorf("expected synapse type 'detect', got %q", synapseType)
	}
	if responseBytes == 0 {
		t.Error("response bytes were not set in hook")
	}
	if !durationSet {
		t.Error("duration was not set in hook")
	}
}

// TestRequestFailedHook verifies that request.failed is emitted on provider error.
func TestRequestFailedHook(t *testing.T) {
	var wg sync.WaitGroup
	var errorMessage string

	wg.Add(1)
	listener := capitan.Hook(RequestFailed, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		errorMessage, _ = ErrorKey.From(e)
	})
	defer listener.Close()

	synapse, err := NewDetect(NewMockProviderWithError("simulated error"))
	if err != nil {
		t.Fatalf("new detect: %v", err)
	}
	if _, err := synapse.Fire(context.Background(), "def main(): pass", "convert to go"); err == nil {
		t.Fatal("expected error but got none")
	}

	waitHook(t, &wg)

	if !strings.Contains(errorMessage, "simulated error") {
		t.Errorf("expected simulated error in hook, got %q", errorMessage)
	}
}

// TestResponseParseFailedHook verifies that response.failed is emitted on parse error.
func TestResponseParseFailedHook(t *testing.T) {
	var wg sync.WaitGroup
	var errorType string

	wg.Add(1)
	listener := capitan.Hook(ResponseParseFailed, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		errorType, _ = ErrorTypeKey.From(e)
	})
	defer listener.Close()

	synapse, err := NewDetect(NewMockProviderWithResponse(`{invalid json`))
	if err != nil {
		t.Fatalf("new detect: %v", err)
	}
	if _, err := synapse.Fire(context.Background(), "def main(): pass", "convert to go"); err == nil {
		t.Fatal("expected parse error but got none")
	}

	waitHook(t, &wg)

	if errorType != "parse_error" {
		t.Errorf("expected error_type 'parse_error', got %q", errorType)
	}
}

// TestResponseValidationFailedHook verifies that response.failed is emitted
// when the parsed result fails validation.
func TestResponseValidationFailedHook(t *testing.T) {
	var wg sync.WaitGroup
	var errorType string
	var errorMessage string

	wg.Add(1)
	listener := capitan.Hook(ResponseParseFailed, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		errorType, _ = ErrorTypeKey.From(e)
		errorMessage, _ = ErrorKey.From(e)
	})
	defer listener.Close()

	synapse, err := NewDetect(NewMockProviderWithResponse(`{"source_language": "klingon", "target_language": "go"}`))
	if err != nil {
		t.Fatalf("new detect: %v", err)
	}
	if _, err := synapse.Fire(context.Background(), "def main(): pass", "convert to go"); err == nil {
		t.Fatal("expected validation error but got none")
	}

	waitHook(t, &wg)

	if errorType != "validation_error" {
		t.Errorf("expected error_type 'validation_error', got %q", errorType)
	}
	if !strings.Contains(errorMessage, "klingon") {
		t.Errorf("expected offending language in hook, got %q", errorMessage)
	}
}

// TestConversionSignalPair verifies a successful conversion emits
// conversion.started and conversion.completed.
func TestConversionSignalPair(t *testing.T) {
	var wg sync.WaitGroup
	var startedBytes int
	var source string
	var target string
	var durationSet bool

	wg.Add(2)
	started := capitan.Hook(ConversionStarted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		startedBytes, _ = CodeBytesKey.From(e)
	})
	defer started.Close()

	completed := capitan.Hook(ConversionCompleted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		source, _ = SourceLanguageKey.From(e)
		target, _ = TargetLanguageKey.From(e)
		_, durationSet = DurationMsKey.From(e)
	})
	defer completed.Close()

	conversion, err := NewConversion(NewMockProvider())
	if err != nil {
		t.Fatalf("new conversion: %v", err)
	}
	code := "def main(): pass"
	if _, err := conversion.Fire(context.Background(), ConversionInput{Code: code, Instruction: "convert to go"}); err != nil {
		t.Fatalf("fire: %v", err)
	}

	waitHook(t, &wg)

	if startedBytes != len(code) {
		t.Errorf("expected %d code bytes on started, got %d", len(code), startedBytes)
	}
	if source != "python" {
		t.Errorf("expected source python, got %q", source)
	}
	if target != "go" {
		t.Errorf("expected target go, got %q", target)
	}
	if !durationSet {
		t.Error("duration was not set on completed")
	}
}

// TestConversionFailedHook verifies a failing stage emits conversion.failed
// with the stage name.
func TestConversionFailedHook(t *testing.T) {
	var wg sync.WaitGroup
	var startedSeen bool
	var stage string
	var errorMessage string

	wg.Add(2)
	started := capitan.Hook(ConversionStarted, func(_ context.Context, _ *capitan.Event) {
		defer wg.Done()
		startedSeen = true
	})
	defer started.Close()

	failed := capitan.Hook(ConversionFailed, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		stage, _ = StageKey.From(e)
		errorMessage, _ = ErrorKey.From(e)
	})
	defer failed.Close()

	conversion, err := NewConversion(NewMockProviderWithError("gateway down"))
	if err != nil {
		t.Fatalf("new conversion: %v", err)
	}
	if _, err := conversion.Fire(context.Background(), ConversionInput{Code: "def main(): pass"}); err == nil {
		t.Fatal("expected error but got none")
	}

	waitHook(t, &wg)

	if !startedSeen {
		t.Error("conversion.started was not emitted")
	}
	if stage != "detect" {
		t.Errorf("expected stage 'detect', got %q", stage)
	}
	if !strings.Contains(errorMessage, "gateway down") {
		t.Errorf("expected provider error in hook, got %q", errorMessage)
	}
}
