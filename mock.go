package xlate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MockProvider simulates LLM behavior for testing and local development.
// It returns deterministic responses based on prompt patterns: detection
// prompts get a plausible language pair, translation prompts get a result
// that echoes the input code, so a full conversion runs end to end without
// a real model.
type MockProvider struct {
	mu        sync.Mutex
	name      string
	available bool
	calls     int
}

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		name:      "mock",
		available: true,
	}
}

// NewMockProviderWithName creates a new mock provider with a specific name.
func NewMockProviderWithName(name string) *MockProvider {
	return &MockProvider{
		name:      name,
		available: true,
	}
}

// Call simulates an LLM call with deterministic responses.
func (m *MockProvider) Call(_ context.Context, prompt string, _ float32) (string, error) {
	m.mu.Lock()
	m.calls++
	available := m.available
	m.mu.Unlock()

	if !available {
		return "", fmt.Errorf("provider %s is unavailable", m.name)
	}

	return m.generateResponse(prompt), nil
}

// Name returns the provider identifier.
func (m *MockProvider) Name() string {
	return m.name
}

// SetAvailable sets the availability status (for testing failures).
func (m *MockProvider) SetAvailable(available bool) {
	m.mu.Lock()
	m.available = available
	m.mu.Unlock()
}

// CallCount returns how many times Call has been invoked.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// generateResponse creates a response based on prompt patterns.
func (m *MockProvider) generateResponse(prompt string) string {
	if strings.Contains(prompt, "Return JSON:") {
		// Detection prompts carry the enum-constrained pair schema
		if strings.Contains(prompt, `"source_language"`) {
			return m.generateDetectionResponse(prompt)
		}

		// Translation prompts carry the conversion result schema
		if strings.Contains(prompt, `"potential_compatibility_issues"`) {
			return m.generateTranslationResponse(prompt)
		}
	}

	return "Mock response"
}

// generateDetectionResponse guesses a language pair from the prompt.
func (*MockProvider) generateDetectionResponse(prompt string) string {
	code := extractCode(prompt)
	instruction := strings.ToLower(extractInput(prompt))

	source := guessSourceLanguage(code)

	// Target: first catalog mention in the instruction
	target := Language("")
	for _, lang := range Languages() {
		if lang == source {
			continue
		}
		if strings.Contains(instruction, string(lang)) {
			target = lang
			break
		}
	}
	if target == "" {
		if source == LanguageGo {
			target = LanguagePython
		} else {
			target = LanguageGo
		}
	}

	pair := struct {
		Source Language `json:"source_language"`
		Target Language `json:"target_language"`
	}{Source: source, Target: target}

	jsonBytes, err := json.Marshal(pair)
	if err != nil {
		return "Mock response"
	}
	return string(jsonBytes)
}

// generateTranslationResponse echoes the input code as the conversion.
func (*MockProvider) generateTranslationResponse(prompt string) string {
	result := struct {
		Code                         string   `json:"code"`
		LanguageSpecificNotes        []string `json:"language_specific_notes"`
		PotentialCompatibilityIssues []string `json:"potential_compatibility_issues"`
	}{
		Code:                         extractCode(prompt),
		LanguageSpecificNotes:        []string{"mock conversion: code returned unmodified"},
		PotentialCompatibilityIssues: []string{},
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "Mock response"
	}
	return string(jsonBytes)
}

// guessSourceLanguage applies cheap syntax signatures.
func guessSourceLanguage(code string) Language {
	switch {
	case strings.Contains(code, "package ") || strings.Contains(code, "func "):
		return LanguageGo
	case strings.Contains(code, "def "):
		return LanguagePython
	case strings.Contains(code, "public static") || strings.Contains(code, "System.out"):
		return LanguageJava
	case strings.Contains(code, "#include"):
		return LanguageC
	case strings.Contains(code, "function ") || strings.Contains(code, "=>"):
		return LanguageJavaScript
	default:
		return LanguagePython
	}
}

// extractInput extracts the instruction from a rendered prompt.
func extractInput(prompt string) string {
	if idx := strings.Index(prompt, "Input: "); idx != -1 {
		start := idx + 7
		end := strings.Index(prompt[start:], "\n")
		if end == -1 {
			return strings.TrimSpace(prompt[start:])
		}
		return strings.TrimSpace(prompt[start : start+end])
	}

	return ""
}

// extractCode extracts the fenced code block from a rendered prompt.
func extractCode(prompt string) string {
	idx := strings.Index(prompt, "Code:\n```")
	if idx == -1 {
		return ""
	}
	start := strings.Index(prompt[idx:], "\n")
	if start == -1 {
		return ""
	}
	// Skip the fence line itself
	body := prompt[idx+start+1:]
	if nl := strings.Index(body, "\n"); nl != -1 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "\n```"); end != -1 {
		return body[:end]
	}
	return ""
}

// NewMockProviderWithResponse creates a mock that always returns a specific response.
func NewMockProviderWithResponse(response string) Provider {
	return &mockProviderFixed{response: response}
}

// NewMockProviderWithResponses creates a mock that returns the given
// responses in order, one per call. Calls past the end return an error.
func NewMockProviderWithResponses(responses ...string) Provider {
	return &mockProviderScript{responses: responses}
}

// NewMockProviderWithCallback creates a mock that calls a function to generate responses.
func NewMockProviderWithCallback(callback func(prompt string, temperature float32) (string, error)) Provider {
	return &mockProviderCallback{callback: callback}
}

// NewMockProviderWithError creates a mock that always fails with the given message.
func NewMockProviderWithError(message string) Provider {
	return &mockProviderError{message: message}
}

// mockProviderFixed always returns a fixed response.
type mockProviderFixed struct {
	response string
}

func (m *mockProviderFixed) Call(_ context.Context, _ string, _ float32) (string, error) {
	return m.response, nil
}

func (*mockProviderFixed) Name() string { return "mock" }

// mockProviderScript returns scripted responses sequentially.
type mockProviderScript struct {
	mu        sync.Mutex
	responses []string
	next      int
}

func (m *mockProviderScript) Call(_ context.Context, _ string, _ float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.next >= len(m.responses) {
		return "", fmt.Errorf("mock script exhausted after %d responses", len(m.responses))
	}
	response := m.responses[m.next]
	m.next++
	return response, nil
}

func (*mockProviderScript) Name() string { return "mock" }

// mockProviderCallback uses a callback to generate responses.
type mockProviderCallback struct {
	callback func(string, float32) (string, error)
}

func (m *mockProviderCallback) Call(_ context.Context, prompt string, temperature float32) (string, error) {
	return m.callback(prompt, temperature)
}

func (*mockProviderCallback) Name() string { return "mock" }

// mockProviderError always fails.
type mockProviderError struct {
	message string
}

func (m *mockProviderError) Call(_ context.Context, _ string, _ float32) (string, error) {
	return "", fmt.Errorf("%s", m.message)
}

func (*mockProviderError) Name() string { return "mock" }
