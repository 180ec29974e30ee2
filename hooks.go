package xlate

import "github.com/zoobzio/capitan"

// Signals for hook events. The llm.* signals are emitted per synapse call;
// the conversion.* signals wrap the whole two-stage pipeline.
const (
	RequestStarted        = capitan.Signal("llm.request.started")
	RequestCompleted      = capitan.Signal("llm.request.completed")
	RequestFailed         = capitan.Signal("llm.request.failed")
	ProviderCallStarted   = capitan.Signal("llm.provider.call.started")
	ProviderCallCompleted = capitan.Signal("llm.provider.call.completed")
	ProviderCallFailed    = capitan.Signal("llm.provider.call.failed")
	ResponseParseFailed   = capitan.Signal("llm.response.failed")

	ConversionStarted   = capitan.Signal("conversion.started")
	ConversionCompleted = capitan.Signal("conversion.completed")
	ConversionFailed    = capitan.Signal("conversion.failed")
)

// Keys for hook event fields.
var (
	// Request identification.
	RequestIDKey   = capitan.NewStringKey("llm.request.id")
	SynapseTypeKey = capitan.NewStringKey("llm.synapse.type")
	PromptTaskKey  = capitan.NewStringKey("llm.prompt.task")
	TemperatureKey = capitan.NewFloat64Key("llm.temperature")

	// Payload sizes. Sizes, not contents: prompts carry user code.
	InputBytesKey    = capitan.NewIntKey("llm.input.bytes")
	ResponseBytesKey = capitan.NewIntKey("llm.response.bytes")

	// Error information.
	ErrorKey     = capitan.NewStringKey("llm.error")
	ErrorTypeKey = capitan.NewStringKey("llm.error.type")

	// Provider information.
	ProviderKey = capitan.NewStringKey("llm.provider")
	ModelKey    = capitan.NewStringKey("llm.model")

	// Provider metrics.
	PromptTokensKey     = capitan.NewIntKey("llm.tokens.prompt")
	CompletionTokensKey = capitan.NewIntKey("llm.tokens.completion")
	TotalTokensKey      = capitan.NewIntKey("llm.tokens.total")
	DurationMsKey       = capitan.NewIntKey("llm.duration.ms")

	// HTTP/API metadata.
	HTTPStatusCodeKey = capitan.NewIntKey("llm.http.status.code")
	APIErrorTypeKey   = capitan.NewStringKey("llm.api.error.type")
	APIErrorCodeKey   = capitan.NewStringKey("llm.api.error.code")

	// Conversion pipeline fields.
	SourceLanguageKey = capitan.NewStringKey("conversion.language.source")
	TargetLanguageKey = capitan.NewStringKey("conversion.language.target")
	CodeBytesKey      = capitan.NewIntKey("conversion.code.bytes")
	StageKey          = capitan.NewStringKey("conversion.stage")
)
