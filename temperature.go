package xlate

// Temperature constants for the two conversion stages.
// Temperature controls the randomness/creativity of LLM responses.
// Detection wants maximum determinism; translation benefits from a
// little variation when choosing idiomatic constructs.
const (
	// TemperatureUnset indicates that no temperature has been explicitly set.
	// When this value is encountered, the synapse uses its default temperature.
	TemperatureUnset float32 = -1

	// TemperatureZero is fully deterministic sampling. Zero is a valid
	// explicit value here; use TemperatureUnset to fall back to a default.
	TemperatureZero float32 = 0

	// TemperatureDeterministic allows minimal variation for tasks that
	// still need consistent, precise outputs.
	TemperatureDeterministic float32 = 0.1

	// TemperatureAnalytical is used for tasks requiring consistent analysis
	// with some flexibility.
	TemperatureAnalytical float32 = 0.2

	// TemperatureCreative is used for tasks benefiting from more varied
	// outputs, such as producing idiomatic code in the target language.
	TemperatureCreative float32 = 0.3
)
