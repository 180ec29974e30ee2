package xlate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zoobzio/sentinel"
)

// generateJSONSchema creates a proper JSON Schema from a Go type using sentinel.
// Every field is required unless its json tag carries omitempty, and
// additionalProperties is always false: the model may not invent keys.
func generateJSONSchema[T any]() (string, error) {
	// Use sentinel to extract metadata for struct types
	metadata := sentinel.Inspect[T]()

	// Build JSON Schema object
	schema := map[string]interface{}{
		"type":                 "object",
		"properties":           buildProperties(metadata.Fields),
		"required":             buildRequiredFields(metadata.Fields),
		"additionalProperties": false,
	}

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling schema: %w", err)
	}

	return string(jsonBytes), nil
}

// buildProperties converts field metadata to JSON Schema properties.
func buildProperties(fields []sentinel.FieldMetadata) map[string]interface{} {
	properties := make(map[string]interface{})

	for _, field := range fields {
		jsonName := getJSONFieldName(field)
		if jsonName == "-" {
			continue // Skip fields with json:"-"
		}

		prop := map[string]interface{}{
			"type": goTypeToJSONType(field.Type),
		}

		// Arrays carry their element type
		if strings.HasPrefix(field.Type, "[]") {
			prop["items"] = map[string]interface{}{
				"type": goTypeToJSONType(strings.TrimPrefix(field.Type, "[]")),
			}
		}

		// Add description if available
		if desc, ok := field.Tags["desc"]; ok {
			prop["description"] = desc
		}

		// Enum-constrained fields resolve their value set by name.
		// Enum values are strings, whatever the Go type behind them.
		if enumName, ok := field.Tags["enum"]; ok {
			if values := schemaEnumValues(enumName); len(values) > 0 {
				prop["type"] = "string"
				prop["enum"] = values
			}
		}

		properties[jsonName] = prop
	}

	return properties
}

// buildRequiredFields determines which fields are required.
func buildRequiredFields(fields []sentinel.FieldMetadata) []string {
	var required []string

	for _, field := range fields {
		jsonName := getJSONFieldName(field)
		if jsonName == "-" {
			continue
		}

		// Field is required unless it has omitempty in json tag
		if !hasOmitempty(field) {
			required = append(required, jsonName)
		}
	}

	return required
}

// getJSONFieldName extracts the JSON field name from metadata.
func getJSONFieldName(field sentinel.FieldMetadata) string {
	if jsonTag, ok := field.Tags["json"]; ok {
		// Handle "name,omitempty" format
		parts := strings.Split(jsonTag, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0]
		}
	}

	// Default to lowercase field name
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

// hasOmitempty checks if the json tag contains omitempty.
func hasOmitempty(field sentinel.FieldMetadata) bool {
	if jsonTag, ok := field.Tags["json"]; ok {
		return strings.Contains(jsonTag, "omitempty")
	}
	return false
}

// goTypeToJSONType maps Go types to JSON Schema types.
func goTypeToJSONType(goType string) string {
	goType = strings.TrimPrefix(goType, "*")

	switch {
	case strings.HasPrefix(goType, "string"):
		return "string"
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"):
		return "integer"
	case strings.HasPrefix(goType, "float"), strings.HasPrefix(goType, "complex"):
		return "number"
	case strings.HasPrefix(goType, "bool"):
		return "boolean"
	case strings.HasPrefix(goType, "[]"):
		return "array"
	case strings.HasPrefix(goType, "map["):
		return "object"
	default:
		// For custom types, default to object
		return "object"
	}
}
