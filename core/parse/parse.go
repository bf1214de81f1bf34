package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// NormalizeJSON turns model-supplied arguments into canonical JSON.
// Empty input becomes "{}". Invalid JSON is repaired with jsonrepair
// (single quotes, unquoted keys, trailing commas, truncation). Values the
// model wrapped in a schema-like {"type": ..., "value": ...} envelope are
// unwrapped. The result is re-marshaled so it is always compact.
func NormalizeJSON(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "{}", nil
	}

	if !json.Valid([]byte(content)) {
		repaired, err := jsonrepair.JSONRepair(content)
		if err != nil {
			return "", fmt.Errorf("failed to repair JSON: %w", err)
		}
		content = repaired
	}

	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", fmt.Errorf("failed to decode JSON: %w", err)
	}

	out, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(out), nil
}

// ParseStringAs attempts to parse a string into the specified type T.
// A string target receives content as-is. Every other type goes through
// [NormalizeJSON] and then JSON unmarshaling, so numbers, booleans, structs,
// maps and slices all accept the same tolerant input.
//
// Example usage:
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//
//	// Parse an invalid JSON string (will be auto-repaired)
//	person, err := ParseStringAs[Person](`{name: 'John', age: 30}`)
//
//	// Parse primitive types
//	num, err := ParseStringAs[int]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T

	if reflect.TypeFor[T]().Kind() == reflect.String {
		reflect.ValueOf(&result).Elem().SetString(content)
		return result, nil
	}

	normalized, err := NormalizeJSON(content)
	if err != nil {
		return result, fmt.Errorf("failed to parse content as %T: %w", result, err)
	}

	if err := json.Unmarshal([]byte(normalized), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T: %w (content: %s)", result, err, normalized)
	}
	return result, nil
}

// recursiveUnwrap replaces {"type": ..., "value": ...} wrappers with their value.
// This is a common error when LLMs confuse JSON schema definitions with data.
func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return recursiveUnwrap(value)
			}
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result

	default:
		return data
	}
}
