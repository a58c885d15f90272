package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrInvalidArguments is wrapped by every Arguments failure.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// Arguments decodes tool arguments into T.
//
// Blank input and the literal null decode to the zero value, so tools without
// parameters accept an empty call. Input that is not valid JSON is repaired
// (single quotes, unquoted keys, trailing commas, missing braces) and decoded
// again. As a last resort, values an agent wrapped as {"type": ..., "value": ...}
// are unwrapped.
//
// Example:
//
//	type input struct {
//		Date string `json:"date"`
//	}
//
//	args, err := parse.Arguments[input](`{date: 'December 31, 2025'}`)
//	// args.Date == "December 31, 2025"
func Arguments[T any](raw string) (T, error) {
	var result T

	content := strings.TrimSpace(raw)
	if content == "" || content == "null" {
		return result, nil
	}

	firstErr := json.Unmarshal([]byte(content), &result)
	if firstErr == nil {
		return result, nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return result, fmt.Errorf("%w: %v (repair: %v)", ErrInvalidArguments, firstErr, err)
	}

	var repairedResult T
	if err := json.Unmarshal([]byte(repaired), &repairedResult); err == nil {
		return repairedResult, nil
	}

	unwrapped, err := unwrapSchemaValues(repaired)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidArguments, firstErr)
	}
	var unwrappedResult T
	if err := json.Unmarshal([]byte(unwrapped), &unwrappedResult); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return unwrappedResult, nil
}

// unwrapSchemaValues replaces every {"type": ..., "value": v} object with v.
func unwrapSchemaValues(content string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}
	out, err := json.Marshal(unwrap(data))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func unwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return unwrap(value)
			}
		}
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = unwrap(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = unwrap(value)
		}
		return out
	default:
		return data
	}
}
