// Package parse decodes the JSON arguments an agent passes to a tool.
//
// Agents often emit almost-JSON: single-quoted strings, unquoted keys,
// trailing commas, or values wrapped in a schema-like {"type", "value"}
// envelope. [Arguments] accepts all of these and fails with
// [ErrInvalidArguments] only when nothing can be recovered.
package parse
