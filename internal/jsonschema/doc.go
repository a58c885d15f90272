// Package jsonschema derives JSON Schema documents from Go types by
// reflection, so tool parameters can be advertised to an agent without
// hand-written schemas. The entry point is [GenerateJSONSchema].
package jsonschema
