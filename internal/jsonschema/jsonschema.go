package jsonschema

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to describe tool inputs and
// outputs to an agent.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	// Items is the element schema of an array.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties is the value schema of a map.
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
	Default              any     `json:"default,omitempty"`
	Enum                 []any   `json:"enum,omitempty"`
}

// GenerateJSONSchema derives the schema of T.
//
// Struct fields are named by their json tag and are required unless they are
// pointers or tagged omitempty. A jsonschema tag adds metadata:
//
//	Date string `json:"date,omitempty" jsonschema:"description=Report date, e.g. December 31, 2025"`
//	Style string `json:"style" jsonschema:"enum=atx,enum=setext,default=atx"`
//
// Commas are allowed inside a description. Self-referencing types are
// described as plain objects at the point of recursion.
func GenerateJSONSchema[T any]() *Schema {
	return generate(reflect.TypeFor[T](), map[reflect.Type]bool{})
}

func generate(t reflect.Type, inProgress map[reflect.Type]bool) *Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return generate(t.Elem(), inProgress)
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: generate(t.Elem(), inProgress)}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: generate(t.Elem(), inProgress)}
	case reflect.Struct:
		if inProgress[t] {
			return &Schema{Type: "object"}
		}
		inProgress[t] = true
		defer delete(inProgress, t)
		return generateStruct(t, inProgress)
	default:
		return &Schema{Type: "object"}
	}
}

func generateStruct(t reflect.Type, inProgress map[reflect.Type]bool) *Schema {
	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		fieldSchema := generate(field.Type, inProgress)
		requiredByTag, err := applyTag(field, fieldSchema)
		if err != nil {
			slog.Warn("ignoring invalid jsonschema tag", "field", name, "error", err)
		}
		schema.Properties[name] = fieldSchema

		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, options, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, strings.Contains(options, "omitempty"), false
}

// applyTag copies jsonschema tag metadata onto schema and reports whether the
// tag marks the field required.
func applyTag(field reflect.StructField, schema *Schema) (bool, error) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false, nil
	}

	required := false
	inDescription := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case !hasValue && strings.TrimSpace(key) == "required":
			required = true
			inDescription = false
		case hasValue && key == "description":
			schema.Description = value
			inDescription = true
		case hasValue && key == "enum":
			v, err := typedValue(field.Type, value)
			if err != nil {
				return required, err
			}
			schema.Enum = append(schema.Enum, v)
			inDescription = false
		case hasValue && key == "default":
			v, err := typedValue(field.Type, value)
			if err != nil {
				return required, err
			}
			schema.Default = v
			inDescription = false
		case inDescription:
			schema.Description += "," + item
		default:
			return required, fmt.Errorf("unknown jsonschema tag item %q", item)
		}
	}
	return required, nil
}

// typedValue converts a tag literal to the Go kind of t.
func typedValue(t reflect.Type, value string) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Bool:
		return strconv.ParseBool(value)
	}
	return nil, fmt.Errorf("tag values unsupported for %v", t)
}

// JSONString returns the schema as JSON, indented when indent is true.
func (s *Schema) JSONString(indent bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}

// String returns the compact JSON form.
func (s *Schema) String() string {
	out, err := s.JSONString(false)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return out
}
