package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leofalp/marketdata/core/parse"
	"github.com/leofalp/marketdata/internal/jsonschema"
	"github.com/leofalp/marketdata/internal/utils"
	"github.com/leofalp/marketdata/providers/observability"
)

// Info is what an agent sees of a tool: its name, what it does, and the
// schemas of its arguments and result.
type Info struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Output      *jsonschema.Schema `json:"output,omitempty"`
}

// Tool binds a name and description to a typed function. Schemas for I and
// O are derived by reflection when the tool is built.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
}

// GenericTool is a Tool with its type parameters erased, so tools of
// different signatures can share a Catalog.
type GenericTool interface {
	// ToolInfo returns the metadata advertised to agents.
	ToolInfo() Info

	// Call decodes inputJSON, runs the tool and returns its result as JSON.
	Call(ctx context.Context, inputJSON string) (string, error)
}

type toolOptions struct {
	description string
}

// Option configures a Tool built by NewTool.
type Option func(*toolOptions)

// WithDescription sets the natural-language description an agent uses to
// decide when to call the tool.
func WithDescription(description string) Option {
	return func(o *toolOptions) {
		o.description = description
	}
}

// NewTool builds a Tool around function.
//
// Example:
//
//	dates := tool.NewTool("ListFortnightlyReportDates",
//		func(ctx context.Context, _ struct{}) ([]string, error) {
//			return reports.ListKnownFortnightlyDates(), nil
//		},
//		tool.WithDescription("Lists the known fortnightly FPI report dates, newest first."),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), opts ...Option) *Tool[I, O] {
	o := &toolOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &Tool[I, O]{
		Name:        name,
		Description: o.description,
		Parameters:  jsonschema.GenerateJSONSchema[I](),
		Output:      jsonschema.GenerateJSONSchema[O](),
		Function:    function,
	}
}

// ToolInfo implements GenericTool.
func (t *Tool[I, O]) ToolInfo() Info {
	return Info{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		Output:      t.Output,
	}
}

// Call implements GenericTool. Arguments are decoded leniently with
// parse.Arguments. Start and end events are added to the span in ctx, if any.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, utils.TruncateString(inputJSON, utils.DefaultMaxStringLength)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd,
			observability.String(observability.AttrToolName, t.Name),
		)
	}

	start := time.Now()
	input, err := parse.Arguments[I](inputJSON)
	if err != nil {
		err = fmt.Errorf("tool %s: %w", t.Name, err)
		recordToolError(span, err, time.Since(start))
		return "", err
	}

	output, err := t.Function(ctx, input)
	duration := time.Since(start)
	if err != nil {
		recordToolError(span, err, duration)
		return "", err
	}

	data, err := json.Marshal(output)
	if err != nil {
		err = fmt.Errorf("tool %s: marshal output: %w", t.Name, err)
		recordToolError(span, err, duration)
		return "", err
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, utils.TruncateString(string(data), utils.DefaultMaxStringLength)),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}
	return string(data), nil
}

func recordToolError(span observability.Span, err error, duration time.Duration) {
	if span == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(
		observability.String(observability.AttrToolError, err.Error()),
		observability.Duration(observability.AttrToolDuration, duration),
	)
}
