// Package observability defines the tracing interfaces and semantic
// conventions used by the fetch pipeline and the tool layer.
//
// A [Tracer] starts [Span] values; an active span travels through a
// [context.Context] via [ContextWithSpan] and is retrieved with
// [SpanFromContext]. Components that find no span in the context skip
// recording entirely, so tracing is opt-in per call.
//
// semconv.go holds the attribute keys and span/event names shared by all
// components.
package observability
