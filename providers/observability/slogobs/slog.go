package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leofalp/marketdata/providers/observability"
)

// Observer implements observability.Tracer using log/slog. Spans are logged
// at debug level on start and end; recorded errors are logged at error level.
type Observer struct {
	logger *slog.Logger
}

// New creates a new slog-based observer with functional options.
// Without options the format and level come from the environment
// (MARKETDATA_LOG_FORMAT, MARKETDATA_LOG_LEVEL) and logs go to stderr.
//
// Example usage:
//
//	observer := slogobs.New(slogobs.WithLevel(slog.LevelDebug))
//	fetcher := fetch.New(fetch.WithLogger(observer.Logger()))
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		handlerOpts := &slog.HandlerOptions{Level: cfg.level}
		var handler slog.Handler
		if cfg.format == FormatJSON {
			handler = slog.NewJSONHandler(cfg.output, handlerOpts)
		} else {
			handler = slog.NewTextHandler(cfg.output, handlerOpts)
		}
		logger = slog.New(handler)
	}

	return &Observer{logger: logger}
}

var _ observability.Tracer = (*Observer)(nil)

// Logger returns the underlying logger so components can share it.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// StartSpan begins a new named span, logs its start at debug level and
// returns a context carrying the span.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		name:      name,
		startTime: time.Now(),
		logger:    o.logger,
		attrs:     attrs,
	}

	logAttrs := []slog.Attr{
		slog.String("span", name),
		slog.String("event", "span.start"),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Span started", logAttrs...)

	return observability.ContextWithSpan(ctx, span), span
}

type slogSpan struct {
	name      string
	startTime time.Time
	logger    *slog.Logger
	attrs     []observability.Attribute
	status    string
	mu        sync.Mutex
}

// End logs the elapsed time together with every accumulated attribute.
func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("span", s.name),
		slog.String("event", "span.end"),
		slog.Duration("duration", time.Since(s.startTime)),
	}
	if s.status != "" {
		logAttrs = append(logAttrs, slog.String("status", s.status))
	}
	for _, attr := range s.attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span ended", logAttrs...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch code {
	case observability.StatusOK:
		s.status = "ok"
	case observability.StatusError:
		s.status = "error"
	default:
		s.status = "unset"
	}
	if description != "" {
		s.status += ": " + description
	}
}

// RecordError logs err at error level and keeps it as a span attribute.
func (s *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs = append(s.attrs, observability.Error(err))
	s.logger.LogAttrs(context.Background(), slog.LevelError, "Span error",
		slog.String("span", s.name),
		slog.String("error", err.Error()),
	)
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logAttrs := []slog.Attr{
		slog.String("span", s.name),
		slog.String("event", name),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span event", logAttrs...)
}
