package slogobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/leofalp/marketdata/providers/observability"
)

func newDebugObserver(buf *bytes.Buffer, format Format) *Observer {
	return New(WithOutput(buf), WithLevel(slog.LevelDebug), WithFormat(format))
}

// TestObserver_SpanLifecycle verifies start, event, and end records are
// emitted and that the returned context carries the span.
func TestObserver_SpanLifecycle(t *testing.T) {
	var buf bytes.Buffer
	observer := newDebugObserver(&buf, FormatText)

	ctx, span := observer.StartSpan(context.Background(), "fetch", observability.String("http.url", "https://example.com"))
	if observability.SpanFromContext(ctx) != span {
		t.Fatal("StartSpan() context should carry the new span")
	}
	span.AddEvent("http.response.received", observability.Int("http.status_code", 200))
	span.SetStatus(observability.StatusOK, "")
	span.End()

	output := buf.String()
	for _, want := range []string{"span.start", "http.response.received", "span.end", "status=ok", "http.url=https://example.com"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

// TestObserver_RecordError verifies errors are logged at error level and nil
// errors are ignored.
func TestObserver_RecordError(t *testing.T) {
	var buf bytes.Buffer
	observer := New(WithOutput(&buf), WithLevel(slog.LevelError), WithFormat(FormatJSON))

	_, span := observer.StartSpan(context.Background(), "tool")
	span.RecordError(nil)
	if buf.Len() != 0 {
		t.Fatalf("RecordError(nil) should not log, got: %s", buf.String())
	}

	span.RecordError(errors.New("connection refused"))
	output := buf.String()
	if !strings.Contains(output, `"level":"ERROR"`) || !strings.Contains(output, "connection refused") {
		t.Errorf("expected JSON error record, got: %s", output)
	}
}

// TestObserver_WithLogger verifies a supplied logger is used as-is.
func TestObserver_WithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	observer := New(WithLogger(logger))
	if observer.Logger() != logger {
		t.Error("Logger() should return the logger passed via WithLogger")
	}
}

// TestParseLogLevel covers every supported spelling and the fallback.
func TestParseLogLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, want := range testCases {
		if got := ParseLogLevel(input); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

// TestGetFromEnv verifies the MARKETDATA_ variables take precedence over the
// generic ones.
func TestGetFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("MARKETDATA_LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("MARKETDATA_LOG_FORMAT", "json")

	if got := GetLogLevelFromEnv(); got != slog.LevelDebug {
		t.Errorf("GetLogLevelFromEnv() = %v, want DEBUG", got)
	}
	if got := GetFormatFromEnv(); got != FormatJSON {
		t.Errorf("GetFormatFromEnv() = %v, want json", got)
	}

	t.Setenv("MARKETDATA_LOG_LEVEL", "")
	if got := GetLogLevelFromEnv(); got != slog.LevelError {
		t.Errorf("GetLogLevelFromEnv() fallback = %v, want ERROR", got)
	}
}
