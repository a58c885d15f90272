package convert

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leofalp/marketdata/providers/observability"
)

// defaultTags is the strip set used when a caller names none.
var defaultTags = []string{"script", "style", "nav", "footer", "header", "aside", "noscript"}

// DefaultTags returns a copy of the default strip set:
// script, style, nav, footer, header, aside, noscript.
func DefaultTags() []string {
	return append([]string(nil), defaultTags...)
}

// Spec describes one sanitize-and-convert run.
type Spec struct {
	// Tags are the element names to strip. Nil means DefaultTags; an empty
	// non-nil slice strips nothing.
	Tags         []string
	HeadingStyle HeadingStyle
}

// Option adjusts a Spec.
type Option func(*Spec)

// WithTags replaces the strip set. Calling it with no names disables
// stripping.
func WithTags(tags ...string) Option {
	return func(s *Spec) {
		s.Tags = append([]string{}, tags...)
	}
}

// WithHeadingStyle sets the markdown heading style (ATX by default).
func WithHeadingStyle(style HeadingStyle) Option {
	return func(s *Spec) {
		s.HeadingStyle = style
	}
}

// NewSpec returns a Spec with defaults applied, then opts.
func NewSpec(opts ...Option) Spec {
	spec := Spec{HeadingStyle: HeadingATX}
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.Tags == nil {
		spec.Tags = DefaultTags()
	}
	if spec.HeadingStyle == "" {
		spec.HeadingStyle = HeadingATX
	}
	return spec
}

// TextFetcher retrieves the raw body of a page. *fetch.Fetcher implements it.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Converter runs the fetch, strip, markdown and whitespace pipeline.
type Converter struct {
	fetcher  TextFetcher
	stripper Stripper
	tracer   observability.Tracer
	logger   *slog.Logger
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithStripper replaces the default structural-then-textual strip chain.
func WithStripper(stripper Stripper) ConverterOption {
	return func(c *Converter) {
		c.stripper = stripper
	}
}

// WithTracer wraps each FetchAndConvert call in a span.
func WithTracer(tracer observability.Tracer) ConverterOption {
	return func(c *Converter) {
		c.tracer = tracer
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.logger = logger
	}
}

// NewConverter returns a Converter reading pages through fetcher.
func NewConverter(fetcher TextFetcher, opts ...ConverterOption) *Converter {
	c := &Converter{fetcher: fetcher}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.stripper == nil {
		c.stripper = NewStripper(c.logger)
	}
	return c
}

// FetchAndConvert fetches url and returns its cleaned markdown. Fetch
// failures are returned unchanged and no conversion is attempted.
//
// Example:
//
//	md, err := conv.FetchAndConvert(ctx, "https://example.com/report.html",
//		convert.WithTags("script", "style", "nav"),
//		convert.WithHeadingStyle(convert.HeadingSetext))
func (c *Converter) FetchAndConvert(ctx context.Context, url string, opts ...Option) (string, error) {
	spec := NewSpec(opts...)

	var span observability.Span
	if c.tracer != nil {
		ctx, span = c.tracer.StartSpan(ctx, observability.SpanConvert,
			observability.String(observability.AttrHTTPURL, url),
			observability.String(observability.AttrStripTags, strings.Join(spec.Tags, ",")),
		)
		defer span.End()
	}

	start := time.Now()
	body, err := c.fetcher.FetchText(ctx, url)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "fetch failed")
		}
		return "", err
	}

	md, err := c.convert(ctx, body, spec)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "conversion failed")
		}
		return "", err
	}

	if span != nil {
		span.SetAttributes(observability.Int(observability.AttrMarkdownSize, len(md)))
		span.SetStatus(observability.StatusOK, "")
	}
	c.logger.DebugContext(ctx, "page converted",
		slog.String("url", url),
		slog.Int("html_size", len(body)),
		slog.Int("markdown_size", len(md)),
		slog.Duration("duration", time.Since(start)),
	)
	return md, nil
}

// Convert runs the strip, markdown and whitespace stages on htmlText.
func (c *Converter) Convert(ctx context.Context, htmlText string, opts ...Option) (string, error) {
	return c.convert(ctx, htmlText, NewSpec(opts...))
}

func (c *Converter) convert(ctx context.Context, htmlText string, spec Spec) (string, error) {
	stripped, err := c.stripper.Strip(ctx, htmlText, spec.Tags)
	if err != nil {
		return "", err
	}
	md, err := ToMarkdown(stripped, spec.HeadingStyle)
	if err != nil {
		return "", err
	}
	return NormalizeWhitespace(md), nil
}

// Convert is Converter.Convert with the default strip chain and no fetcher.
func Convert(htmlText string, opts ...Option) (string, error) {
	spec := NewSpec(opts...)
	md, err := ToMarkdown(StripTags(htmlText, spec.Tags), spec.HeadingStyle)
	if err != nil {
		return "", err
	}
	return NormalizeWhitespace(md), nil
}
