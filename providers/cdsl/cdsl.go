package cdsl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/leofalp/marketdata/core/config"
	"github.com/leofalp/marketdata/core/convert"
	"github.com/leofalp/marketdata/core/tables"
)

// ErrNoKnownDates is returned when a fortnightly report is requested without
// a date and the catalog is empty.
var ErrNoKnownDates = errors.New("no known fortnightly report dates")

// ErrNoFetcher is returned by MonthlyTables when Reports was built without WithFetcher.
var ErrNoFetcher = errors.New("no fetcher configured")

// MonthlyStripTags is the strip set for the monthly report page. Unlike
// convert.DefaultTags it keeps footer and noscript, where CDSL puts the
// reporting-period notes.
var MonthlyStripTags = []string{"script", "style", "nav", "header", "aside"}

// Pipeline is the part of convert.Converter the reports need.
type Pipeline interface {
	FetchAndConvert(ctx context.Context, url string, opts ...convert.Option) (string, error)
}

// TextFetcher retrieves a raw page body.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Reports binds the CDSL FPI report sources to the conversion pipeline.
type Reports struct {
	pipeline           Pipeline
	fetcher            TextFetcher
	monthlyURL         string
	fortnightlyBaseURL string
	monthlyTags        []string
	dates              []string
	logger             *slog.Logger
}

// Option configures Reports.
type Option func(*Reports)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reports) {
		r.logger = logger
	}
}

// WithFetcher enables MonthlyTables, which needs the raw page.
func WithFetcher(fetcher TextFetcher) Option {
	return func(r *Reports) {
		r.fetcher = fetcher
	}
}

// New returns Reports reading sources and the date catalog from cfg.
// The catalog is copied; later changes to cfg do not affect it.
func New(pipeline Pipeline, cfg config.CDSLConfig, opts ...Option) *Reports {
	r := &Reports{
		pipeline:           pipeline,
		monthlyURL:         cfg.MonthlyURL,
		fortnightlyBaseURL: cfg.FortnightlyBaseURL,
		monthlyTags:        slices.Clone(cfg.MonthlyStripTags),
		dates:              slices.Clone(cfg.FortnightlyDates),
	}
	if len(r.monthlyTags) == 0 {
		r.monthlyTags = slices.Clone(MonthlyStripTags)
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// GetMonthlyReport returns the monthly FPI report as markdown.
func (r *Reports) GetMonthlyReport(ctx context.Context) (string, error) {
	r.logger.DebugContext(ctx, "fetching monthly report", slog.String("url", r.monthlyURL))
	return r.pipeline.FetchAndConvert(ctx, r.monthlyURL, convert.WithTags(r.monthlyTags...))
}

// GetFortnightlyReport returns the sector-wise fortnightly report for
// dateLabel as markdown. An empty label selects the newest catalog entry.
// The label is not checked against the catalog; an unknown fortnight
// surfaces as the fetcher's not-found error.
func (r *Reports) GetFortnightlyReport(ctx context.Context, dateLabel string) (string, error) {
	label := strings.TrimSpace(dateLabel)
	if label == "" {
		if len(r.dates) == 0 {
			return "", ErrNoKnownDates
		}
		label = r.dates[0]
	}

	reportURL := r.FortnightlyURL(label)
	r.logger.DebugContext(ctx, "fetching fortnightly report",
		slog.String("date", label),
		slog.String("url", reportURL),
	)
	return r.pipeline.FetchAndConvert(ctx, reportURL)
}

// ListKnownFortnightlyDates returns a copy of the date catalog, newest first.
func (r *Reports) ListKnownFortnightlyDates() []string {
	return slices.Clone(r.dates)
}

// FortnightlyURL returns the page URL for a date label: the base URL, the
// percent-encoded label and ".html". Commas stay literal, so
// "December 31, 2025" becomes "December%2031,%202025.html".
func (r *Reports) FortnightlyURL(dateLabel string) string {
	segment := strings.ReplaceAll(url.PathEscape(dateLabel), "%2C", ",")
	return r.fortnightlyBaseURL + segment + ".html"
}

// MonthlyTables returns every table on the monthly report page as aligned
// text. A page without tables yields a parse failure.
func (r *Reports) MonthlyTables(ctx context.Context) (string, error) {
	if r.fetcher == nil {
		return "", ErrNoFetcher
	}
	page, err := r.fetcher.FetchText(ctx, r.monthlyURL)
	if err != nil {
		return "", err
	}
	extracted, err := tables.Extract(page)
	if err != nil {
		return "", err
	}
	return tables.TextAll(extracted), nil
}
