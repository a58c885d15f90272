package indices

import (
	"context"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/leofalp/marketdata/core/config"
	"github.com/leofalp/marketdata/core/fetch"
	"github.com/leofalp/marketdata/core/tables"
)

// Fetcher is the part of *fetch.Fetcher the listings need.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	FetchJSONInto(ctx context.Context, url string, headers map[string]string, dst any) error
}

// Quote is one row of the Indian index listing.
type Quote struct {
	Name          string
	Last          string
	Change        string
	PercentChange string
}

// Listings reads global and Indian market index listings.
type Listings struct {
	fetcher       Fetcher
	globalURL     string
	indianURL     string
	indianHeaders map[string]string
	logger        *slog.Logger
}

// Option configures Listings.
type Option func(*Listings)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listings) {
		l.logger = logger
	}
}

// New returns Listings reading the sources in cfg through fetcher.
func New(fetcher Fetcher, cfg config.IndicesConfig, opts ...Option) *Listings {
	l := &Listings{
		fetcher:       fetcher,
		globalURL:     cfg.GlobalURL,
		indianURL:     cfg.IndianURL,
		indianHeaders: maps.Clone(cfg.IndianHeaders),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// GlobalIndices returns the first table of the global indices page as
// aligned text.
func (l *Listings) GlobalIndices(ctx context.Context) (string, error) {
	page, err := l.fetcher.FetchText(ctx, l.globalURL)
	if err != nil {
		return "", err
	}
	table, err := tables.ExtractFirst(page)
	if err != nil {
		return "", err
	}
	l.logger.DebugContext(ctx, "global indices extracted",
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", table.Columns()),
	)
	return table.Text(), nil
}

type allIndicesResponse struct {
	Data []struct {
		Index         string `json:"index"`
		Last          any    `json:"last"`
		Variation     any    `json:"variation"`
		PercentChange any    `json:"percentChange"`
	} `json:"data"`
}

// IndianQuotes returns the NSE index listing. A response without index rows
// is a parse failure.
func (l *Listings) IndianQuotes(ctx context.Context) ([]Quote, error) {
	var resp allIndicesResponse
	if err := l.fetcher.FetchJSONInto(ctx, l.indianURL, l.indianHeaders, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fetch.NewParseFailureError("indian indices: response has no data rows", nil)
	}

	quotes := make([]Quote, 0, len(resp.Data))
	for _, row := range resp.Data {
		if strings.TrimSpace(row.Index) == "" {
			continue
		}
		quotes = append(quotes, Quote{
			Name:          strings.TrimSpace(row.Index),
			Last:          formatNumber(row.Last),
			Change:        formatNumber(row.Variation),
			PercentChange: formatNumber(row.PercentChange),
		})
	}
	if len(quotes) == 0 {
		return nil, fetch.NewParseFailureError("indian indices: no named index in response", nil)
	}
	return quotes, nil
}

// IndianIndices renders IndianQuotes as aligned text.
func (l *Listings) IndianIndices(ctx context.Context) (string, error) {
	quotes, err := l.IndianQuotes(ctx)
	if err != nil {
		return "", err
	}
	table := tables.Table{Header: []string{"Index", "Last", "Change", "% Change"}}
	for _, q := range quotes {
		table.Rows = append(table.Rows, []string{q.Name, q.Last, q.Change, q.PercentChange})
	}
	return table.Text(), nil
}

// formatNumber renders a JSON number with two decimals. NSE sometimes sends
// numbers as strings; those are passed through.
func formatNumber(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', 2, 64)
	case string:
		if s := strings.TrimSpace(n); s != "" {
			return s
		}
	}
	return "-"
}
