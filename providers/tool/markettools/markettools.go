package markettools

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/leofalp/marketdata/core/convert"
	"github.com/leofalp/marketdata/providers/tool"
)

// ReportSource is the part of cdsl.Reports the tools call.
type ReportSource interface {
	GetMonthlyReport(ctx context.Context) (string, error)
	GetFortnightlyReport(ctx context.Context, dateLabel string) (string, error)
	ListKnownFortnightlyDates() []string
}

// IndexSource is the part of indices.Listings the tools call.
type IndexSource interface {
	GlobalIndices(ctx context.Context) (string, error)
	IndianIndices(ctx context.Context) (string, error)
}

// PageConverter fetches a page and returns it as markdown.
type PageConverter interface {
	FetchAndConvert(ctx context.Context, url string, opts ...convert.Option) (string, error)
}

// Sources holds the operations behind the tools. A nil source leaves its
// tools out of the catalog.
type Sources struct {
	Reports  ReportSource
	Listings IndexSource
	Pages    PageConverter
	Logger   *slog.Logger
}

// Tool names.
const (
	NameMonthlyReport     = "GetMonthlyFPIReport"
	NameFortnightlyReport = "GetFortnightlyFPIReport"
	NameReportDates       = "ListFortnightlyReportDates"
	NameGlobalIndices     = "GetGlobalIndices"
	NameIndianIndices     = "GetIndianIndices"
	NameFetchPage         = "FetchPageAsMarkdown"
)

// FortnightlyInput selects a fortnightly report.
type FortnightlyInput struct {
	Date string `json:"date,omitempty" jsonschema:"description=Fortnight end date as listed by ListFortnightlyReportDates, e.g. December 31, 2025. Omit for the latest report."`
}

// PageInput describes a page to convert.
type PageInput struct {
	URL          string   `json:"url" jsonschema:"required,description=Absolute http or https URL of the page"`
	Tags         []string `json:"tags,omitempty" jsonschema:"description=Element names to strip before conversion. Omit for script, style, nav, footer, header, aside and noscript; pass an empty list to keep everything."`
	HeadingStyle string   `json:"heading_style,omitempty" jsonschema:"enum=atx,enum=setext,description=Markdown heading style"`
}

// Result is what every tool returns. Exactly one of Content and Error is set.
type Result struct {
	Content string `json:"content,omitempty" jsonschema:"description=Markdown or text produced by the operation"`
	Error   string `json:"error,omitempty" jsonschema:"description=Readable explanation when the operation failed"`
}

// DatesResult lists the known fortnightly report dates, newest first.
type DatesResult struct {
	Dates []string `json:"dates" jsonschema:"description=Known fortnight end dates, newest first"`
}

// NewTools returns the tools backed by src.
func NewTools(src Sources) []tool.GenericTool {
	logger := src.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var tools []tool.GenericTool
	if src.Reports != nil {
		tools = append(tools,
			tool.NewTool(NameMonthlyReport,
				func(ctx context.Context, _ struct{}) (Result, error) {
					return result(ctx, logger, NameMonthlyReport)(src.Reports.GetMonthlyReport(ctx))
				},
				tool.WithDescription("Fetches the CDSL monthly Foreign Portfolio Investor (FPI) investment report and returns it as markdown."),
			),
			tool.NewTool(NameFortnightlyReport,
				func(ctx context.Context, in FortnightlyInput) (Result, error) {
					return result(ctx, logger, NameFortnightlyReport)(src.Reports.GetFortnightlyReport(ctx, in.Date))
				},
				tool.WithDescription("Fetches the CDSL fortnightly sector-wise FPI investment report for a date and returns it as markdown. Without a date the latest known report is used."),
			),
			tool.NewTool(NameReportDates,
				func(_ context.Context, _ struct{}) (DatesResult, error) {
					return DatesResult{Dates: src.Reports.ListKnownFortnightlyDates()}, nil
				},
				tool.WithDescription("Lists the fortnight end dates for which CDSL sector-wise FPI reports are known, newest first."),
			),
		)
	}

	if src.Listings != nil {
		tools = append(tools,
			tool.NewTool(NameGlobalIndices,
				func(ctx context.Context, _ struct{}) (Result, error) {
					return result(ctx, logger, NameGlobalIndices)(src.Listings.GlobalIndices(ctx))
				},
				tool.WithDescription("Returns the latest levels of the major world stock indices as a text table."),
			),
			tool.NewTool(NameIndianIndices,
				func(ctx context.Context, _ struct{}) (Result, error) {
					return result(ctx, logger, NameIndianIndices)(src.Listings.IndianIndices(ctx))
				},
				tool.WithDescription("Returns the latest levels of the NSE Indian indices with change and percent change as a text table."),
			),
		)
	}

	if src.Pages != nil {
		tools = append(tools, tool.NewTool(NameFetchPage,
			func(ctx context.Context, in PageInput) (Result, error) {
				opts, err := pageOptions(in)
				if err != nil {
					return result(ctx, logger, NameFetchPage)("", err)
				}
				return result(ctx, logger, NameFetchPage)(src.Pages.FetchAndConvert(ctx, in.URL, opts...))
			},
			tool.WithDescription("Fetches any web page, strips non-content elements and returns the page as markdown."),
		))
	}
	return tools
}

// NewCatalog returns a catalog holding every tool backed by src.
func NewCatalog(src Sources) *tool.Catalog {
	return tool.NewCatalog(NewTools(src)...)
}

// Names returns the names of tools, in order.
func Names(tools []tool.GenericTool) []string {
	return lo.Map(tools, func(t tool.GenericTool, _ int) string {
		return t.ToolInfo().Name
	})
}

func pageOptions(in PageInput) ([]convert.Option, error) {
	style, err := convert.ParseHeadingStyle(in.HeadingStyle)
	if err != nil {
		return nil, err
	}
	opts := []convert.Option{convert.WithHeadingStyle(style)}
	if in.Tags != nil {
		opts = append(opts, convert.WithTags(in.Tags...))
	}
	return opts, nil
}

// result builds the tool output for one operation outcome, logging failures.
func result(ctx context.Context, logger *slog.Logger, name string) func(string, error) (Result, error) {
	return func(content string, err error) (Result, error) {
		if err != nil {
			logger.WarnContext(ctx, "tool operation failed",
				slog.String("tool", name),
				slog.String("error", err.Error()),
			)
			return Result{Error: Describe(err)}, nil
		}
		return Result{Content: content}, nil
	}
}
