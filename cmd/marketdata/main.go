// Command marketdata fetches Indian market reports and index listings and
// prints them as markdown or text.
//
// Usage:
//
//	marketdata monthly [-tables]
//	marketdata fortnightly [-date "December 31, 2025"]
//	marketdata dates
//	marketdata global
//	marketdata indian
//	marketdata fetch [-tags script,style] [-heading atx|setext] <url>
//	marketdata tools
//	marketdata call <tool> [json]
//
// Configuration comes from the embedded defaults, the file named by
// MARKETDATA_CONFIG and MARKETDATA_* environment variables. A .env file in
// the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/leofalp/marketdata/core/config"
	"github.com/leofalp/marketdata/core/convert"
	"github.com/leofalp/marketdata/core/fetch"
	"github.com/leofalp/marketdata/internal/utils"
	"github.com/leofalp/marketdata/providers/cdsl"
	"github.com/leofalp/marketdata/providers/indices"
	"github.com/leofalp/marketdata/providers/observability"
	"github.com/leofalp/marketdata/providers/observability/slogobs"
	"github.com/leofalp/marketdata/providers/tool/markettools"

	_ "github.com/joho/godotenv/autoload"
)

const usage = `usage: marketdata <command> [flags]

commands:
  monthly [-tables]           monthly FPI report
  fortnightly [-date LABEL]   fortnightly sector-wise FPI report
  dates                       known fortnightly report dates
  global                      major world indices
  indian                      NSE indices
  fetch [flags] URL           any page as markdown
  tools                       list agent tools
  call TOOL [JSON]            run an agent tool
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	observer := slogobs.New()
	logger := observer.Logger()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("loading configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(ctx, cfg, observer, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the wired services for one invocation.
type app struct {
	reports   *cdsl.Reports
	listings  *indices.Listings
	converter *convert.Converter
	logger    *slog.Logger
}

// run executes one command and writes its output to out. The fetcher is
// closed before run returns.
func run(ctx context.Context, cfg *config.Config, observer *slogobs.Observer, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	logger := observer.Logger()
	fetcher := fetch.New(append(cfg.FetchOptions(), fetch.WithLogger(logger))...)
	defer utils.CloseWithLog(fetcher)

	converter := convert.NewConverter(fetcher,
		convert.WithTracer(observer),
		convert.WithLogger(logger),
	)
	a := &app{
		reports:   cdsl.New(converter, cfg.CDSL, cdsl.WithLogger(logger), cdsl.WithFetcher(fetcher)),
		listings:  indices.New(fetcher, cfg.Indices, indices.WithLogger(logger)),
		converter: converter,
		logger:    logger,
	}

	command, rest := args[0], args[1:]
	var (
		text string
		err  error
	)
	switch command {
	case "monthly":
		text, err = a.monthly(ctx, rest)
	case "fortnightly":
		text, err = a.fortnightly(ctx, rest)
	case "dates":
		text = strings.Join(a.reports.ListKnownFortnightlyDates(), "\n")
	case "global":
		text, err = a.listings.GlobalIndices(ctx)
	case "indian":
		text, err = a.listings.IndianIndices(ctx)
	case "fetch":
		text, err = a.fetchPage(ctx, rest)
	case "tools":
		text, err = a.tools()
	case "call":
		text, err = a.call(ctx, observer, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, text)
	return err
}

func (a *app) monthly(ctx context.Context, args []string) (string, error) {
	fs := flag.NewFlagSet("monthly", flag.ContinueOnError)
	asTables := fs.Bool("tables", false, "render only the page tables as aligned text")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	if *asTables {
		return a.reports.MonthlyTables(ctx)
	}
	return a.reports.GetMonthlyReport(ctx)
}

func (a *app) fortnightly(ctx context.Context, args []string) (string, error) {
	fs := flag.NewFlagSet("fortnightly", flag.ContinueOnError)
	date := fs.String("date", "", "fortnight end date label; latest when empty")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	return a.reports.GetFortnightlyReport(ctx, *date)
}

func (a *app) fetchPage(ctx context.Context, args []string) (string, error) {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	tags := fs.String("tags", "", "comma-separated element names to strip; default set when empty, \"none\" keeps everything")
	heading := fs.String("heading", "atx", "heading style: atx or setext")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: fetch needs exactly one URL", errUsage)
	}

	style, err := convert.ParseHeadingStyle(*heading)
	if err != nil {
		return "", err
	}
	opts := []convert.Option{convert.WithHeadingStyle(style)}
	switch strings.TrimSpace(*tags) {
	case "":
	case "none":
		opts = append(opts, convert.WithTags())
	default:
		opts = append(opts, convert.WithTags(strings.Split(*tags, ",")...))
	}
	return a.converter.FetchAndConvert(ctx, fs.Arg(0), opts...)
}

func (a *app) catalogSources() markettools.Sources {
	return markettools.Sources{
		Reports:  a.reports,
		Listings: a.listings,
		Pages:    a.converter,
		Logger:   a.logger,
	}
}

func (a *app) tools() (string, error) {
	var b strings.Builder
	for _, info := range markettools.NewCatalog(a.catalogSources()).Infos() {
		params, err := info.Parameters.JSONString(false)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s\n  %s\n  parameters: %s\n", info.Name, info.Description, params)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (a *app) call(ctx context.Context, observer *slogobs.Observer, args []string) (string, error) {
	if len(args) < 1 || len(args) > 2 {
		return "", fmt.Errorf("%w: call needs a tool name and optional JSON arguments", errUsage)
	}
	input := ""
	if len(args) == 2 {
		input = args[1]
	}

	ctx, span := observer.StartSpan(ctx, observability.SpanTool,
		observability.String(observability.AttrToolName, args[0]),
	)
	defer span.End()
	return markettools.NewCatalog(a.catalogSources()).Call(ctx, args[0], input)
}
