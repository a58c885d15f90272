package convert

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"

	"github.com/leofalp/marketdata/providers/observability"
)

// Stripper removes every element whose tag name is in tags, together with
// its subtree, and returns the remaining HTML.
type Stripper interface {
	Strip(ctx context.Context, htmlText string, tags []string) (string, error)
}

// StructuralStripper parses the document into a tree, detaches matching
// elements and comment nodes, and renders the tree back. Its output is a full
// document (html, head and body are added when missing).
//
// Strip fails when the document cannot be parsed or rendered; it never
// returns partially stripped output.
type StructuralStripper struct{}

func (StructuralStripper) Strip(_ context.Context, htmlText string, tags []string) (out string, err error) {
	names := normalizeTags(tags)
	if len(names) == 0 {
		return htmlText, nil
	}

	// A panic during tree surgery is reported as a failure so the chain can
	// fall through to the next strategy.
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("structural strip: %v", r)
		}
	}()

	doc, err := html.ParseWithOptions(strings.NewReader(htmlText), html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", fmt.Errorf("structural strip: parse: %w", err)
	}

	matches := dom.FindAllNodes(doc, func(node *html.Node) bool {
		if node.Type == html.CommentNode {
			return true
		}
		if node.Type != html.ElementNode {
			return false
		}
		_, ok := names[dom.NodeName(node)]
		return ok
	})
	for _, node := range matches {
		// A node may already be gone with an ancestor that matched first.
		if node.Parent != nil {
			dom.RemoveNode(node)
		}
	}

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("structural strip: render: %w", err)
	}
	return buf.String(), nil
}

// TextualStripper removes <tag ...>...</tag> spans (non-greedy,
// case-insensitive, across newlines) and then self-closing <tag .../> forms.
//
// It works on the raw text and is lossy: nested elements of the same name
// leave their outer closing tag behind, an opening tag without a closing tag
// is kept, and matches inside comments or attribute values are removed too.
// It never fails.
type TextualStripper struct{}

func (TextualStripper) Strip(_ context.Context, htmlText string, tags []string) (string, error) {
	out := htmlText
	for name := range normalizeTags(tags) {
		quoted := regexp.QuoteMeta(name)
		paired := regexp.MustCompile(`(?is)<` + quoted + `\b[^>]*>.*?</` + quoted + `\s*>`)
		selfClosing := regexp.MustCompile(`(?is)<` + quoted + `\b[^>]*/>`)
		out = paired.ReplaceAllString(out, "")
		out = selfClosing.ReplaceAllString(out, "")
	}
	return out, nil
}

// FallbackStripper runs Primary and, if it fails, Fallback on the original
// input. The result carries whatever guarantees the strategy that produced it
// gives.
type FallbackStripper struct {
	Primary  Stripper
	Fallback Stripper
	Logger   *slog.Logger
}

// NewStripper returns the default chain: structural removal with the textual
// pass as a safety net for input the parser rejects.
func NewStripper(logger *slog.Logger) *FallbackStripper {
	return &FallbackStripper{
		Primary:  StructuralStripper{},
		Fallback: TextualStripper{},
		Logger:   logger,
	}
}

func (s *FallbackStripper) Strip(ctx context.Context, htmlText string, tags []string) (string, error) {
	out, err := s.Primary.Strip(ctx, htmlText, tags)
	if err == nil {
		return out, nil
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, "structural strip failed, using textual fallback",
		slog.String("error", err.Error()),
		slog.Int("html_size", len(htmlText)),
	)
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventStripFallback, observability.Error(err))
	}

	out, fallbackErr := s.Fallback.Strip(ctx, htmlText, tags)
	if fallbackErr != nil {
		return "", fmt.Errorf("strip tags: %w (after %v)", fallbackErr, err)
	}
	return out, nil
}

var defaultStripper = NewStripper(nil)

// StripTags removes the named elements and their subtrees using the default
// strategy chain.
//
// Example:
//
//	cleaned := convert.StripTags(`<body><script>x</script><p>Hello</p></body>`, []string{"script"})
//	// cleaned contains <p>Hello</p> and no <script>
func StripTags(htmlText string, tags []string) string {
	// The textual fallback never fails, so neither does the chain.
	out, _ := defaultStripper.Strip(context.Background(), htmlText, tags)
	return out
}

// normalizeTags lowercases and trims tag names, dropping blanks and duplicates.
func normalizeTags(tags []string) map[string]struct{} {
	names := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag))
		if name == "" {
			continue
		}
		names[name] = struct{}{}
	}
	return names
}
