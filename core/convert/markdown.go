package convert

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

// HeadingStyle selects how headings are written in markdown.
type HeadingStyle string

const (
	// HeadingATX prefixes headings with '#' signs.
	HeadingATX HeadingStyle = "atx"
	// HeadingSetext underlines level 1 and 2 headings with '=' or '-'.
	HeadingSetext HeadingStyle = "setext"
)

// ErrUnknownHeadingStyle is returned for a heading style other than ATX or Setext.
var ErrUnknownHeadingStyle = errors.New("unknown heading style")

// ParseHeadingStyle accepts "atx" or "setext" in any case. An empty string
// means ATX.
func ParseHeadingStyle(s string) (HeadingStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(HeadingATX):
		return HeadingATX, nil
	case string(HeadingSetext):
		return HeadingSetext, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownHeadingStyle, s)
}

var (
	atxOnce         sync.Once
	atxConverter    *converter.Converter
	setextOnce      sync.Once
	setextConverter *converter.Converter
)

func markdownConverter(style HeadingStyle) (*converter.Converter, error) {
	switch style {
	case "", HeadingATX:
		atxOnce.Do(func() {
			atxConverter = newMarkdownConverter(commonmark.WithHeadingStyle(commonmark.HeadingStyleATX))
		})
		return atxConverter, nil
	case HeadingSetext:
		setextOnce.Do(func() {
			setextConverter = newMarkdownConverter(commonmark.WithHeadingStyle(commonmark.HeadingStyleSetext))
		})
		return setextConverter, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHeadingStyle, style)
}

func newMarkdownConverter(headingOption commonmark.OptionFunc) *converter.Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(headingOption),
			table.NewTablePlugin(),
		),
	)
	// Report pages inline logos as data URIs; keep the alt text instead of
	// megabytes of base64.
	conv.Register.RendererFor("img", converter.TagTypeInline,
		func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
			src := dom.GetAttributeOr(n, "src", "")
			if !strings.HasPrefix(src, "data:") {
				return converter.RenderTryNext
			}
			if alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", "")); alt != "" {
				w.WriteString("[Image: " + alt + "]")
			}
			return converter.RenderSuccess
		},
		converter.PriorityEarly,
	)
	return conv
}

// ToMarkdown converts HTML to markdown with the given heading style. Tables
// become GitHub-flavoured pipe tables. The result has no leading or trailing
// whitespace.
func ToMarkdown(htmlText string, style HeadingStyle) (string, error) {
	conv, err := markdownConverter(style)
	if err != nil {
		return "", err
	}
	md, err := conv.ConvertString(htmlText)
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return strings.TrimSpace(md), nil
}
