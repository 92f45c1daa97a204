// Package content turns post markdown into sanitized HTML, plain text and excerpts.
package content

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"BlogAnalytics/internal/domain"
)

// Excerpt lengths used by post cards.
const (
	CardExcerpt    = 150
	CompactExcerpt = 100
)

const ellipsis = "..."

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// RenderHTML converts markdown to sanitized HTML. On conversion failure the
// escaped source is returned.
func RenderHTML(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize(source)
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}

// PlainText renders markdown and keeps only the visible text, whitespace collapsed.
func PlainText(source string) string {
	rendered := RenderHTML(source)
	if rendered == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return strings.Join(strings.Fields(source), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns the post summary when present, otherwise its plain text cut to limit runes.
func Excerpt(post domain.Post, limit int) string {
	if s := strings.TrimSpace(post.Summary); s != "" {
		return s
	}
	return Truncate(PlainText(post.Content), limit)
}

// Truncate cuts s to limit runes and appends an ellipsis when anything was dropped.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit]), " ") + ellipsis
}
