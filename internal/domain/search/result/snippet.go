package result

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/caselens/internal/domain/search/extract"
	"github.com/kailas-cloud/caselens/internal/domain/search/raw"
)

const (
	// MaxSnippet is the snippet length before cleaning.
	MaxSnippet       = 200
	maxRawSnippets   = 2
	rawSnippetJoiner = " ... "
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reDots       = regexp.MustCompile(`\.{3,}`)
)

func snippet(r raw.Result, derived *raw.DerivedStructData) string {
	if len(derived.ExtractiveSegments) > 0 {
		return CleanSnippet(extract.Truncate(derived.ExtractiveSegments[0].Content, MaxSnippet))
	}
	if len(derived.Snippets) > 0 {
		parts := derived.Snippets
		if len(parts) > maxRawSnippets {
			parts = parts[:maxRawSnippets]
		}
		return CleanSnippet(extract.Truncate(strings.Join(parts, rawSnippetJoiner), MaxSnippet))
	}
	return CleanSnippet(extract.Truncate(r.Snippet, MaxSnippet))
}

// CleanSnippet strips markup, decodes HTML entities, collapses whitespace and
// runs of periods, and trims the result.
func CleanSnippet(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := s
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}
	text = reWhitespace.ReplaceAllString(text, " ")
	text = reDots.ReplaceAllString(text, "...")
	return strings.TrimSpace(text)
}
