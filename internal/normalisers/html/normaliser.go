package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML document to plain text.
// The title comes from the <title> tag.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)

	title := extractHTMLTitle(rawContent)
	if title == "" {
		title = raw.FallbackTitle()
	}

	return &driven.NormaliseResult{
		Title:   title,
		Content: stripHTML(rawContent),
		Format:  "html",
	}, nil
}

// Page chrome and non-text elements dropped with their content.
var droppedElements = []string{
	"head", "script", "style", "noscript", "template", "svg",
	"nav", "header", "footer", "aside",
}

var (
	titleTag       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	firstHeading   = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	droppedTags    = compileDropped(droppedElements)
	comments       = regexp.MustCompile(`(?s)<!--.*?-->`)
	cellBoundary   = regexp.MustCompile(`(?is)</t[dh]>\s*<t[dh]\b[^>]*>`)
	paragraphBreak = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|section|article|main|blockquote|pre|table|ul|ol|dl)\b[^>]*>`)
	lineBreak      = regexp.MustCompile(`(?i)<(br|hr|tr|dt|dd)\b[^>]*>`)
	listItem       = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	anyTag         = regexp.MustCompile(`<[^>]+>`)
	spaces         = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
)

func compileDropped(elements []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(elements))
	for i, el := range elements {
		res[i] = regexp.MustCompile(`(?is)<` + el + `\b[^>]*>.*?</` + el + `\s*>`)
	}
	return res
}

// extractHTMLTitle returns the <title> text, or the first <h1> when the page
// has no usable title.
func extractHTMLTitle(content string) string {
	for _, re := range []*regexp.Regexp{titleTag, firstHeading} {
		if m := re.FindStringSubmatch(content); len(m) > 1 {
			title := inlineText(m[1])
			if title != "" {
				return title
			}
		}
	}
	return ""
}

// inlineText flattens an HTML fragment to a single line of text.
func inlineText(fragment string) string {
	text := html.UnescapeString(anyTag.ReplaceAllString(fragment, ""))
	return strings.Join(strings.Fields(text), " ")
}

// stripHTML extracts the readable text of a page. Block elements become
// paragraphs separated by a blank line, list items keep a "- " marker and
// table cells on a row are joined with " | ".
func stripHTML(content string) string {
	for _, re := range droppedTags {
		content = re.ReplaceAllString(content, "")
	}
	content = comments.ReplaceAllString(content, "")

	content = cellBoundary.ReplaceAllString(content, " | ")
	content = paragraphBreak.ReplaceAllString(content, "\n\n")
	content = lineBreak.ReplaceAllString(content, "\n")
	content = listItem.ReplaceAllString(content, "\n- ")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	var b strings.Builder
	pendingBreak := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
		if line == "" {
			pendingBreak = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if pendingBreak {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(line)
		pendingBreak = false
	}
	return b.String()
}
