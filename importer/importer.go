// Package importer converts HTML into outline documents. Incoming markup is
// sanitized down to structural elements, cleaned up, and rendered as Markdown
// so refiling works on it like on any other document.
package importer

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Importer turns HTML into Markdown outline content.
type Importer struct {
	policy *bluemonday.Policy
}

// New creates an importer with default sanitization settings.
func New() *Importer {
	return &Importer{
		policy: sanitizationPolicy(),
	}
}

// Import transforms HTML into Markdown. Empty input stays empty.
func (i *Importer) Import(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	sanitized := i.policy.Sanitize(string(content))

	doc, err := html.Parse(strings.NewReader(sanitized))
	if err != nil {
		return "", err
	}

	normalizeWhitespace(doc)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertNode(doc)
	if err != nil {
		return "", err
	}
	return string(markdown), nil
}

// sanitizationPolicy keeps structural and semantic elements only.
func sanitizationPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowElements("div", "p", "h1", "h2", "h3", "h4", "h5", "h6",
		"main",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "td", "th",
		"a", "em", "strong", "code", "pre", "blockquote",
		"br", "hr")

	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	return policy
}

// normalizeWhitespace collapses runs of whitespace in text nodes, keeping a
// single boundary space where the source had one.
func normalizeWhitespace(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		normalizeWhitespace(c)
	}

	if n.Type != html.TextNode {
		return
	}
	data := n.Data
	normalized := whitespaceRegex.ReplaceAllString(data, " ")
	if normalized != " " {
		trimmed := strings.TrimSpace(normalized)
		if trimmed != "" {
			if strings.HasPrefix(normalized, " ") {
				trimmed = " " + trimmed
			}
			if strings.HasSuffix(normalized, " ") {
				trimmed = trimmed + " "
			}
			normalized = trimmed
		}
	}
	n.Data = normalized
}
