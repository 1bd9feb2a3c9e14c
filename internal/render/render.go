// Package render turns generated content into standalone HTML pages for the
// export command.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/vkozyar/lorekit/internal/content"
)

// ToHTML renders a markdown body to an HTML fragment.
func ToHTML(md []byte) string {
	opts := mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	}
	renderer := mdhtml.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.Attributes
	p := parser.NewWithExtensions(ext)
	doc := p.Parse(md)
	return string(markdown.Render(doc, renderer))
}

// Page renders one content item as a complete HTML document: title and
// one-liner as header, body_md as the article body.
func Page(c *content.Content, langCode string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(fmt.Sprintf("<html lang=%q>\n<head>\n<meta charset=\"utf-8\">\n", langCode))
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n</head>\n<body>\n", html.EscapeString(c.Title)))
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(c.Title)))
	sb.WriteString(fmt.Sprintf("<p><em>%s</em></p>\n", html.EscapeString(c.OneLiner)))
	sb.WriteString("<article>\n")
	sb.WriteString(ToHTML([]byte(c.BodyMD)))
	sb.WriteString("</article>\n</body>\n</html>\n")
	return sb.String()
}
