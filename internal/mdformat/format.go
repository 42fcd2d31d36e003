package mdformat

import (
	"io"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rohmanhakim/docuprism/internal/sanitizer"
)

/*
Rendering Rules
- GitHub-Flavored Markdown (tables, fenced code, autolinks, strikethrough)
- Single newlines become <br>
- Output always passes through the sanitizer allowlist

Summaries come from a model and are untrusted; nothing is rendered
without sanitization.
*/

const extensions = parser.CommonExtensions | parser.HardLineBreak

func render(md string) string {
	// Parsers keep state and cannot be reused across documents.
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags:          html.FlagsNone,
		RenderNodeHook: skipTrailingHardbreak,
	})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

// skipTrailingHardbreak drops a line break that ends its block. With
// HardLineBreak every list item line ends in one, which would put a <br>
// before each </li>.
func skipTrailingHardbreak(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if _, ok := node.(*ast.Hardbreak); !ok {
		return ast.GoToNext, false
	}
	return ast.GoToNext, isTrailing(node)
}

// isTrailing reports whether only empty text follows node inside its parent.
func isTrailing(node ast.Node) bool {
	parent := node.GetParent()
	if parent == nil {
		return false
	}
	siblings := parent.GetChildren()
	for i, sibling := range siblings {
		if sibling != node {
			continue
		}
		for _, next := range siblings[i+1:] {
			text, ok := next.(*ast.Text)
			if !ok || strings.TrimSpace(string(text.Literal)) != "" {
				return false
			}
		}
		return true
	}
	return false
}

// Format renders markdown to sanitized HTML.
func Format(md string) string {
	return sanitizer.SanitizeHTML(render(md))
}

// FormatInline renders a single line of markdown without the wrapping
// paragraph element.
func FormatInline(md string) string {
	out := strings.TrimSpace(render(md))
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") &&
		strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return sanitizer.SanitizeHTML(out)
}

var plainTextRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`#{1,6}\s+`), ""},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
	{regexp.MustCompile(`\*(.+?)\*`), "$1"},
	{regexp.MustCompile("`(.+?)`"), "$1"},
	{regexp.MustCompile(`\[(.+?)\]\(.+?\)`), "$1"},
	{regexp.MustCompile(`(?m)^\s*[-*+]\s+`), ""},
	{regexp.MustCompile(`(?m)^\s*\d+\.\s+`), ""},
	{regexp.MustCompile(`(?m)^\s*>\s+`), ""},
}

// ToPlainText removes common markdown syntax: headers, bold, italic,
// inline code, links, list markers and quote markers.
func ToPlainText(md string) string {
	for _, rule := range plainTextRules {
		md = rule.re.ReplaceAllString(md, rule.repl)
	}
	return strings.TrimSpace(md)
}
