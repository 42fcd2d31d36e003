package mdformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Basics(t *testing.T) {
	out := Format("**Bold** text")
	assert.Equal(t, "<p><strong>Bold</strong> text</p>", strings.TrimSpace(out))
}

func TestFormat_HardLineBreaks(t *testing.T) {
	out := Format("line one\nline two")
	assert.Contains(t, out, "line one<br")
	assert.Contains(t, out, "line two")
}

func TestFormat_Lists(t *testing.T) {
	out := Format("- first\n- second\n")
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<li>first</li>")
	assert.Contains(t, out, "<li>second</li>")
	assert.NotContains(t, out, "<br")

	ordered := Format("1. x\n2. y\n")
	assert.Contains(t, ordered, "<li>x</li>")
	assert.Contains(t, ordered, "<li>y</li>")
	assert.NotContains(t, ordered, "<br")
}

func TestFormat_ListItemKeepsInnerBreak(t *testing.T) {
	out := Format("- first line\n  continued\n- second\n")
	assert.Contains(t, out, "first line<br")
	assert.Contains(t, out, "<li>second</li>")
}

func TestFormat_ParagraphHasNoTrailingBreak(t *testing.T) {
	out := strings.TrimSpace(Format("line one\nline two\n"))
	assert.Contains(t, out, "line one<br")
	assert.True(t, strings.HasSuffix(out, "line two</p>"), out)
}

func TestFormat_Headings(t *testing.T) {
	out := Format("## Summary\n\nBody")
	assert.Contains(t, out, "<h2")
	assert.Contains(t, out, "Summary</h2>")
	assert.NotContains(t, out, "id=", "heading ids are outside the allowlist")
}

func TestFormat_SanitizesRawHTMLAndLinks(t *testing.T) {
	out := Format(`Hello <script>alert(1)</script> <a href="javascript:alert(1)">x</a> [ok](https://example.com)`)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `<a href="https://example.com">ok</a>`)
}

func TestFormat_TablesLoseDisallowedTags(t *testing.T) {
	out := Format("| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.NotContains(t, out, "<table")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
}

func TestFormatInline(t *testing.T) {
	assert.Equal(t, "<em>hi</em> there", FormatInline("*hi* there"))
	assert.Equal(t, "plain", FormatInline("plain"))
}

func TestToPlainText(t *testing.T) {
	md := strings.Join([]string{
		"# Title",
		"Some **bold**, *italic* and `code`.",
		"See [the docs](https://example.com).",
		"- item one",
		"* item two",
		"1. first",
		"> quoted",
	}, "\n")

	want := strings.Join([]string{
		"Title",
		"Some bold, italic and code.",
		"See the docs.",
		"item one",
		"item two",
		"first",
		"quoted",
	}, "\n")
	assert.Equal(t, want, ToPlainText(md))
}

func TestToPlainText_TrimsSurroundingSpace(t *testing.T) {
	assert.Equal(t, "text", ToPlainText("\n\n  text  \n"))
}
