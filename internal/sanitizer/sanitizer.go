package sanitizer

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

/*
Responsibilities
- Make model-produced HTML safe to render
- Escape plain text for HTML output
- Recover the text content of an HTML fragment

Allowlist
- Elements: h1-h6, p, br, strong, em, code, ul, ol, li, blockquote, a, pre
- Attributes: class on any allowed element, href and title on a
- Link schemes: http, https, mailto

Disallowed elements are dropped and their text is kept. Script and style
content is dropped entirely.
*/

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared allowlist policy. bluemonday policies are safe
// for concurrent use once built.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = newPolicy()
	})
	return policy
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "strong", "em", "code",
		"ul", "ol", "li", "blockquote",
		"a", "pre",
	)
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(false)
	p.RequireParseableURLs(true)
	return p
}

// SanitizeHTML returns input with everything outside the allowlist removed.
func SanitizeHTML(input string) string {
	return Policy().Sanitize(input)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes text so it renders literally inside element content.
// Quotes are left alone; the result is not safe inside attribute values.
func EscapeHTML(text string) string {
	return textEscaper.Replace(text)
}

// StripHTML returns the text content of an HTML fragment with all markup
// removed and entities decoded.
func StripHTML(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return input
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return input
	}
	return doc.Text()
}
