package extractor

// noiseSelectors match page chrome that never belongs to the document body.
var noiseSelectors = []string{
	"script", "style", "noscript", "template", "iframe", "form",
	"nav", "header", "footer", "aside",
	"[role='navigation']", "[role='banner']", "[role='contentinfo']",
	".cookie-banner", ".cookie-consent", "#cookie-banner",
	".sidebar", ".toc", ".breadcrumbs", ".edit-link", ".version-selector",
}

// knownDocSelectors are content containers used by common documentation
// and blog generators, most generic first. They are tried when no
// semantic container holds meaningful content.
var knownDocSelectors = []string{
	".content",
	".doc-content",
	".markdown-body",
	"#docs-content",
	".theme-doc-markdown",
	".rst-content",
	".md-content",
	".book-body",
	".theme-default-content",
	".post-content",
	".article-content",
	".entry-content",
}
