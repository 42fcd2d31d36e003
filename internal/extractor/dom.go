package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Parse an HTML document into a DOM tree
- Remove page chrome and noise
- Isolate the document body

Extraction Strategy
- Priority order:
	- Semantic containers (main, article, [role=main])
	- Known documentation containers
	- The whole <body>

Only content relevant to the document body may pass through.
*/

type DomExtractor struct {
	metadataSink metadata.MetadataSink
}

func NewDomExtractor(
	metadataSink metadata.MetadataSink,
) DomExtractor {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return DomExtractor{
		metadataSink: metadataSink,
	}
}

// Extract parses htmlByte and returns the title and content node.
// source names the input in metadata, usually a file path.
func (d *DomExtractor) Extract(
	source string,
	htmlByte []byte,
) (ExtractionResult, failure.ClassifiedError) {
	result, err := extract(htmlByte)
	if err != nil {
		var extractionError *ExtractionError
		errors.As(err, &extractionError)
		d.metadataSink.RecordError(
			time.Now(),
			"extractor",
			"DomExtractor.Extract",
			mapExtractionErrorToMetadataCause(extractionError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrPath, source),
			},
		)
		return ExtractionResult{}, extractionError
	}
	return result, nil
}

func extract(htmlByte []byte) (ExtractionResult, error) {
	doc, err := html.Parse(bytes.NewReader(htmlByte))
	if err != nil {
		return ExtractionResult{}, &ExtractionError{
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	gqDoc := goquery.NewDocumentFromNode(doc)
	title := extractTitle(gqDoc)

	gqDoc.Find(strings.Join(noiseSelectors, ", ")).Remove()

	contentNode := extractContainer(gqDoc)
	if contentNode == nil || !hasText(contentNode) {
		return ExtractionResult{}, &ExtractionError{
			Message:   "document has no text content",
			Retryable: false,
			Cause:     ErrCauseNoContent,
		}
	}

	return ExtractionResult{
		Title:       title,
		ContentNode: contentNode,
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("head title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// extractContainer returns the first meaningful semantic or known
// container, or <body> when none qualifies.
func extractContainer(doc *goquery.Document) *html.Node {
	for _, selector := range []string{"main", "article", "[role='main']"} {
		if node := firstMeaningful(doc, selector); node != nil {
			return node
		}
	}
	for _, selector := range knownDocSelectors {
		if node := firstMeaningful(doc, selector); node != nil {
			return node
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body.Nodes[0]
	}
	return nil
}

func firstMeaningful(doc *goquery.Document, selector string) *html.Node {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	if node := sel.Nodes[0]; isMeaningful(node) {
		return node
	}
	return nil
}

func hasText(node *html.Node) bool {
	return strings.TrimSpace(goquery.NewDocumentFromNode(node).Text()) != ""
}

// isMeaningful reports whether a container holds real prose rather than
// navigation: enough non-whitespace text, low link density, and at least a
// paragraph, a code block, or a heading.
func isMeaningful(node *html.Node) bool {
	if node == nil {
		return false
	}

	var stats struct {
		textLength     int
		nonWhitespace  int
		headings       int
		paragraphs     int
		codeBlocks     int
		links          int
		linkTextLength int
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			stats.textLength += len(n.Data)
			for _, r := range n.Data {
				if !unicode.IsSpace(r) {
					stats.nonWhitespace++
				}
			}
		case html.ElementNode:
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				stats.headings++
			case "p":
				stats.paragraphs++
			case "pre", "code":
				stats.codeBlocks++
			case "a":
				stats.links++
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode {
						stats.linkTextLength += len(strings.TrimSpace(c.Data))
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	const (
		minNonWhitespace = 50
		maxLinkDensity   = 0.8
	)

	if stats.nonWhitespace < minNonWhitespace {
		return false
	}
	if stats.textLength > 0 && stats.links > 2 {
		if float64(stats.linkTextLength)/float64(stats.textLength) > maxLinkDensity {
			return false
		}
	}
	return stats.paragraphs > 0 || stats.codeBlocks > 0 || (stats.headings > 0 && stats.nonWhitespace >= 20)
}
