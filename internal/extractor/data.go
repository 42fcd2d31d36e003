package extractor

import "golang.org/x/net/html"

// ExtractionResult holds the extraction outcome.
// Title comes from <title>, falling back to the first <h1>.
// ContentNode is the node holding the document body, with noise removed.
type ExtractionResult struct {
	Title       string
	ContentNode *html.Node
}
