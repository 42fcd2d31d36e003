package document

const (
	MiB = 1024 * 1024

	DefaultMaxFileSize int64 = 10 * MiB
	MinTextLength            = 1
	MaxTextLength            = 1_000_000
)

// AcceptedExtensions are the file types a document may be loaded from.
// PDF and Word files pass validation but are rejected by the loader.
var AcceptedExtensions = []string{".txt", ".pdf", ".docx", ".doc", ".md", ".html", ".htm"}

var acceptedMimeTypes = []string{
	"text/plain",
	"text/markdown",
	"text/html",
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
}

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Document is the text of a loaded file, ready to summarize.
// CharCount counts UTF-16 code units so that limits agree with the cache key sample.
type Document struct {
	Path      string
	Title     string
	Text      string
	Format    Format
	WordCount int
	CharCount int
	LinkCount int
}
