package document

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rohmanhakim/docuprism/internal/extractor"
	"github.com/rohmanhakim/docuprism/internal/mdconvert"
	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/fileutil"
)

/*
Responsibilities
- Validate a file before reading it (size, type)
- Turn its content into plain or markdown text
- Reject empty and oversized text

Supported Inputs
- .txt and .md are read verbatim
- .html and .htm are reduced to their main content and converted to markdown
- .pdf, .docx and .doc are recognised but not parsed
*/
type Loader struct {
	maxFileSize  int64
	extractor    extractor.DomExtractor
	converter    mdconvert.ConvertRule
	metadataSink metadata.MetadataSink
}

// NewLoader returns a Loader. A non-positive maxFileSize means DefaultMaxFileSize.
func NewLoader(maxFileSize int64, metadataSink metadata.MetadataSink) *Loader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return &Loader{
		maxFileSize:  maxFileSize,
		extractor:    extractor.NewDomExtractor(metadataSink),
		converter:    mdconvert.NewRule(metadataSink),
		metadataSink: metadataSink,
	}
}

// Load validates and reads the file at path.
func (l *Loader) Load(path string) (Document, failure.ClassifiedError) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, l.fail(path, readError(path, err))
	}
	if info.IsDir() {
		return Document{}, l.fail(path, newDocumentError(ErrCauseReadFailed, "%s is a directory", path))
	}
	if verr := ValidateFileSize(info.Size(), l.maxFileSize); verr != nil {
		return Document{}, l.fail(path, verr.(*DocumentError))
	}
	if verr := ValidateFileType(filepath.Base(path), "", nil); verr != nil {
		return Document{}, l.fail(path, verr.(*DocumentError))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, l.fail(path, readError(path, err))
	}
	return l.Parse(path, data)
}

// Parse turns data into a Document, choosing the reader from the
// extension of name.
func (l *Loader) Parse(name string, data []byte) (Document, failure.ClassifiedError) {
	if int64(len(data)) > l.maxFileSize {
		return Document{}, l.fail(name, ValidateFileSize(int64(len(data)), l.maxFileSize).(*DocumentError))
	}

	doc := Document{Path: name}
	switch ext := strings.ToLower(fileutil.GetFileExtension(name)); ext {
	case "txt", "":
		doc.Format = FormatText
		doc.Text = string(data)
	case "md", "markdown":
		doc.Format = FormatMarkdown
		doc.Text = string(data)
	case "html", "htm":
		extracted, err := l.extractor.Extract(name, data)
		if err != nil {
			return Document{}, l.fail(name, newDocumentError(ErrCauseEmpty,
				"File appears to be empty or could not be read"))
		}
		converted, err := l.converter.Convert(name, extracted.ContentNode)
		if err != nil {
			return Document{}, l.fail(name, newDocumentError(ErrCauseConversionFailed,
				"Failed to convert HTML: %v", err))
		}
		doc.Format = FormatHTML
		doc.Title = extracted.Title
		doc.Text = string(converted.GetMarkdownContent())
		doc.LinkCount = len(converted.GetLinkRefs())
	case "pdf":
		return Document{}, l.fail(name, newDocumentError(ErrCauseUnsupportedFormat,
			"PDF files are not yet supported"))
	case "docx":
		return Document{}, l.fail(name, newDocumentError(ErrCauseUnsupportedFormat,
			"DOCX files are not yet supported"))
	case "doc":
		return Document{}, l.fail(name, newDocumentError(ErrCauseUnsupportedFormat,
			"Legacy .doc format is not supported. Please convert to .docx or PDF format."))
	default:
		return Document{}, l.fail(name, newDocumentError(ErrCauseUnsupportedFormat,
			"Unsupported file type: .%s. Supported formats: TXT, MD, HTML", ext))
	}

	doc.Text = strings.TrimSpace(doc.Text)
	if doc.Text == "" {
		return Document{}, l.fail(name, newDocumentError(ErrCauseEmpty,
			"File appears to be empty or could not be read"))
	}
	if verr := ValidateTextLength(doc.Text, MinTextLength, MaxTextLength); verr != nil {
		return Document{}, l.fail(name, verr.(*DocumentError))
	}

	doc.WordCount = len(strings.Fields(doc.Text))
	doc.CharCount = utf16Len(doc.Text)
	return doc, nil
}

func readError(path string, err error) *DocumentError {
	if errors.Is(err, fs.ErrNotExist) {
		return newDocumentError(ErrCauseReadFailed, "File not found: %s", path)
	}
	return newDocumentError(ErrCauseReadFailed, "Failed to read file: %v", err)
}

func (l *Loader) fail(path string, err *DocumentError) *DocumentError {
	err.Path = path
	l.metadataSink.RecordError(
		time.Now(),
		"document",
		"Loader.Load",
		mapDocumentErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrPath, path),
		},
	)
	return err
}
