package storage

// SummaryFile is a rendered summary ready to be written.
// source is the input path ("-" for standard input), key the cache key the
// summary is stored under, and ext the file extension without the dot.
type SummaryFile struct {
	source  string
	key     string
	content []byte
	ext     string
}

func NewSummaryFile(
	source string,
	key string,
	content []byte,
	ext string,
) SummaryFile {
	return SummaryFile{
		source:  source,
		key:     key,
		content: content,
		ext:     ext,
	}
}

func (s *SummaryFile) Source() string {
	return s.source
}

func (s *SummaryFile) Key() string {
	return s.key
}

func (s *SummaryFile) Content() []byte {
	return s.content
}

func (s *SummaryFile) Ext() string {
	return s.ext
}

// Persistence

type WriteResult struct {
	keyHash     string // identity suffix of the filename
	path        string
	contentHash string
}

func NewWriteResult(
	keyHash string,
	path string,
	contentHash string,
) WriteResult {
	return WriteResult{
		keyHash:     keyHash,
		path:        path,
		contentHash: contentHash,
	}
}

func (w *WriteResult) KeyHash() string {
	return w.keyHash
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) ContentHash() string {
	return w.contentHash
}
