package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/fileutil"
	"github.com/rohmanhakim/docuprism/pkg/hashutil"
)

/*
Responsibilities
- Persist saved analyses as a single JSON file
- Keep the newest analyses first, bounded by MaxAnalyses
- Report how much of the nominal quota is used

Output Characteristics
- Atomic rewrites (temp file + rename)
- A missing file reads as an empty history
- A corrupt file is reported, never silently replaced
*/
type Store struct {
	mu           sync.Mutex
	path         string
	param        Param
	metadataSink metadata.MetadataSink
	now          func() time.Time
	newID        func() string
}

// NewStore returns a Store that keeps its file in dataDir.
func NewStore(dataDir string, param Param, metadataSink metadata.MetadataSink) *Store {
	if param.MaxAnalyses < 1 {
		param.MaxAnalyses = DefaultMaxAnalyses
	}
	if param.PreviewLength < 1 {
		param.PreviewLength = DefaultPreviewLength
	}
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return &Store{
		path:         filepath.Join(dataDir, FileName),
		param:        param,
		metadataSink: metadataSink,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func (s *Store) Path() string {
	return s.path
}

// Save prepends a new analysis and drops the oldest ones beyond MaxAnalyses.
func (s *Store) Save(inputText string, summary string, opts Options) (Analysis, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		s.recordError("Store.Save", err)
		return Analysis{}, err
	}

	checksum, _ := hashutil.HashBytes([]byte(summary), hashutil.HashAlgoBLAKE3)
	analysis := Analysis{
		ID:        s.newID(),
		Timestamp: s.now().UnixMilli(),
		InputText: preview(inputText, s.param.PreviewLength),
		Summary:   summary,
		Options:   opts,
		Checksum:  checksum,
	}

	analyses := append([]Analysis{analysis}, existing...)
	if len(analyses) > s.param.MaxAnalyses {
		analyses = analyses[:s.param.MaxAnalyses]
	}

	if err := s.write(analyses); err != nil {
		s.recordError("Store.Save", err)
		return Analysis{}, err
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactHistory,
		s.path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrAnalysisID, analysis.ID),
			metadata.NewAttr(metadata.AttrWritePath, s.path),
		},
	)
	return analysis, nil
}

// List returns every stored analysis, newest first.
func (s *Store) List() ([]Analysis, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyses, err := s.load()
	if err != nil {
		s.recordError("Store.List", err)
		return nil, err
	}
	return analyses, nil
}

func (s *Store) Get(id string) (Analysis, bool, failure.ClassifiedError) {
	analyses, err := s.List()
	if err != nil {
		return Analysis{}, false, err
	}
	for _, a := range analyses {
		if a.ID == id {
			return a, true, nil
		}
	}
	return Analysis{}, false, nil
}

// Delete removes the analysis with id. It reports whether one was found.
func (s *Store) Delete(id string) (bool, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyses, err := s.load()
	if err != nil {
		s.recordError("Store.Delete", err)
		return false, err
	}

	kept := analyses[:0]
	for _, a := range analyses {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(analyses) {
		return false, nil
	}

	if err := s.write(kept); err != nil {
		s.recordError("Store.Delete", err)
		return false, err
	}
	return true, nil
}

// Clear removes the history file.
func (s *Store) Clear() failure.ClassifiedError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		herr := &HistoryError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseClearFailed,
			Path:      s.path,
		}
		s.recordError("Store.Clear", herr)
		return herr
	}
	return nil
}

// Info reports the size of the history file against EstimatedQuota.
// The percentage is capped at 100.
func (s *Store) Info() (Info, failure.ClassifiedError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	stat, err := os.Stat(s.path)
	switch {
	case err == nil:
		used = stat.Size()
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Info{}, &HistoryError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseLoadFailed,
			Path:      s.path,
		}
	}

	percentage := float64(used) / float64(EstimatedQuota) * 100
	if percentage > 100 {
		percentage = 100
	}
	return Info{
		Used:       used,
		Available:  EstimatedQuota,
		Percentage: percentage,
	}, nil
}

func (s *Store) load() ([]Analysis, *HistoryError) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Analysis{}, nil
	}
	if err != nil {
		return nil, &HistoryError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseLoadFailed,
			Path:      s.path,
		}
	}

	var analyses []Analysis
	if err := json.Unmarshal(data, &analyses); err != nil {
		return nil, &HistoryError{
			Message:   fmt.Sprintf("cannot decode %s: %v", s.path, err),
			Retryable: false,
			Cause:     ErrCauseCorrupt,
			Path:      s.path,
		}
	}
	if analyses == nil {
		analyses = []Analysis{}
	}
	return analyses, nil
}

func (s *Store) write(analyses []Analysis) *HistoryError {
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return &HistoryError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseSaveFailed,
			Path:      s.path,
		}
	}
	if ferr := fileutil.WriteFileAtomic(s.path, data, 0o600); ferr != nil {
		return &HistoryError{
			Message:   ferr.Error(),
			Retryable: false,
			Cause:     ErrCauseSaveFailed,
			Path:      s.path,
		}
	}
	return nil
}

func (s *Store) recordError(action string, err *HistoryError) {
	s.metadataSink.RecordError(
		time.Now(),
		"history",
		action,
		mapHistoryErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrPath, err.Path),
		},
	)
}

func preview(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
