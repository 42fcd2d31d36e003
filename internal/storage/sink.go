package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/fileutil"
	"github.com/rohmanhakim/docuprism/pkg/hashutil"
)

/*
Responsibilities
- Persist rendered summaries next to each other in one directory
- Ensure deterministic filenames

Output Characteristics
- Filename is <source stem>-<12 hex chars of the key hash>.<ext>
- Idempotent writes: the same document and options land in the same file
- Overwrite-safe reruns
*/

type Sink interface {
	Write(
		outputDir string,
		file SummaryFile,
		hashAlgo hashutil.HashAlgo,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
) LocalSink {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return LocalSink{
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(
	outputDir string,
	file SummaryFile,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(outputDir, file, hashAlgo)
	if err != nil {
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrPath, file.Source()),
				metadata.NewAttr(metadata.AttrWritePath, err.Path),
			},
		)
		return WriteResult{}, err
	}

	kind := metadata.ArtifactSummary
	if file.Ext() == "html" {
		kind = metadata.ArtifactRendered
	}
	s.metadataSink.RecordArtifact(
		kind,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrPath, file.Source()),
			metadata.NewAttr(metadata.AttrField, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

func write(
	outputDir string,
	file SummaryFile,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, *StorageError) {
	keyHashFull, err := hashutil.HashBytes([]byte(file.Key()), hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
			Path:      "",
		}
	}
	keyHash := keyHashFull[:12]

	contentHash, err := hashutil.HashBytes(file.Content(), hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
			Path:      "",
		}
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      outputDir,
		}
	}

	filename := stem(file.Source()) + "-" + keyHash + "." + file.Ext()
	fullPath := filepath.Join(outputDir, filename)

	if err := os.WriteFile(fullPath, file.Content(), 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true // disk full is retryable
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      fullPath,
		}
	}

	return NewWriteResult(keyHash, fullPath, contentHash), nil
}

// stem reduces a source path to a filename-safe base name without
// extension. Standard input becomes "stdin".
func stem(source string) string {
	if source == "" || source == "-" {
		return "stdin"
	}
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, base)
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return "document"
	}
	return cleaned
}
