package document

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/rohmanhakim/docuprism/pkg/failure"
)

// ValidateFileSize rejects files larger than maxBytes.
func ValidateFileSize(size, maxBytes int64) failure.ClassifiedError {
	if size > maxBytes {
		return newDocumentError(ErrCauseTooLarge,
			"File size (%s) exceeds maximum allowed size (%sMB)",
			FormatFileSize(size),
			strconv.FormatFloat(float64(maxBytes)/MiB, 'f', -1, 64),
		)
	}
	return nil
}

// ValidateFileType accepts a file whose name ends with one of allowed, or
// whose MIME type is a known document type. An empty allowed list means
// AcceptedExtensions.
func ValidateFileType(name, mimeType string, allowed []string) failure.ClassifiedError {
	if len(allowed) == 0 {
		allowed = AcceptedExtensions
	}
	lowerName := strings.ToLower(name)
	for _, ext := range allowed {
		if strings.HasSuffix(lowerName, strings.ToLower(ext)) {
			return nil
		}
	}
	if slices.Contains(acceptedMimeTypes, strings.ToLower(mimeType)) {
		return nil
	}
	return newDocumentError(ErrCauseUnsupportedFormat,
		"Unsupported file type. Allowed formats: %s", strings.Join(allowed, ", "))
}

// ValidateTextLength checks the trimmed length of text, in UTF-16 code
// units, against [minLen, maxLen].
func ValidateTextLength(text string, minLen, maxLen int) failure.ClassifiedError {
	length := utf16Len(strings.TrimSpace(text))
	if length < minLen {
		return newDocumentError(ErrCauseTooShort,
			"Text is too short. Minimum %d characters required.", minLen)
	}
	if length > maxLen {
		return newDocumentError(ErrCauseTooLong,
			"Text is too long. Maximum %d characters allowed.", maxLen)
	}
	return nil
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with two decimals in the largest
// binary unit up to GB, e.g. "1.50 KB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[unit])
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
