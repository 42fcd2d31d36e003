package summarycache

import (
	"bytes"
	"encoding/json"
	"unicode/utf16"

	"github.com/rohmanhakim/docuprism/pkg/hashutil"
)

// KeyHasher turns a string into a short fingerprint.
type KeyHasher func(s string) string

// DefaultHasher is the 32-bit rolling hash rendered in base 36.
// It is cheap and collisions are possible: a collision yields a false
// cache hit, which is accepted because the cache only saves work.
func DefaultHasher(s string) string {
	return hashutil.Rolling32(s)
}

// DeriveKey derives the cache key for text and opts with the default hasher.
func DeriveKey(text string, opts Options) string {
	return deriveKey(DefaultHasher, text, opts)
}

// deriveKey hashes the first keySampleLength UTF-16 code units of text and
// the canonical JSON form of opts, joined by "-".
func deriveKey(hasher KeyHasher, text string, opts Options) string {
	return hasher(textSample(text)) + "-" + hasher(canonicalOptions(opts))
}

func textSample(text string) string {
	// Fast path: every rune below U+10000 is a single code unit, and a
	// string of at most keySampleLength bytes has at most that many units.
	if len(text) <= keySampleLength {
		return text
	}
	units := utf16.Encode([]rune(text))
	if len(units) <= keySampleLength {
		return text
	}
	return string(utf16.Decode(units[:keySampleLength]))
}

// canonicalOptions renders opts as compact JSON with the field order
// type, format, length, context and without HTML escaping.
func canonicalOptions(opts Options) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Options holds only strings; Encode cannot fail.
	_ = enc.Encode(opts)
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
