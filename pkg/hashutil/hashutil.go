package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf16"

	"lukechampine.com/blake3"
)

type HashAlgo string

const (
	HashAlgoSHA256    = "sha256"
	HashAlgoBLAKE3    = "blake3"
	HashAlgoRolling32 = "rolling32"
)

// HashBytes returns the hash of bytes as a hex string using the specified algorithm.
// Supported algorithms: "sha256" and "blake3".
func HashBytes(data []byte, algo HashAlgo) (string, error) {
	switch algo {
	case HashAlgoSHA256:
		return hashBytesSha256(data), nil
	case HashAlgoBLAKE3:
		return hashBytesBlake3(data), nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
}

// HashString hashes s with the given algorithm.
// "rolling32" works on the UTF-16 code units of s and renders base-36;
// the cryptographic algorithms hash the UTF-8 bytes and render hex.
func HashString(s string, algo HashAlgo) (string, error) {
	if algo == HashAlgoRolling32 {
		return Rolling32(s), nil
	}
	return HashBytes([]byte(s), algo)
}

// Rolling32 computes the classic h = h*31 + c string hash over the UTF-16
// code units of s, wrapping at signed 32 bits, and renders it in base 36.
// Negative hashes keep their minus sign.
//
// This is not collision resistant. It is meant for cheap cache fingerprints.
func Rolling32(s string) string {
	return strconv.FormatInt(int64(Rolling32Units(utf16.Encode([]rune(s)))), 36)
}

// Rolling32Units is Rolling32 over already-encoded UTF-16 code units.
func Rolling32Units(units []uint16) int32 {
	var h int32
	for _, u := range units {
		h = h*31 + int32(u)
	}
	return h
}

func hashBytesSha256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func hashBytesBlake3(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}
