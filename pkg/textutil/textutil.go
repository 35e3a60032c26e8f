// Package textutil provides text checks shared by tree readers and
// renderers: binary sniffing and terminal-safe labels.
package textutil

import (
	"bytes"
	"strings"
	"unicode"
)

// BinarySniffLength is the number of leading bytes scanned for a NUL byte.
const BinarySniffLength = 8000

// IsBinary reports whether data has a NUL byte within its first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// ForTerminal flattens line breaks and tabs to spaces and drops other control
// characters, so node data cannot corrupt a table row.
func ForTerminal(input string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, input)
}

// Truncate shortens s to at most limit runes, marking the cut with an
// ellipsis. A non-positive limit disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	if limit == 1 {
		return "…"
	}

	return string(runes[:limit-1]) + "…"
}
