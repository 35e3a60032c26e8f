package textutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cqfn/patternika-sub000/pkg/textutil"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	atBoundary := make([]byte, textutil.BinarySniffLength)
	atBoundary[textutil.BinarySniffLength-1] = 0x00

	beyond := bytes.Repeat([]byte("a"), textutil.BinarySniffLength+100)
	beyond[textutil.BinarySniffLength+50] = 0x00

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "nil", data: nil, want: false},
		{name: "text", data: []byte("type: Block\n"), want: false},
		{name: "nul inside", data: []byte("type\x00Block"), want: true},
		{name: "nul at start", data: []byte("\x00type"), want: true},
		{name: "nul at sniff boundary", data: atBoundary, want: true},
		{name: "nul beyond sniff window", data: beyond, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, textutil.IsBinary(tt.data), tt.name)
	}
}

func TestForTerminal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", textutil.ForTerminal("a\nb\tc\x1b"))
	assert.Equal(t, "x := 1", textutil.ForTerminal("x := 1"))
	assert.Equal(t, "a  b", textutil.ForTerminal("a\r\nb"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		limit int
		want  string
	}{
		{input: "identifier", limit: 0, want: "identifier"},
		{input: "identifier", limit: 10, want: "identifier"},
		{input: "identifier", limit: 6, want: "ident…"},
		{input: "héllo", limit: 3, want: "hé…"},
		{input: "abc", limit: 1, want: "…"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, textutil.Truncate(tt.input, tt.limit), "%q/%d", tt.input, tt.limit)
	}
}
