// Package chunker splits normalized document text into overlapping chunks
// along sentence and word boundaries.
package chunker

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize is the window size in characters.
	DefaultChunkSize = 500

	// DefaultOverlap is the number of characters shared by consecutive windows.
	DefaultOverlap = 50

	// boundaryLookback is how far back from a window end a sentence terminator is searched for.
	boundaryLookback = 100
)

// ErrInvalidOverlap is returned when overlap would prevent the window from advancing.
var ErrInvalidOverlap = errors.New("overlap must be smaller than chunk size")

// Chunker splits text into overlapping windows of at most Size characters.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Zero values select the defaults (500/50).
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidOverlap, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the configured window size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks text with the chunker's parameters.
func (c *Chunker) Split(text string) []string {
	return Split(text, c.size, c.overlap)
}

// Split cuts text into trimmed, non-empty chunks of at most size characters.
// Characters are runes, so multi-byte text is never cut mid-character.
//
// Each window that ends before the end of the text is shortened to the last '.'
// within its final 100 characters, or failing that to its last space. The next
// window starts overlap characters before the previous window's end, and the
// scan stops once that start reaches the end of the text. A window running past
// the end therefore still yields a short tail chunk when its overlapped start
// falls inside the text. Callers must ensure overlap < size.
func Split(text string, size, overlap int) []string {
	runes := []rune(text)
	n := len(runes)
	if n <= size {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	var chunks []string
	start := 0
	for start < n {
		end := start + size
		if end < n {
			end = cutPoint(runes, start, end)
		}

		if chunk := strings.TrimSpace(string(runes[start:min(end, n)])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			// A boundary very close to the window start would stall the scan.
			next = end
		}
		start = next
	}
	return chunks
}

// cutPoint picks the exclusive end of the window [start, end).
func cutPoint(runes []rune, start, end int) int {
	searchStart := max(start, end-boundaryLookback)
	if i := lastIndex(runes[searchStart:end], '.'); i > 0 {
		return searchStart + i + 1
	}
	if i := lastIndex(runes[start:end], ' '); i > 0 {
		return start + i
	}
	return end
}

func lastIndex(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
