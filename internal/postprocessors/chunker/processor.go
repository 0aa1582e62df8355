// Package chunker splits page text into overlapping chunks that carry their
// start offset in the original text.
package chunker

import (
	"unicode"

	"github.com/custodia-labs/vecseed/internal/core/domain"
)

// separators are tried in order when looking for a chunk boundary.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// Span is one chunk of text.
type Span struct {
	// Text is the chunk with surrounding whitespace trimmed.
	Text string

	// Start is the offset of Text in the original string, in runes.
	Start int
}

// Splitter splits text into chunks of at most chunkSize runes.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split breaks text into spans. Boundaries prefer paragraph breaks, then
// line breaks, sentence ends and spaces, falling back to a hard cut.
// Whitespace-only text produces no spans.
func (s *Splitter) Split(text string) []Span {
	runes := []rune(text)
	n := len(runes)

	start := skipSpace(runes, 0)
	if start >= n {
		return nil
	}

	spans := make([]Span, 0, n/(s.chunkSize-s.overlap)+1)
	for start < n {
		end := n
		if start+s.chunkSize < n {
			end = s.boundary(runes, start, start+s.chunkSize)
		}

		chunkEnd := end
		for chunkEnd > start && unicode.IsSpace(runes[chunkEnd-1]) {
			chunkEnd--
		}
		if chunkEnd > start {
			spans = append(spans, Span{Text: string(runes[start:chunkEnd]), Start: start})
		}
		if end >= n {
			break
		}

		next := s.overlapStart(runes, start, end)
		start = skipSpace(runes, next)
	}

	return spans
}

// boundary returns the end of a chunk starting at start, no later than limit.
// A separator is only accepted in the back half of the window so chunks do
// not get too small.
func (s *Splitter) boundary(runes []rune, start, limit int) int {
	floor := start + s.chunkSize/2
	for _, sep := range separators {
		for i := limit - len(sep); i >= floor; i-- {
			if hasPrefixAt(runes, i, sep) {
				return i + len(sep)
			}
		}
	}
	return limit
}

// overlapStart steps back from end by the overlap and moves forward to the
// next word start so the overlap does not begin mid-word.
func (s *Splitter) overlapStart(runes []rune, start, end int) int {
	next := end - s.overlap
	if next <= start {
		return end
	}
	if unicode.IsSpace(runes[next-1]) {
		return next
	}
	for i := next; i < end; i++ {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return next
}

func skipSpace(runes []rune, i int) int {
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

func hasPrefixAt(runes []rune, i int, sep []rune) bool {
	if i < 0 || i+len(sep) > len(runes) {
		return false
	}
	for j, r := range sep {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}
