// Package chunker splits long text into overlapping, size-bounded sections.
package chunker

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.ContentSplitter = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per section.
const DefaultChunkSize = 2000

// DefaultChunkOverlap is the default number of characters repeated at the
// start of the next section.
const DefaultChunkOverlap = 200

// Processor splits text into sections of at most chunkSize runes, preferring
// paragraph breaks, then whitespace, over a hard cut. A tail shorter than a
// quarter section is merged into the section before it.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the section size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between sections in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay under half a section so every step moves forward.
	if p.overlap*2 >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured section size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Split returns the sections of content. Sizes are counted in runes.
func (p *Processor) Split(content string) []string {
	runes := []rune(content)
	if len(runes) <= p.chunkSize {
		return []string{content}
	}

	minTail := p.chunkSize / 4
	var sections []string
	start := 0
	for start < len(runes) {
		end := start + p.chunkSize
		if end >= len(runes) || len(runes)-end < minTail {
			sections = appendSection(sections, runes[start:])
			break
		}

		end = p.breakPoint(runes, start, end)
		sections = appendSection(sections, runes[start:end])

		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return sections
}

// breakPoint moves end back to the last paragraph break, or failing that the
// last whitespace, in the second half of the window.
func (p *Processor) breakPoint(runes []rune, start, end int) int {
	floor := start + p.chunkSize/2
	for i := end - 1; i > floor; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i > floor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func appendSection(sections []string, runes []rune) []string {
	if s := strings.TrimSpace(string(runes)); s != "" {
		sections = append(sections, s)
	}
	return sections
}
