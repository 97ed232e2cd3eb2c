package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// NoDocumentsContext is the context text used when retrieval found nothing.
const NoDocumentsContext = "No relevant documents found."

// ContextContentLength is the number of content characters kept per document.
const ContextContentLength = 500

// ContextAssembler renders retrieved documents into the text block placed in
// the generation prompt.
type ContextAssembler struct {
	contentLength int
}

// NewContextAssembler creates an assembler that keeps ContextContentLength
// characters of each document.
func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{contentLength: ContextContentLength}
}

// Build renders documents in the order given, numbering them from 1.
// Each block is "Document {i} - {title}:\n{content}\n" with content cut to the
// first 500 characters (plus an ellipsis when cut); blocks are separated by a
// blank line.
func (a *ContextAssembler) Build(docs []domain.Document) string {
	if len(docs) == 0 {
		return NoDocumentsContext
	}

	blocks := make([]string, 0, len(docs))
	for i := range docs {
		content, truncated := domain.Truncate(docs[i].Content, a.contentLength)
		if truncated {
			content += domain.Ellipsis
		}
		blocks = append(blocks, fmt.Sprintf("Document %d - %s:\n%s\n", i+1, docs[i].Title, content))
	}
	return strings.Join(blocks, "\n")
}
