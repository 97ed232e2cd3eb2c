package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Document limits enforced by the catalog and the store.
const (
	// MinStoredContentLength is the shortest trimmed content a store accepts.
	MinStoredContentLength = 10

	// MinTitleLength is the shortest trimmed title accepted on create or update.
	MinTitleLength = 5

	// MaxTitleLength is the longest trimmed title accepted on create or update.
	MaxTitleLength = 200

	// MinContentLength is the shortest trimmed content accepted on create or update.
	MinContentLength = 50

	// PreviewLength is the number of content characters kept in a preview.
	PreviewLength = 200

	// Ellipsis marks text that was cut.
	Ellipsis = "..."
)

// Kind classifies a document.
type Kind string

// Available document kinds.
const (
	KindNormative Kind = "normative"
	KindProcedure Kind = "procedure"
	KindManual    Kind = "manual"
	KindPolicy    Kind = "policy"
	KindOther     Kind = "other"
)

// DefaultKind is used when a document is created without a kind.
const DefaultKind = KindNormative

// IsValid returns true if the kind is recognised.
func (k Kind) IsValid() bool {
	switch k {
	case KindNormative, KindProcedure, KindManual, KindPolicy, KindOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// AllKinds returns every document kind in display order.
func AllKinds() []Kind {
	return []Kind{KindNormative, KindProcedure, KindManual, KindPolicy, KindOther}
}

// Document is a stored normative text.
// Similarity is only set on search results and is never persisted.
type Document struct {
	// ID is assigned once at creation and never changes.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Content is the full document text.
	Content string `json:"content"`

	// Kind classifies the document.
	Kind Kind `json:"kind"`

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time `json:"created_at"`

	// Similarity is 1 - distance to the query vector.
	Similarity *float64 `json:"similarity,omitempty"`
}

// Validate checks the invariants every stored document must hold.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return &ValidationError{Field: "id", Constraint: "must not be empty"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Constraint: "must not be empty"}
	}
	if d.Kind == "" {
		return &ValidationError{Field: "kind", Constraint: "must not be empty"}
	}
	if CharCount(strings.TrimSpace(d.Content)) < MinStoredContentLength {
		return &ValidationError{Field: "content", Constraint: "must be at least 10 characters"}
	}
	return nil
}

// WithSimilarity returns a copy of the document carrying the given similarity.
func (d Document) WithSimilarity(similarity float64) Document {
	d.Similarity = &similarity
	return d
}

// Preview returns the listing form of the document.
func (d *Document) Preview() DocumentPreview {
	content, truncated := Truncate(d.Content, PreviewLength)
	if truncated {
		content += Ellipsis
	}
	return DocumentPreview{
		ID:        d.ID,
		Title:     d.Title,
		Content:   content,
		Kind:      d.Kind,
		CreatedAt: d.CreatedAt,
	}
}

// DocumentPreview is a document with its content cut for listings.
type DocumentPreview struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one slice of the catalog listing.
// Page and Size are zero when the listing was not paginated.
type Page struct {
	Documents []DocumentPreview `json:"documents"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Size      int               `json:"size"`
}

// CharCount returns the number of characters (runes) in s.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most n characters.
// It reports whether anything was removed.
func Truncate(s string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
