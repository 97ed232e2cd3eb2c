package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
	"github.com/custodia-labs/normaq/internal/logger"
)

// Ensure DocumentCatalog implements the interface.
var _ driving.DocumentCatalog = (*DocumentCatalog)(nil)

// documentIDPrefix starts every generated document id.
const documentIDPrefix = "doc_"

// DocumentCatalog manages stored documents: listing, creation and edits.
type DocumentCatalog struct {
	store    driven.VectorStore
	embedder driven.EmbeddingProvider
	locks    *keyedMutex
	newID    func() string
	now      func() time.Time
}

// NewDocumentCatalog creates a new catalog over the given store.
// The embedder is used for every write; the same provider must back the
// retrieval pipeline so all vectors come from one model.
func NewDocumentCatalog(store driven.VectorStore, embedder driven.EmbeddingProvider) *DocumentCatalog {
	return &DocumentCatalog{
		store:    store,
		embedder: embedder,
		locks:    newKeyedMutex(),
		newID:    newDocumentID,
		now:      time.Now,
	}
}

// newDocumentID returns "doc_" followed by 8 hex characters.
func newDocumentID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return documentIDPrefix + hex[:8]
}

// List returns document previews, paginated when both page and size are set.
func (c *DocumentCatalog) List(ctx context.Context, page, size *int) (*domain.Page, error) {
	docs, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	result := &domain.Page{Total: len(docs)}
	if page != nil && size != nil {
		result.Page = max(*page, 1)
		result.Size = max(*size, 1)
		docs = paginate(docs, result.Page, result.Size)
	}

	result.Documents = make([]domain.DocumentPreview, 0, len(docs))
	for i := range docs {
		result.Documents = append(result.Documents, docs[i].Preview())
	}
	return result, nil
}

// paginate returns docs[(page-1)*size : page*size], clipped to the slice.
func paginate(docs []domain.Document, page, size int) []domain.Document {
	if page-1 > len(docs)/size {
		return nil
	}
	start := (page - 1) * size
	if start >= len(docs) {
		return nil
	}
	end := min(start+size, len(docs))
	return docs[start:end]
}

// Get returns the full document.
func (c *DocumentCatalog) Get(ctx context.Context, id string) (*domain.Document, error) {
	return c.store.Get(ctx, id)
}

// GetPreview returns the listing form of a document.
func (c *DocumentCatalog) GetPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	doc, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	preview := doc.Preview()
	return &preview, nil
}

// Create validates, embeds and stores a new document.
func (c *DocumentCatalog) Create(ctx context.Context, req driving.CreateDocumentRequest) (string, error) {
	doc, err := c.newDocument(req)
	if err != nil {
		return "", err
	}

	unlock := c.locks.Lock(doc.ID)
	defer unlock()

	vector, err := c.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	id, err := c.store.Put(ctx, doc, vector)
	if err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}

	logger.Debug("Created document %s (%s)", id, doc.Kind)
	return id, nil
}

// Import validates every request, embeds all contents in one batch and
// stores the documents in request order.
func (c *DocumentCatalog) Import(ctx context.Context, reqs []driving.CreateDocumentRequest) ([]string, error) {
	if len(reqs) == 0 {
		return []string{}, nil
	}

	docs := make([]domain.Document, 0, len(reqs))
	texts := make([]string, 0, len(reqs))
	for i, req := range reqs {
		doc, err := c.newDocument(req)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		docs = append(docs, doc)
		texts = append(texts, doc.Content)
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: got %d vectors for %d documents",
			domain.ErrEmbeddingFailed, len(vectors), len(docs))
	}

	ids := make([]string, 0, len(docs))
	for i := range docs {
		id, err := c.store.Put(ctx, docs[i], vectors[i])
		if err != nil {
			return ids, fmt.Errorf("store document %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}

	logger.Info("Imported %d documents", len(ids))
	return ids, nil
}

// Update changes the supplied fields and re-embeds the document.
// Concurrent updates of the same id are serialised.
func (c *DocumentCatalog) Update(
	ctx context.Context, id string, req driving.UpdateDocumentRequest,
) (*domain.Document, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	doc, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		doc.Title = title
	}
	if req.Content != nil {
		content, err := validateContent(*req.Content)
		if err != nil {
			return nil, err
		}
		doc.Content = content
	}
	if req.Kind != nil {
		kind, err := validateKind(*req.Kind)
		if err != nil {
			return nil, err
		}
		doc.Kind = kind
	}

	vector, err := c.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingFailed, err)
	}

	if _, err := c.store.Put(ctx, *doc, vector); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	logger.Debug("Updated document %s", id)
	return doc, nil
}

// Delete removes a document.
func (c *DocumentCatalog) Delete(ctx context.Context, id string) error {
	unlock := c.locks.Lock(id)
	defer unlock()

	existed, err := c.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if !existed {
		return domain.ErrNotFound
	}

	logger.Debug("Deleted document %s", id)
	return nil
}

// Count returns the number of stored documents.
func (c *DocumentCatalog) Count(ctx context.Context) (int, error) {
	return c.store.Count(ctx)
}

// newDocument validates a create request and builds the document to store.
func (c *DocumentCatalog) newDocument(req driving.CreateDocumentRequest) (domain.Document, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return domain.Document{}, err
	}
	content, err := validateContent(req.Content)
	if err != nil {
		return domain.Document{}, err
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.DefaultKind
	}
	if kind, err = validateKind(kind); err != nil {
		return domain.Document{}, err
	}

	return domain.Document{
		ID:        c.newID(),
		Title:     title,
		Content:   content,
		Kind:      kind,
		CreatedAt: c.now().UTC(),
	}, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := domain.CharCount(title)
	if n < domain.MinTitleLength || n > domain.MaxTitleLength {
		return "", &domain.ValidationError{
			Field: "title",
			Constraint: fmt.Sprintf("must be between %d and %d characters",
				domain.MinTitleLength, domain.MaxTitleLength),
		}
	}
	return title, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if domain.CharCount(content) < domain.MinContentLength {
		return "", &domain.ValidationError{
			Field:      "content",
			Constraint: fmt.Sprintf("must be at least %d characters", domain.MinContentLength),
		}
	}
	return content, nil
}

func validateKind(kind domain.Kind) (domain.Kind, error) {
	if !kind.IsValid() {
		return "", &domain.ValidationError{
			Field:      "kind",
			Constraint: "must be one of normative, procedure, manual, policy, other",
		}
	}
	return kind, nil
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
