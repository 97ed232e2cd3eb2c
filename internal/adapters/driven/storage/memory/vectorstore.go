package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/ranking"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Contents are lost when the process exits.
type VectorStore struct {
	mu         sync.RWMutex
	metric     domain.DistanceMetric
	dimensions int
	entries    map[string]*ranking.Candidate
	nextSeq    int64
}

// NewVectorStore creates a new in-memory vector store.
// A zero dimensions value is fixed by the first stored vector.
func NewVectorStore(metric domain.DistanceMetric, dimensions int) *VectorStore {
	if !metric.IsValid() {
		metric = domain.DistanceCosine
	}
	return &VectorStore{
		metric:     metric,
		dimensions: dimensions,
		entries:    make(map[string]*ranking.Candidate),
	}
}

// Get retrieves a document by ID.
func (s *VectorStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := entry.Document
	return &doc, nil
}

// List returns every document in insertion order.
func (s *VectorStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.ordered()
	docs := make([]domain.Document, 0, len(ordered))
	for _, entry := range ordered {
		docs = append(docs, entry.Document)
	}
	return docs, nil
}

// Put inserts or overwrites a document. Overwrites keep the insertion position.
func (s *VectorStore) Put(_ context.Context, doc domain.Document, vector []float32) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	doc.Similarity = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ranking.CheckDimensions(vector, s.dimensions); err != nil {
		return "", err
	}
	if s.dimensions == 0 {
		s.dimensions = len(vector)
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	if existing, ok := s.entries[doc.ID]; ok {
		existing.Document = doc
		existing.Vector = stored
		return doc.ID, nil
	}

	s.nextSeq++
	s.entries[doc.ID] = &ranking.Candidate{Document: doc, Vector: stored, Seq: s.nextSeq}
	return doc.ID, nil
}

// Delete removes a document and reports whether it existed.
func (s *VectorStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

// Search returns the k most similar documents.
func (s *VectorStore) Search(_ context.Context, vector []float32, k int) ([]domain.Document, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return []domain.Document{}, nil
	}
	if err := ranking.CheckDimensions(vector, s.dimensions); err != nil {
		return nil, err
	}

	candidates := make([]ranking.Candidate, 0, len(s.entries))
	for _, entry := range s.entries {
		candidates = append(candidates, *entry)
	}
	return ranking.TopK(s.metric, vector, candidates, k), nil
}

// Count returns the number of stored documents.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Metric returns the distance metric.
func (s *VectorStore) Metric() domain.DistanceMetric {
	return s.metric
}

// Close releases resources (no-op for memory store).
func (s *VectorStore) Close() error {
	return nil
}

// ordered returns entries by ascending sequence. Caller holds the lock.
func (s *VectorStore) ordered() []*ranking.Candidate {
	ordered := make([]*ranking.Candidate, 0, len(s.entries))
	for _, entry := range s.entries {
		ordered = append(ordered, entry)
	}
	slices.SortFunc(ordered, func(a, b *ranking.Candidate) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return ordered
}
