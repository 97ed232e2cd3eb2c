// Package postgres provides a PostgreSQL + pgvector implementation of driven.VectorStore.
//
// Ranking runs inside the database with the pgvector distance operators.
// Ties on distance are broken by the insertion sequence so results match
// the other backends.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Config holds configuration for the PostgreSQL store.
type Config struct {
	// DSN is the connection string (required).
	DSN string

	// Metric is the distance metric (default: cosine).
	Metric domain.DistanceMetric

	// Dimensions is the vector column size (required).
	Dimensions int
}

// Store is a PostgreSQL-backed vector store.
type Store struct {
	db         *sql.DB
	metric     domain.DistanceMetric
	dimensions int
}

// NewStore connects to PostgreSQL and ensures the schema exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres: DSN is required")
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, unavailable("open database", err)
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	store, err := NewStoreFromDB(ctx, db, cfg.Metric, cfg.Dimensions)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStoreFromDB reuses an existing *sql.DB.
func NewStoreFromDB(ctx context.Context, db *sql.DB, metric domain.DistanceMetric, dimensions int) (*Store, error) {
	if db == nil {
		return nil, errors.New("postgres: db is required")
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("postgres: dimensions must be positive, got %d", dimensions)
	}
	if !metric.IsValid() {
		metric = domain.DistanceCosine
	}
	s := &Store{db: db, metric: metric, dimensions: dimensions}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS documents (
  seq        bigserial PRIMARY KEY,
  id         text NOT NULL UNIQUE,
  title      text NOT NULL,
  content    text NOT NULL,
  kind       text NOT NULL,
  created_at timestamptz NOT NULL,
  embedding  vector(%d) NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_kind_idx ON documents (kind);
`, s.dimensions)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return unavailable("ensure schema", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, kind, created_at FROM documents WHERE id = $1`, id)

	var doc domain.Document
	var kind string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &kind, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, unavailable("get document", err)
	}
	doc.Kind = domain.Kind(kind)
	return &doc, nil
}

// List returns every document in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, kind, created_at FROM documents ORDER BY seq`)
	if err != nil {
		return nil, unavailable("list documents", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		var kind string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &kind, &doc.CreatedAt); err != nil {
			return nil, unavailable("scan document", err)
		}
		doc.Kind = domain.Kind(kind)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list documents", err)
	}
	return docs, nil
}

// Put inserts or overwrites a document. Overwrites keep the insertion position.
func (s *Store) Put(ctx context.Context, doc domain.Document, vector []float32) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	if len(vector) != s.dimensions {
		return "", domain.ErrDimensionMismatch
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO documents (id, title, content, kind, created_at, embedding)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  content = EXCLUDED.content,
  kind = EXCLUDED.kind,
  created_at = EXCLUDED.created_at,
  embedding = EXCLUDED.embedding`,
		doc.ID, doc.Title, doc.Content, string(doc.Kind), doc.CreatedAt.UTC(), pgvector.NewVector(vector))
	if err != nil {
		return "", unavailable("upsert document", err)
	}
	return doc.ID, nil
}

// Delete removes a document and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, unavailable("delete document", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("delete document", err)
	}
	return n > 0, nil
}

// Search returns the k most similar documents.
func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]domain.Document, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	if len(vector) != s.dimensions {
		return nil, domain.ErrDimensionMismatch
	}

	query := fmt.Sprintf(`
SELECT id, title, content, kind, created_at, embedding %s $1 AS distance
FROM documents
ORDER BY distance, seq
LIMIT $2`, s.operator())

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, unavailable("search documents", err)
	}
	defer rows.Close()

	results := make([]domain.Document, 0, k)
	for rows.Next() {
		var doc domain.Document
		var kind string
		var distance float64
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &kind, &doc.CreatedAt, &distance); err != nil {
			return nil, unavailable("scan document", err)
		}
		doc.Kind = domain.Kind(kind)
		results = append(results, doc.WithSimilarity(1-distance))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("search documents", err)
	}
	return results, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, unavailable("count documents", err)
	}
	return n, nil
}

// Metric returns the distance metric.
func (s *Store) Metric() domain.DistanceMetric {
	return s.metric
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// operator returns the pgvector distance operator for the metric.
func (s *Store) operator() string {
	if s.metric == domain.DistanceL2 {
		return "<->"
	}
	return "<=>"
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}
