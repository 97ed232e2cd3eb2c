package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/ranking"
	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DatabaseFile is the file name inside the data directory.
const DatabaseFile = "normaq.db"

const metaDimensions = "dimensions"

// Store is a SQLite-based vector store.
type Store struct {
	db     *sql.DB
	path   string
	metric domain.DistanceMetric

	// SQLite allows one writer at a time; writes queue here instead of
	// failing with SQLITE_BUSY. Reads are not blocked.
	writeMu sync.Mutex
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.normaq/data/normaq.db.
func NewStore(dataDir string, metric domain.DistanceMetric) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".normaq", "data")
	}
	if !metric.IsValid() {
		metric = domain.DistanceCosine
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// WAL lets readers run alongside the writer. Write transactions take the
	// lock at BEGIN so a read-then-write never needs an upgrade.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:     db,
		path:   dbPath,
		metric: metric,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrStoreUnavailable, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Metric returns the distance metric.
func (s *Store) Metric() domain.DistanceMetric {
	return s.metric
}

// Get retrieves a document by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, kind, created_at FROM documents WHERE id = ?`, id)

	var doc domain.Document
	var kind, createdAt string
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &kind, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, unavailable("get document", err)
	}
	doc.Kind = domain.Kind(kind)
	doc.CreatedAt = parseTime(createdAt)
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
		var kind, createdAt string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &kind, &createdAt); err != nil {
			return nil, unavailable("scan document", err)
		}
		doc.Kind = domain.Kind(kind)
		doc.CreatedAt = parseTime(createdAt)
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

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	dims, err := dimensions(ctx, tx)
	if err != nil {
		return "", err
	}
	if err := ranking.CheckDimensions(vector, dims); err != nil {
		return "", err
	}
	if dims == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO store_meta (key, value) VALUES (?, ?)`,
			metaDimensions, strconv.Itoa(len(vector))); err != nil {
			return "", unavailable("record dimensions", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, kind, created_at, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			kind = excluded.kind,
			created_at = excluded.created_at,
			embedding = excluded.embedding
	`, doc.ID, doc.Title, doc.Content, string(doc.Kind),
		doc.CreatedAt.UTC().Format(time.RFC3339Nano), float32SliceToBytes(vector))
	if err != nil {
		return "", unavailable("upsert document", err)
	}

	if err := tx.Commit(); err != nil {
		return "", unavailable("commit document", err)
	}
	return doc.ID, nil
}

// Delete removes a document and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
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

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, title, content, kind, created_at, embedding FROM documents`)
	if err != nil {
		return nil, unavailable("search documents", err)
	}
	defer rows.Close()

	var candidates []ranking.Candidate
	for rows.Next() {
		var c ranking.Candidate
		var kind, createdAt string
		var embedding []byte
		if err := rows.Scan(&c.Seq, &c.Document.ID, &c.Document.Title, &c.Document.Content,
			&kind, &createdAt, &embedding); err != nil {
			return nil, unavailable("scan document", err)
		}
		c.Document.Kind = domain.Kind(kind)
		c.Document.CreatedAt = parseTime(createdAt)
		c.Vector = bytesToFloat32Slice(embedding)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("search documents", err)
	}

	if len(candidates) == 0 {
		return []domain.Document{}, nil
	}
	if err := ranking.CheckDimensions(vector, len(candidates[0].Vector)); err != nil {
		return nil, err
	}
	return ranking.TopK(s.metric, vector, candidates, k), nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, unavailable("count documents", err)
	}
	return n, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_documents.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// dimensions returns the recorded vector size, or 0 before the first Put.
func dimensions(ctx context.Context, tx *sql.Tx) (int, error) {
	var value string
	err := tx.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = ?`, metaDimensions).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("read dimensions", err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, unavailable("parse dimensions", err)
	}
	return n, nil
}

// ==================== Helper Functions ====================

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
