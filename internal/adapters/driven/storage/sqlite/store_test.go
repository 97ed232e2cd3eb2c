package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normaq/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T, metric domain.DistanceMetric) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), metric)
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func testDoc(id string) domain.Document {
	return domain.Document{
		ID:        id,
		Title:     "Title " + id,
		Content:   "Content of document " + id,
		Kind:      domain.KindProcedure,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, "bogus")
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, store.Path())
	assert.Equal(t, domain.DistanceCosine, store.Metric())
}

func TestNewStore_ReopenKeepsDocuments(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir, domain.DistanceCosine)
	require.NoError(t, err)
	_, err = store.Put(ctx, testDoc("doc_1"), []float32{1, 0})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir, domain.DistanceCosine)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = reopened.Put(ctx, testDoc("doc_2"), []float32{1, 0, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestStore_PutAndGet(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)
	ctx := context.Background()

	id, err := store.Put(ctx, testDoc("doc_1"), []float32{0.5, 0.25})
	require.NoError(t, err)
	assert.Equal(t, "doc_1", id)

	doc, err := store.Get(ctx, "doc_1")
	require.NoError(t, err)
	assert.Equal(t, "Title doc_1", doc.Title)
	assert.Equal(t, domain.KindProcedure, doc.Kind)
	assert.True(t, doc.CreatedAt.Equal(testDoc("doc_1").CreatedAt))
	assert.Nil(t, doc.Similarity)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Put_Invalid(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)
	ctx := context.Background()

	doc := testDoc("doc_1")
	doc.Title = "  "
	_, err := store.Put(ctx, doc, []float32{1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Put(ctx, testDoc("doc_1"), nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestStore_Put_UpsertKeepsPosition(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)
	ctx := context.Background()

	_, err := store.Put(ctx, testDoc("a"), []float32{1, 0})
	require.NoError(t, err)
	_, err = store.Put(ctx, testDoc("b"), []float32{0, 1})
	require.NoError(t, err)

	updated := testDoc("a")
	updated.Title = "Updated title"
	_, err = store.Put(ctx, updated, []float32{0, 1})
	require.NoError(t, err)

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "Updated title", docs[0].Title)
	assert.Equal(t, "b", docs[1].ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_Put_Concurrent(t *testing.T) {
	ctx := context.Background()

	for _, seeded := range []bool{false, true} {
		t.Run(fmt.Sprintf("seeded=%v", seeded), func(t *testing.T) {
			store := setupTestStore(t, domain.DistanceCosine)
			want := 32
			if seeded {
				_, err := store.Put(ctx, testDoc("seed"), []float32{1, 1})
				require.NoError(t, err)
				want++
			}

			const writers = 32
			errs := make([]error, writers)
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = store.Put(ctx, testDoc(fmt.Sprintf("doc-%02d", i)), []float32{float32(i), 1})
					if errs[i] == nil {
						_, errs[i] = store.Search(ctx, []float32{1, 0}, 3)
					}
				}(i)
			}
			wg.Wait()

			for i, err := range errs {
				assert.NoError(t, err, "writer %d", i)
			}
			count, err := store.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, count)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)
	ctx := context.Background()
	_, err := store.Put(ctx, testDoc("a"), []float32{1, 0})
	require.NoError(t, err)

	existed, err := store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Search(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)
	ctx := context.Background()

	_, _ = store.Put(ctx, testDoc("far"), []float32{0, 1})
	_, _ = store.Put(ctx, testDoc("near"), []float32{1, 0.1})
	_, _ = store.Put(ctx, testDoc("exact"), []float32{1, 0})

	results, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].ID)
	assert.Equal(t, "near", results[1].ID)
	require.NotNil(t, results[0].Similarity)
	assert.InDelta(t, 1.0, *results[0].Similarity, 1e-6)
	assert.GreaterOrEqual(t, *results[0].Similarity, *results[1].Similarity)
}

func TestStore_Search_TiesKeepInsertionOrder(t *testing.T) {
	store := setupTestStore(t, domain.DistanceL2)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		_, err := store.Put(ctx, testDoc(id), []float32{1, 1})
		require.NoError(t, err)
	}

	results, err := store.Search(ctx, []float32{1, 1}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
	assert.Equal(t, "third", results[2].ID)
}

func TestStore_Search_Edges(t *testing.T) {
	store := setupTestStore(t, domain.DistanceCosine)
	ctx := context.Background()

	_, err := store.Search(ctx, []float32{1, 0}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	results, err := store.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)

	_, _ = store.Put(ctx, testDoc("a"), []float32{1, 0})
	_, err = store.Search(ctx, []float32{1, 0, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestStore_ClosedReportsUnavailable(t *testing.T) {
	store, err := NewStore(t.TempDir(), domain.DistanceCosine)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Count(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0.1, -2.5, 3}

	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
