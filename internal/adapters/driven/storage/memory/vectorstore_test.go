package memory

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

func testDoc(id string) domain.Document {
	return domain.Document{
		ID:        id,
		Title:     "Title " + id,
		Content:   "Content of document " + id,
		Kind:      domain.KindNormative,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestVectorStore_PutAndGet(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)
	ctx := context.Background()

	id, err := store.Put(ctx, testDoc("doc_1"), []float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "doc_1", id)

	doc, err := store.Get(ctx, "doc_1")
	require.NoError(t, err)
	assert.Equal(t, "Title doc_1", doc.Title)
	assert.Nil(t, doc.Similarity)
}

func TestVectorStore_Get_NotFound(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorStore_Put_InvalidDocument(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)
	doc := testDoc("doc_1")
	doc.Content = "short"

	_, err := store.Put(context.Background(), doc, []float32{1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorStore_Put_DimensionMismatch(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)
	ctx := context.Background()

	_, err := store.Put(ctx, testDoc("a"), []float32{1, 0})
	require.NoError(t, err)

	_, err = store.Put(ctx, testDoc("b"), []float32{1, 0, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = store.Put(ctx, testDoc("c"), nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorStore_Put_UpsertKeepsPosition(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 2)
	ctx := context.Background()

	_, _ = store.Put(ctx, testDoc("a"), []float32{1, 0})
	_, _ = store.Put(ctx, testDoc("b"), []float32{0, 1})

	updated := testDoc("a")
	updated.Title = "Updated title"
	_, err := store.Put(ctx, updated, []float32{0, 1})
	require.NoError(t, err)

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "Updated title", docs[0].Title)
	assert.Equal(t, "b", docs[1].ID)

	count, _ := store.Count(ctx)
	assert.Equal(t, 2, count)

	// a and b now share a vector; insertion order breaks the tie.
	results, err := store.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
}

func TestVectorStore_Search(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 2)
	ctx := context.Background()

	_, _ = store.Put(ctx, testDoc("x"), []float32{1, 0})
	_, _ = store.Put(ctx, testDoc("y"), []float32{0, 1})
	_, _ = store.Put(ctx, testDoc("xy"), []float32{1, 1})

	results, err := store.Search(ctx, []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "x", results[0].ID)
	assert.Equal(t, "xy", results[1].ID)
	require.NotNil(t, results[0].Similarity)
	assert.GreaterOrEqual(t, *results[0].Similarity, *results[1].Similarity)

	// Stored documents never carry a similarity.
	doc, _ := store.Get(ctx, "x")
	assert.Nil(t, doc.Similarity)
}

func TestVectorStore_Search_L2(t *testing.T) {
	store := NewVectorStore(domain.DistanceL2, 1)
	ctx := context.Background()

	_, _ = store.Put(ctx, testDoc("near"), []float32{1})
	_, _ = store.Put(ctx, testDoc("far"), []float32{10})

	results, err := store.Search(ctx, []float32{0}, 2)
	require.NoError(t, err)
	assert.Equal(t, "near", results[0].ID)
	assert.InDelta(t, 0.0, *results[0].Similarity, 1e-9)
	assert.InDelta(t, -9.0, *results[1].Similarity, 1e-9)
}

func TestVectorStore_Search_InvalidLimit(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)

	_, err := store.Search(context.Background(), []float32{1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestVectorStore_Search_EmptyStore(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)

	results, err := store.Search(context.Background(), []float32{1}, 3)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestVectorStore_Search_DimensionMismatch(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)
	ctx := context.Background()
	_, _ = store.Put(ctx, testDoc("a"), []float32{1, 0})

	_, err := store.Search(ctx, []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorStore_Delete(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 0)
	ctx := context.Background()
	_, _ = store.Put(ctx, testDoc("a"), []float32{1})

	existed, err := store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, existed)

	results, _ := store.Search(ctx, []float32{1}, 5)
	assert.Empty(t, results)
}

func TestVectorStore_InvalidMetricDefaultsToCosine(t *testing.T) {
	store := NewVectorStore("manhattan", 0)
	assert.Equal(t, domain.DistanceCosine, store.Metric())
}

func TestVectorStore_ConcurrentPutAndSearch(t *testing.T) {
	store := NewVectorStore(domain.DistanceCosine, 2)
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Put(ctx, testDoc(fmt.Sprintf("doc_%02d", i)), []float32{float32(i), 1})
		}(i)
		go func() {
			defer wg.Done()
			results, err := store.Search(ctx, []float32{1, 1}, 5)
			assert.NoError(t, err)
			for _, doc := range results {
				assert.NotEmpty(t, doc.Content)
			}
		}()
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
