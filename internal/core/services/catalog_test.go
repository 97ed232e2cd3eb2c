package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/normaq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

const validContent = "Employees must submit leave requests at least ten working days in advance."

func newTestCatalog() (*DocumentCatalog, *memory.VectorStore, *mockEmbedder) {
	store := memory.NewVectorStore(domain.DistanceCosine, 0)
	embedder := &mockEmbedder{}
	return NewDocumentCatalog(store, embedder), store, embedder
}

func createN(t *testing.T, catalog *DocumentCatalog, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{
			Title:   fmt.Sprintf("Document %02d", i),
			Content: validContent,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func intPtr(v int) *int {
	return &v
}

func TestDocumentCatalog_Create(t *testing.T) {
	catalog, store, embedder := newTestCatalog()

	id, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{
		Title:   "  Leave Policy  ",
		Content: "  " + validContent + "  ",
		Kind:    domain.KindPolicy,
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "doc_"))
	assert.Len(t, id, 12)

	doc, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Leave Policy", doc.Title)
	assert.Equal(t, validContent, doc.Content)
	assert.Equal(t, domain.KindPolicy, doc.Kind)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, []string{validContent}, embedder.texts)
}

func TestDocumentCatalog_Create_DefaultKind(t *testing.T) {
	catalog, store, _ := newTestCatalog()

	id, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{
		Title:   "Leave Policy",
		Content: validContent,
	})

	require.NoError(t, err)
	doc, _ := store.Get(context.Background(), id)
	assert.Equal(t, domain.KindNormative, doc.Kind)
}

func TestDocumentCatalog_Create_UniqueIDs(t *testing.T) {
	catalog, _, _ := newTestCatalog()

	ids := createN(t, catalog, 20)

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestDocumentCatalog_Create_Validation(t *testing.T) {
	tests := []struct {
		name      string
		req       driving.CreateDocumentRequest
		wantField string
	}{
		{"content 49 chars", driving.CreateDocumentRequest{Title: "Valid", Content: strings.Repeat("x", 49)}, "content"},
		{"content blank", driving.CreateDocumentRequest{Title: "Valid", Content: strings.Repeat(" ", 80)}, "content"},
		{"title 4 chars", driving.CreateDocumentRequest{Title: "Four", Content: validContent}, "title"},
		{"title padded to 4 chars", driving.CreateDocumentRequest{Title: "  Four  ", Content: validContent}, "title"},
		{"title 201 chars", driving.CreateDocumentRequest{Title: strings.Repeat("t", 201), Content: validContent}, "title"},
		{"unknown kind", driving.CreateDocumentRequest{Title: "Valid", Content: validContent, Kind: "memo"}, "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, store, embedder := newTestCatalog()

			_, err := catalog.Create(context.Background(), tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			ve, ok := domain.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Zero(t, embedder.calls)
			count, _ := store.Count(context.Background())
			assert.Zero(t, count)
		})
	}
}

func TestDocumentCatalog_Create_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		req  driving.CreateDocumentRequest
	}{
		{"content 50 chars", driving.CreateDocumentRequest{Title: "Valid", Content: strings.Repeat("x", 50)}},
		{"title 5 chars", driving.CreateDocumentRequest{Title: "Fives", Content: validContent}},
		{"title 200 chars", driving.CreateDocumentRequest{Title: strings.Repeat("t", 200), Content: validContent}},
		{"multibyte content", driving.CreateDocumentRequest{Title: "Valid", Content: strings.Repeat("ñ", 50)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, _, _ := newTestCatalog()
			_, err := catalog.Create(context.Background(), tt.req)
			assert.NoError(t, err)
		})
	}
}

func TestDocumentCatalog_Create_EmbeddingFailure(t *testing.T) {
	catalog, store, embedder := newTestCatalog()
	embedder.err = assert.AnError

	_, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{Title: "Valid", Content: validContent})

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
	count, _ := store.Count(context.Background())
	assert.Zero(t, count)
}

func TestDocumentCatalog_Create_StoreFailure(t *testing.T) {
	store := newFailingVectorStore()
	store.putErr = fmt.Errorf("%w: disk full", domain.ErrStoreUnavailable)
	catalog := NewDocumentCatalog(store, &mockEmbedder{})

	_, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{Title: "Valid", Content: validContent})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDocumentCatalog_List_Unpaginated(t *testing.T) {
	catalog, _, _ := newTestCatalog()
	createN(t, catalog, 25)

	page, err := catalog.List(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Len(t, page.Documents, 25)
	assert.Equal(t, 25, page.Total)
	assert.Zero(t, page.Page)
	assert.Zero(t, page.Size)

	// One of page/size alone does not paginate.
	page, err = catalog.List(context.Background(), intPtr(2), nil)
	require.NoError(t, err)
	assert.Len(t, page.Documents, 25)
}

func TestDocumentCatalog_List_Paginated(t *testing.T) {
	catalog, _, _ := newTestCatalog()
	ids := createN(t, catalog, 25)

	tests := []struct {
		name     string
		page     int
		size     int
		wantIDs  []string
		wantPage int
		wantSize int
	}{
		{"second page of ten", 2, 10, ids[10:20], 2, 10},
		{"last partial page", 3, 10, ids[20:25], 3, 10},
		{"past the end", 4, 10, []string{}, 4, 10},
		{"zero clamps to one", 0, 0, ids[0:1], 1, 1},
		{"negative clamps to one", -3, -7, ids[0:1], 1, 1},
		{"size larger than total", 1, 100, ids, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := catalog.List(context.Background(), intPtr(tt.page), intPtr(tt.size))

			require.NoError(t, err)
			assert.Equal(t, 25, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantSize, page.Size)
			require.NotNil(t, page.Documents)
			got := make([]string, 0, len(page.Documents))
			for _, doc := range page.Documents {
				got = append(got, doc.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestDocumentCatalog_List_Preview(t *testing.T) {
	catalog, _, _ := newTestCatalog()
	long := strings.Repeat("p", 250)
	_, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{Title: "Long one", Content: long})
	require.NoError(t, err)
	_, err = catalog.Create(context.Background(), driving.CreateDocumentRequest{Title: "Short one", Content: validContent})
	require.NoError(t, err)

	page, err := catalog.List(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("p", 200)+"...", page.Documents[0].Content)
	assert.Equal(t, validContent, page.Documents[1].Content)
}

func TestDocumentCatalog_List_StoreFailure(t *testing.T) {
	store := newFailingVectorStore()
	store.listErr = domain.ErrStoreUnavailable
	catalog := NewDocumentCatalog(store, &mockEmbedder{})

	_, err := catalog.List(context.Background(), nil, nil)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDocumentCatalog_GetAndPreview(t *testing.T) {
	catalog, _, _ := newTestCatalog()
	long := strings.Repeat("q", 300)
	id, err := catalog.Create(context.Background(), driving.CreateDocumentRequest{Title: "Long one", Content: long})
	require.NoError(t, err)

	doc, err := catalog.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, long, doc.Content)

	preview, err := catalog.GetPreview(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("q", 200)+"...", preview.Content)

	_, err = catalog.Get(context.Background(), "doc_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = catalog.GetPreview(context.Background(), "doc_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCatalog_Import(t *testing.T) {
	catalog, store, embedder := newTestCatalog()
	reqs := []driving.CreateDocumentRequest{
		{Title: "First document", Content: validContent},
		{Title: "Second document", Content: validContent, Kind: domain.KindManual},
		{Title: "Third document", Content: validContent, Kind: domain.KindOther},
	}

	ids, err := catalog.Import(context.Background(), reqs)

	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, 1, embedder.batchCalls)
	assert.Zero(t, embedder.calls)

	docs, _ := store.List(context.Background())
	require.Len(t, docs, 3)
	assert.Equal(t, "First document", docs[0].Title)
	assert.Equal(t, domain.KindManual, docs[1].Kind)
}

func TestDocumentCatalog_Import_ValidatesAllFirst(t *testing.T) {
	catalog, store, embedder := newTestCatalog()
	reqs := []driving.CreateDocumentRequest{
		{Title: "First document", Content: validContent},
		{Title: "Bad", Content: validContent},
	}

	_, err := catalog.Import(context.Background(), reqs)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "document 2")
	assert.Zero(t, embedder.batchCalls)
	count, _ := store.Count(context.Background())
	assert.Zero(t, count)
}

func TestDocumentCatalog_Import_Empty(t *testing.T) {
	catalog, _, embedder := newTestCatalog()

	ids, err := catalog.Import(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Zero(t, embedder.batchCalls)
}

func TestDocumentCatalog_Import_EmbeddingFailure(t *testing.T) {
	catalog, _, embedder := newTestCatalog()
	embedder.batchErr = assert.AnError

	_, err := catalog.Import(context.Background(), []driving.CreateDocumentRequest{
		{Title: "First document", Content: validContent},
	})

	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
}

func TestDocumentCatalog_Update(t *testing.T) {
	catalog, store, embedder := newTestCatalog()
	ids := createN(t, catalog, 2)
	newTitle := "Renamed document"
	newKind := domain.KindProcedure

	doc, err := catalog.Update(context.Background(), ids[0], driving.UpdateDocumentRequest{
		Title: &newTitle,
		Kind:  &newKind,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed document", doc.Title)
	assert.Equal(t, domain.KindProcedure, doc.Kind)
	assert.Equal(t, validContent, doc.Content)
	assert.Equal(t, 3, embedder.calls)

	docs, _ := store.List(context.Background())
	assert.Equal(t, ids[0], docs[0].ID, "update keeps insertion position")
	assert.Equal(t, "Renamed document", docs[0].Title)
}

func TestDocumentCatalog_Update_Invalid(t *testing.T) {
	catalog, store, _ := newTestCatalog()
	ids := createN(t, catalog, 1)
	short := "too short"

	_, err := catalog.Update(context.Background(), ids[0], driving.UpdateDocumentRequest{Content: &short})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	doc, _ := store.Get(context.Background(), ids[0])
	assert.Equal(t, validContent, doc.Content)
}

func TestDocumentCatalog_Update_NotFound(t *testing.T) {
	catalog, _, _ := newTestCatalog()
	title := "Any title"

	_, err := catalog.Update(context.Background(), "doc_missing", driving.UpdateDocumentRequest{Title: &title})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCatalog_Update_Concurrent(t *testing.T) {
	catalog, store, _ := newTestCatalog()
	ids := createN(t, catalog, 1)
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("Concurrent title %d", i)
			_, err := catalog.Update(context.Background(), ids[0], driving.UpdateDocumentRequest{Title: &title})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, _ := store.Count(context.Background())
	assert.Equal(t, 1, count)
	assert.Empty(t, catalog.locks.locks)
}

func TestDocumentCatalog_Delete(t *testing.T) {
	catalog, _, _ := newTestCatalog()
	ids := createN(t, catalog, 2)

	require.NoError(t, catalog.Delete(context.Background(), ids[0]))

	count, err := catalog.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = catalog.Delete(context.Background(), ids[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCatalog_Delete_StoreFailure(t *testing.T) {
	store := newFailingVectorStore()
	store.deleteErr = domain.ErrStoreUnavailable
	catalog := NewDocumentCatalog(store, &mockEmbedder{})

	err := catalog.Delete(context.Background(), "doc_1")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
