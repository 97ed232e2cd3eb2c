package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// mockPipeline implements driving.RetrievalPipeline.
type mockPipeline struct {
	QueryFunc func(ctx context.Context, q domain.Query) (*domain.RetrievalResult, error)
	lastQuery domain.Query
}

func (m *mockPipeline) Query(ctx context.Context, q domain.Query) (*domain.RetrievalResult, error) {
	m.lastQuery = q
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	similarity := 0.87
	elapsed := 1.25
	model := "llama3.2:1b"
	return &domain.RetrievalResult{
		Answer: "Remote work requires manager approval.",
		Documents: []domain.Document{{
			ID:         "doc-1",
			Title:      "Remote Work Policy",
			Content:    "Employees may work remotely with the approval of their manager.",
			Kind:       domain.KindPolicy,
			Similarity: &similarity,
		}},
		OriginalQuestion: q.Question,
		ElapsedSeconds:   &elapsed,
		ModelName:        &model,
	}, nil
}

// mockCatalog implements driving.DocumentCatalog.
type mockCatalog struct {
	ListFunc   func(ctx context.Context, page, size *int) (*domain.Page, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Document, error)
	CreateFunc func(ctx context.Context, req driving.CreateDocumentRequest) (string, error)
	ImportFunc func(ctx context.Context, reqs []driving.CreateDocumentRequest) ([]string, error)
	UpdateFunc func(ctx context.Context, id string, req driving.UpdateDocumentRequest) (*domain.Document, error)
	DeleteFunc func(ctx context.Context, id string) error

	created  []driving.CreateDocumentRequest
	updated  []driving.UpdateDocumentRequest
	deleted  []string
	lastPage *int
	lastSize *int
}

func (m *mockCatalog) List(ctx context.Context, page, size *int) (*domain.Page, error) {
	m.lastPage, m.lastSize = page, size
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page, size)
	}
	return &domain.Page{
		Documents: []domain.DocumentPreview{
			{ID: "doc-1", Title: "Remote Work Policy", Kind: domain.KindPolicy},
			{ID: "doc-2", Title: "Expense Procedure", Kind: domain.KindProcedure},
		},
		Total: 2,
	}, nil
}

func (m *mockCatalog) Get(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.Document{
		ID:        id,
		Title:     "Remote Work Policy",
		Content:   "Employees may work remotely with the approval of their manager.",
		Kind:      domain.KindPolicy,
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func (m *mockCatalog) GetPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := doc.Preview()
	return &p, nil
}

func (m *mockCatalog) Create(ctx context.Context, req driving.CreateDocumentRequest) (string, error) {
	m.created = append(m.created, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return "doc-new", nil
}

func (m *mockCatalog) Import(ctx context.Context, reqs []driving.CreateDocumentRequest) ([]string, error) {
	m.created = append(m.created, reqs...)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, reqs)
	}
	ids := make([]string, len(reqs))
	for i := range reqs {
		ids[i] = "doc-imported-" + string(rune('a'+i))
	}
	return ids, nil
}

func (m *mockCatalog) Update(
	ctx context.Context, id string, req driving.UpdateDocumentRequest,
) (*domain.Document, error) {
	m.updated = append(m.updated, req)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, req)
	}
	doc, _ := m.Get(ctx, id)
	if req.Title != nil {
		doc.Title = *req.Title
	}
	return doc, nil
}

func (m *mockCatalog) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCatalog) Count(_ context.Context) (int, error) {
	return 2, nil
}

// mockIngestor implements driving.DocumentIngestor.
type mockIngestor struct {
	IngestFunc func(ctx context.Context, req driving.IngestFileRequest) (*driving.IngestResult, error)
	requests   []driving.IngestFileRequest
}

func (m *mockIngestor) Ingest(ctx context.Context, req driving.IngestFileRequest) (*driving.IngestResult, error) {
	m.requests = append(m.requests, req)
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, req)
	}
	title := req.Title
	if title == "" {
		title = "Extracted Title"
	}
	id := "doc-" + string(rune('a'+len(m.requests)-1))
	return &driving.IngestResult{IDs: []string{id}, Title: title, Format: "markdown"}, nil
}

func (m *mockIngestor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/plain"}
}

// mockStatusService implements driving.StatusService.
type mockStatusService struct {
	StatusFunc func(ctx context.Context) (*driving.Status, error)
}

func (m *mockStatusService) Status(ctx context.Context) (*driving.Status, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return &driving.Status{
		StoreBackend:        "sqlite",
		DistanceMetric:      "cosine",
		DocumentCount:       2,
		EmbeddingModel:      "all-minilm",
		EmbeddingDimensions: 384,
		GenerationModel:     "llama3.2:1b",
		GenerationAvailable: true,
		AvailableModels:     []string{"all-minilm", "llama3.2:1b"},
	}, nil
}

// mockPromptWatcher implements PromptWatcher.
type mockPromptWatcher struct {
	started chan struct{}
}

func (m *mockPromptWatcher) Watch(ctx context.Context) error {
	if m.started != nil {
		close(m.started)
	}
	<-ctx.Done()
	return ctx.Err()
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	pipeline *mockPipeline
	catalog  *mockCatalog
	ingestor *mockIngestor
	status   *mockStatusService
}

// setupTestServices installs fresh mocks and returns a cleanup that restores
// the previous services and resets every flag to its default.
func setupTestServices() (*testServices, func()) {
	oldPipeline := retrievalPipeline
	oldCatalog := documentCatalog
	oldIngestor := documentIngestor
	oldStatus := statusService
	oldWatcher := promptWatcher
	oldServer := serverSettings

	ts := &testServices{
		pipeline: &mockPipeline{},
		catalog:  &mockCatalog{},
		ingestor: &mockIngestor{},
		status:   &mockStatusService{},
	}
	retrievalPipeline = ts.pipeline
	documentCatalog = ts.catalog
	documentIngestor = ts.ingestor
	statusService = ts.status
	promptWatcher = nil

	return ts, func() {
		retrievalPipeline = oldPipeline
		documentCatalog = oldCatalog
		documentIngestor = oldIngestor
		statusService = oldStatus
		promptWatcher = oldWatcher
		serverSettings = oldServer
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

// clearServices removes every service for the duration of a test.
func clearServices() func() {
	_, cleanup := setupTestServices()
	retrievalPipeline = nil
	documentCatalog = nil
	documentIngestor = nil
	statusService = nil
	return cleanup
}

// resetFlags restores flag values and Changed markers on cmd and its children.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
