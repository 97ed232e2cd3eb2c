package mcp

import (
	"context"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.RetrievalPipeline.
type mockPipeline struct {
	result *domain.RetrievalResult
	err    error
	query  domain.Query
}

func (m *mockPipeline) Query(_ context.Context, q domain.Query) (*domain.RetrievalResult, error) {
	m.query = q
	return m.result, m.err
}

// mockCatalog is a mock implementation of driving.DocumentCatalog.
type mockCatalog struct {
	page      *domain.Page
	document  *domain.Document
	createdID string
	err       error

	listPage, listSize *int
	created            driving.CreateDocumentRequest
}

func (m *mockCatalog) List(_ context.Context, page, size *int) (*domain.Page, error) {
	m.listPage, m.listSize = page, size
	if m.err != nil {
		return nil, m.err
	}
	if m.page == nil {
		return &domain.Page{Documents: []domain.DocumentPreview{}}, nil
	}
	return m.page, nil
}

func (m *mockCatalog) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.document == nil {
		return nil, domain.ErrNotFound
	}
	return m.document, nil
}

func (m *mockCatalog) GetPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	preview := doc.Preview()
	return &preview, nil
}

func (m *mockCatalog) Create(_ context.Context, req driving.CreateDocumentRequest) (string, error) {
	m.created = req
	return m.createdID, m.err
}

func (m *mockCatalog) Import(_ context.Context, _ []driving.CreateDocumentRequest) ([]string, error) {
	return nil, m.err
}

func (m *mockCatalog) Update(_ context.Context, _ string, _ driving.UpdateDocumentRequest) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockCatalog) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCatalog) Count(_ context.Context) (int, error) {
	if m.page == nil {
		return 0, m.err
	}
	return m.page.Total, m.err
}

func newTestServer(pipeline *mockPipeline, catalog *mockCatalog) (*Server, error) {
	return NewServer(&Ports{Pipeline: pipeline, Catalog: catalog})
}
