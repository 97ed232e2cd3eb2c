package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driven"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
	"github.com/custodia-labs/normaq/internal/logger"
)

// Ensure DocumentIngestor implements the interface.
var _ driving.DocumentIngestor = (*DocumentIngestor)(nil)

// DocumentIngestor extracts text from files and stores it through the catalog.
type DocumentIngestor struct {
	normalisers driven.NormaliserRegistry
	catalog     driving.DocumentCatalog
	splitter    driven.ContentSplitter
}

// NewDocumentIngestor creates a new ingestor.
func NewDocumentIngestor(normalisers driven.NormaliserRegistry, catalog driving.DocumentCatalog) *DocumentIngestor {
	return &DocumentIngestor{
		normalisers: normalisers,
		catalog:     catalog,
	}
}

// SetSplitter enables storing long files as several section documents.
func (i *DocumentIngestor) SetSplitter(s driven.ContentSplitter) {
	i.splitter = s
}

// Ingest normalises the file and creates its documents. All sections are
// validated by the catalog before any is embedded.
func (i *DocumentIngestor) Ingest(ctx context.Context, req driving.IngestFileRequest) (*driving.IngestResult, error) {
	result, err := i.normalisers.Normalise(ctx, &domain.RawDocument{
		Name:     req.Name,
		MIMEType: req.MIMEType,
		Content:  req.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("extract text from %s: %w", req.Name, err)
	}

	title := result.Title
	if req.Title != "" {
		title = req.Title
	}

	sections := []string{result.Content}
	if i.splitter != nil {
		sections = i.splitter.Split(result.Content)
	}

	reqs := make([]driving.CreateDocumentRequest, len(sections))
	for n, content := range sections {
		reqs[n] = driving.CreateDocumentRequest{
			Title:   sectionTitle(title, n, len(sections)),
			Content: content,
			Kind:    req.Kind,
		}
	}

	ids, err := i.catalog.Import(ctx, reqs)
	if err != nil {
		return nil, err
	}

	logger.Debug("Ingested %s as %d documents (%s, %d chars)", req.Name, len(ids), result.Format, len(result.Content))
	return &driving.IngestResult{IDs: ids, Title: title, Format: result.Format}, nil
}

func sectionTitle(title string, n, total int) string {
	if total == 1 {
		return title
	}
	return fmt.Sprintf("%s (part %d of %d)", title, n+1, total)
}

// SupportedMIMETypes lists the formats the registry can extract.
func (i *DocumentIngestor) SupportedMIMETypes() []string {
	return i.normalisers.SupportedMIMETypes()
}
