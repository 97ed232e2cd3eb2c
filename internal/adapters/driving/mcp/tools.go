package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question    string `json:"question" jsonschema:"the question to answer from the stored documents"`
	ResultLimit int    `json:"result_limit,omitempty" jsonschema:"number of documents to retrieve, 1 to 20 (default 5)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer         string           `json:"answer"`
	Documents      []DocumentOutput `json:"documents"`
	Degraded       bool             `json:"degraded"`
	ModelName      string           `json:"model_name,omitempty"`
	ElapsedSeconds float64          `json:"elapsed_seconds,omitempty"`
}

// DocumentOutput represents a single document.
type DocumentOutput struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Kind       string   `json:"kind"`
	Content    string   `json:"content"`
	CreatedAt  string   `json:"created_at"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Page *int `json:"page,omitempty" jsonschema:"page number starting at 1; set with size to paginate, values below 1 count as 1"`
	Size *int `json:"size,omitempty" jsonschema:"page size; set with page to paginate"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Total     int              `json:"total"`
	Page      int              `json:"page,omitempty"`
	Size      int              `json:"size,omitempty"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	ID string `json:"id" jsonschema:"the document id, e.g. doc_1a2b3c4d"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	Title   string `json:"title" jsonschema:"document title, 5 to 200 characters"`
	Content string `json:"content" jsonschema:"document text, at least 50 characters"`
	Kind    string `json:"kind,omitempty" jsonschema:"one of normative, procedure, manual, policy, other (default normative)"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using the most relevant stored documents as context",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List stored documents with a content preview",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Get the full content of a stored document",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Store and index a new document",
	}, s.handleAddDocument)
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	limit := input.ResultLimit
	if limit == 0 {
		limit = domain.DefaultResultLimit
	}

	result, err := s.ports.Pipeline.Query(ctx, domain.Query{Question: input.Question, ResultLimit: limit})
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer:    result.Answer,
		Documents: make([]DocumentOutput, len(result.Documents)),
		Degraded:  result.Degraded,
	}
	for i := range result.Documents {
		output.Documents[i] = documentOutput(&result.Documents[i])
	}
	if result.ModelName != nil {
		output.ModelName = *result.ModelName
	}
	if result.ElapsedSeconds != nil {
		output.ElapsedSeconds = *result.ElapsedSeconds
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	result, err := s.ports.Catalog.List(ctx, input.Page, input.Size)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(result.Documents)),
		Total:     result.Total,
		Page:      result.Page,
		Size:      result.Size,
	}
	for i := range result.Documents {
		output.Documents[i] = previewOutput(&result.Documents[i])
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Catalog.Get(ctx, input.ID)
	if err != nil {
		return nil, DocumentOutput{}, fmt.Errorf("document %s: %w", input.ID, err)
	}
	return nil, documentOutput(doc), nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	id, err := s.ports.Catalog.Create(ctx, driving.CreateDocumentRequest{
		Title:   input.Title,
		Content: input.Content,
		Kind:    domain.Kind(input.Kind),
	})
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}
	return nil, AddDocumentOutput{ID: id, Title: input.Title}, nil
}

func documentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:         doc.ID,
		Title:      doc.Title,
		Kind:       doc.Kind.String(),
		Content:    doc.Content,
		CreatedAt:  doc.CreatedAt.Format(timeFormat),
		Similarity: doc.Similarity,
	}
}

func previewOutput(p *domain.DocumentPreview) DocumentOutput {
	return DocumentOutput{
		ID:        p.ID,
		Title:     p.Title,
		Kind:      p.Kind.String(),
		Content:   p.Content,
		CreatedAt: p.CreatedAt.Format(timeFormat),
	}
}
