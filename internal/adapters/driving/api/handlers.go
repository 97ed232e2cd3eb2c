package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/normaq/internal/core/domain"
	"github.com/custodia-labs/normaq/internal/core/ports/driving"
)

// createDocumentRequest is the body of POST /documents.
type createDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Kind    string `json:"kind" validate:"omitempty,oneof=normative procedure manual policy other"`
}

// createDocumentResponse confirms a stored document.
type createDocumentResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Title   string `json:"title"`
}

// updateDocumentRequest is the body of PATCH /documents/{id}.
type updateDocumentRequest struct {
	Title   *string `json:"title" validate:"omitempty"`
	Content *string `json:"content" validate:"omitempty"`
	Kind    *string `json:"kind" validate:"omitempty,oneof=normative procedure manual policy other"`
}

// queryRequest is the body of POST /queries.
type queryRequest struct {
	Question    string `json:"question" validate:"required"`
	ResultLimit *int   `json:"result_limit" validate:"omitempty,min=1,max=20"`
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := s.services.Catalog.Create(r.Context(), driving.CreateDocumentRequest{
		Title:   req.Title,
		Content: req.Content,
		Kind:    domain.Kind(req.Kind),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createDocumentResponse{
		Message: "document stored",
		ID:      id,
		Title:   req.Title,
	})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	page, ok := optionalInt(w, r, "page")
	if !ok {
		return
	}
	size, ok := optionalInt(w, r, "size")
	if !ok {
		return
	}

	result, err := s.services.Catalog.List(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if full, _ := strconv.ParseBool(r.URL.Query().Get("full")); full {
		doc, err := s.services.Catalog.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}

	preview, err := s.services.Catalog.GetPreview(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	update := driving.UpdateDocumentRequest{Title: req.Title, Content: req.Content}
	if req.Kind != nil {
		kind := domain.Kind(*req.Kind)
		update.Kind = &kind
	}

	doc, err := s.services.Catalog.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	q := domain.Query{Question: req.Question, ResultLimit: domain.DefaultResultLimit}
	if req.ResultLimit != nil {
		q.ResultLimit = *req.ResultLimit
	}

	start := time.Now()
	result, err := s.services.Pipeline.Query(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.metrics.ObserveQuery(time.Since(start), result.Degraded)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	if s.services.Status == nil {
		writeError(w, http.StatusServiceUnavailable, codeServiceUnavailable, "status service not configured", nil)
		return
	}
	st, err := s.services.Status.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz reports ready once the store answers a count.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.services.Catalog.Count(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, codeServiceUnavailable, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// optionalInt parses an optional integer query parameter. Range is left to
// the catalog, which clamps values below 1.
func optionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeValidationError(w, map[string]string{name: "must be an integer"})
		return nil, false
	}
	return &n, true
}
