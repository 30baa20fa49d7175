package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joeychilson/refiler/content"
	"github.com/joeychilson/refiler/document"
	"github.com/joeychilson/refiler/outline"
	"github.com/joeychilson/refiler/picker"
	"github.com/joeychilson/refiler/refile"
	"github.com/joeychilson/refiler/store"
)

const maxDocumentBytes = 10 << 20

// OutlineHeading is one heading of a document outline.
type OutlineHeading struct {
	Line  int    `json:"line"`
	Depth int    `json:"depth"`
	Title string `json:"title"`
	Raw   string `json:"raw"`
}

// OutlineResponse represents a document's outline.
type OutlineResponse struct {
	Document string           `json:"document"`
	Headings []OutlineHeading `json:"headings"`
}

// TargetsResponse lists every refilable target heading across the store.
type TargetsResponse struct {
	Targets []picker.Candidate `json:"targets"`
}

// ErrorResponse represents an error.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

// handlePutDocument handles PUT /v1/documents/{id} requests. A text/html body
// is converted to Markdown before storage; anything else is stored verbatim.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		s.sendError(w, "document id required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		s.logger.Error("failed to read document body", "id", id, "error", err)
		s.sendError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	text := string(body)
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "html") {
		text, err = s.importer.Import(body)
		if err != nil {
			s.logger.Error("html import failed", "id", id, "error", err)
			s.sendError(w, fmt.Sprintf("failed to import html: %v", err), http.StatusUnprocessableEntity)
			return
		}
	}

	doc := &store.Document{ID: id, Content: text, UpdatedAt: time.Now()}
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.logger.Error("failed to store document", "id", id, "error", err)
		s.sendError(w, "failed to store document", http.StatusInternalServerError)
		return
	}

	s.logger.Info("document stored", "id", id, "bytes", len(text))
	s.sendJSON(w, doc, http.StatusOK)
}

// handleGetDocument handles GET /v1/documents/{id} requests. The optional
// format=html query renders the document; start and end select a line range.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, id, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		rendered, err := document.ToHTML(doc.Content)
		if err != nil {
			s.logger.Error("failed to render document", "id", id, "error", err)
			s.sendError(w, "failed to render document", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(rendered))
		return
	}

	if startStr := r.URL.Query().Get("start"); startStr != "" {
		start, end, err := parseLineRange(startStr, r.URL.Query().Get("end"), document.Parse(doc.Content).LineCount())
		if err != nil {
			s.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		extracted, err := content.ExtractLines(doc.Content, start, end)
		if err != nil {
			s.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		doc = &store.Document{ID: doc.ID, Content: extracted, UpdatedAt: doc.UpdatedAt}
	}

	s.sendJSON(w, doc, http.StatusOK)
}

// handleDeleteDocument handles DELETE /v1/documents/{id} requests.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.logger.Error("failed to delete document", "id", id, "error", err)
		s.sendError(w, "failed to delete document", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleOutline handles GET /v1/documents/{id}/outline requests.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.sendStoreError(w, id, err)
		return
	}

	headings, err := outline.Headings(document.Parse(doc.Content))
	if err != nil {
		s.logger.Error("failed to scan document", "id", id, "error", err)
		s.sendError(w, "failed to scan document", http.StatusInternalServerError)
		return
	}

	resp := OutlineResponse{Document: id, Headings: make([]OutlineHeading, 0, len(headings))}
	for _, h := range headings {
		resp.Headings = append(resp.Headings, OutlineHeading{
			Line:  h.Line(),
			Depth: h.Depth,
			Title: h.Text,
			Raw:   h.Raw(),
		})
	}

	s.sendJSON(w, resp, http.StatusOK)
}

// handleTargets handles GET /v1/targets requests.
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	candidates, err := picker.Candidates(r.Context(), s.store)
	if err != nil {
		s.logger.Error("failed to list targets", "error", err)
		s.sendError(w, "failed to list targets", http.StatusInternalServerError)
		return
	}
	if candidates == nil {
		candidates = []picker.Candidate{}
	}

	s.sendJSON(w, TargetsResponse{Targets: candidates}, http.StatusOK)
}

// handleRefile handles POST /v1/refile requests.
func (s *Server) handleRefile(w http.ResponseWriter, r *http.Request) {
	var req refile.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("failed to decode request", "error", err)
		s.sendError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.SourceDocument == "" {
		s.sendError(w, "source_document is required", http.StatusBadRequest)
		return
	}
	if req.Position.Line < 1 {
		s.sendError(w, "position.line must be >= 1", http.StatusBadRequest)
		return
	}

	s.logger.Info("refile request", "source", req.SourceDocument, "line", req.Position.Line)

	res, err := s.engine.Refile(r.Context(), &req)
	if err != nil {
		s.logger.Error("refile failed", "source", req.SourceDocument, "error", err)
		s.sendError(w, err.Error(), refileStatus(err))
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.sendJSON(w, res, http.StatusOK)
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	s.sendJSON(w, health, http.StatusOK)
}

// refileStatus maps engine errors to HTTP status codes.
func refileStatus(err error) int {
	switch {
	case errors.Is(err, refile.ErrNoRefilableNode), errors.Is(err, refile.ErrDepthExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, refile.ErrTargetNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, refile.ErrAmbiguousTarget), errors.Is(err, refile.ErrTargetWithinSource):
		return http.StatusConflict
	case errors.Is(err, picker.ErrUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseLineRange(startStr, endStr string, lineCount int) (start, end int, err error) {
	start, err = strconv.Atoi(startStr)
	if err != nil || start < 1 {
		return 0, 0, fmt.Errorf("start must be a positive line number")
	}
	end = lineCount
	if endStr != "" {
		end, err = strconv.Atoi(endStr)
		if err != nil || end < start {
			return 0, 0, fmt.Errorf("end must be a line number >= start")
		}
	}
	return start, end, nil
}

func (s *Server) sendStoreError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.sendError(w, fmt.Sprintf("document %q not found", id), http.StatusNotFound)
		return
	}
	s.logger.Error("failed to read document", "id", id, "error", err)
	s.sendError(w, "failed to read document", http.StatusInternalServerError)
}

func (s *Server) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	errResp := ErrorResponse{
		Error:      message,
		StatusCode: statusCode,
	}
	s.sendJSON(w, errResp, statusCode)
}
