// Package api provides the HTTP handlers for the canvas query API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"sqlcanvas/internal/domain"
	"sqlcanvas/internal/service"
)

// Handler serves the query endpoint consumed by the canvas UI.
type Handler struct {
	query  *service.QueryService
	logger *slog.Logger
}

// NewHandler creates a Handler over the query service.
func NewHandler(query *service.QueryService, logger *slog.Logger) *Handler {
	return &Handler{query: query, logger: logger}
}

// queryRequest is the wire shape submitted by the canvas: the query text
// plus the cached results of every node it references. A node that has
// never been run arrives with empty results.
type queryRequest struct {
	SQL        string             `json:"sql"`
	References map[string]nodeRef `json:"references"`
}

type nodeRef struct {
	Label   string       `json:"label"`
	Results []domain.Row `json:"results"`
}

// queryResponse carries exactly one of data/error non-null.
type queryResponse struct {
	Data  []domain.Row `json:"data"`
	Error *string      `json:"error"`
}

// ExecuteQuery handles POST /v1/query.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(w, http.StatusBadRequest, "sql is required")
		return
	}

	refs := make(map[string]domain.ResultSet, len(req.References))
	for label, ref := range req.References {
		refs[label] = domain.ResultSet(ref.Results)
	}

	result, err := h.query.Execute(r.Context(), req.SQL, refs)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	data := result.Rows
	if data == nil {
		data = []domain.Row{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Data: data})
}

// Health handles GET /healthz and reports engine reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.query.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, queryResponse{Error: &msg})
}
