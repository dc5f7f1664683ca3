package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/spicyid/spicyid/internal/models"
	"github.com/spicyid/spicyid/internal/services"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// CreateRecordRequest represents the request body for creating a record.
// ID is optional: a JSON integer or an encoded id string.
type CreateRecordRequest struct {
	ID   any             `json:"id,omitempty"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RecordResponse represents a record on the wire.
type RecordResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// ListRecordsResponse represents one page of records.
type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
	Next    string           `json:"next,omitempty"`
}

// RecordHandler handles record endpoints.
type RecordHandler struct {
	service services.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc services.RecordService) *RecordHandler {
	return &RecordHandler{service: svc}
}

// Create handles POST /api/v1/records requests.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var req CreateRecordRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	rec, err := h.service.Create(r.Context(), services.CreateRecordRequest{
		ID:   req.ID,
		Name: req.Name,
		Data: req.Data,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/records/"+rec.PublicID)
	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// Get handles GET /api/v1/records/{id} requests.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request, publicID string) {
	rec, err := h.service.Get(r.Context(), publicID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /api/v1/records/{id} requests.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request, publicID string) {
	if err := h.service.Delete(r.Context(), publicID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/records?after=&limit= requests.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "INVALID_LIMIT",
			})
			return
		}
		limit = n
	}

	page, err := h.service.List(r.Context(), q.Get("after"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ListRecordsResponse{
		Records: make([]RecordResponse, 0, len(page.Records)),
		Next:    page.Next,
	}
	for _, rec := range page.Records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func toRecordResponse(rec *models.Record) RecordResponse {
	return RecordResponse{
		ID:        rec.PublicID,
		Name:      rec.Name,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
