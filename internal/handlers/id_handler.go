package handlers

import (
	"net/http"
	"strconv"

	"github.com/spicyid/spicyid/internal/services"
)

// EncodeResponse is returned by the encode endpoint.
type EncodeResponse struct {
	Value int64  `json:"value"`
	ID    string `json:"id"`
}

// DecodeResponse is returned by the decode endpoint.
type DecodeResponse struct {
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

// ValidateResponse is returned by the validate endpoint.
type ValidateResponse struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
}

// IDHandler exposes the identifier codec over HTTP.
type IDHandler struct {
	service services.IDService
}

// NewIDHandler creates a new IDHandler.
func NewIDHandler(svc services.IDService) *IDHandler {
	return &IDHandler{service: svc}
}

// Encode handles GET /api/v1/ids/encode/{n} requests.
func (h *IDHandler) Encode(w http.ResponseWriter, _ *http.Request, raw string) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "value must be a base-10 integer",
			Code:  "INVALID_VALUE",
		})
		return
	}

	id, err := h.service.Encode(n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EncodeResponse{Value: n, ID: id})
}

// Decode handles GET /api/v1/ids/decode/{id} requests.
func (h *IDHandler) Decode(w http.ResponseWriter, _ *http.Request, id string) {
	n, err := h.service.Decode(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DecodeResponse{ID: id, Value: n})
}

// Validate handles GET /api/v1/ids/validate/{id} requests.
func (h *IDHandler) Validate(w http.ResponseWriter, _ *http.Request, id string) {
	writeJSON(w, http.StatusOK, ValidateResponse{ID: id, Valid: h.service.Valid(id)})
}

// Config handles GET /api/v1/ids/config requests.
func (h *IDHandler) Config(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Info())
}
