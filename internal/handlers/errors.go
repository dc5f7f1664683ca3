package handlers

import (
	"errors"
	"net/http"

	"github.com/spicyid/spicyid/internal/models"
	"github.com/spicyid/spicyid/pkg/spicyid"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// mapErrorToResponse maps service errors to HTTP status codes and error responses.
func mapErrorToResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, spicyid.ErrMalformedID):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "MALFORMED_ID"}
	case errors.Is(err, spicyid.ErrOutOfRange):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "OUT_OF_RANGE"}
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"}
	case errors.Is(err, models.ErrRecordExists):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "CONFLICT"}
	case errors.Is(err, models.ErrIDSpaceExhausted):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "ID_SPACE_EXHAUSTED"}
	case errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrNameTooLong),
		errors.Is(err, models.ErrInvalidData),
		errors.Is(err, models.ErrNegativeID):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, resp := mapErrorToResponse(err)
	writeJSON(w, status, resp)
}
