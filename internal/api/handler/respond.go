// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"taskmarket/internal/api/types"
	"taskmarket/internal/util"
)

// DefaultTimeout is the per-request timeout applied by the router middleware.
const DefaultTimeout = 60 * time.Second

// respondWithJSON writes payload as a JSON response with the given status code.
func respondWithJSON(logger *slog.Logger, w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps service errors to HTTP status codes. Lifecycle
// precondition failures all map to 404 so the response does not reveal
// whether the publication exists, what state it is in, or who may act on it.
func respondWithError(logger *slog.Logger, w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = "Invalid input provided"
	case util.IsError(err, util.ErrSelfAccept):
		statusCode = http.StatusForbidden
		message = "You cannot accept your own publication"
	case util.IsError(err, util.ErrNotEligible):
		statusCode = http.StatusNotFound
		message = "Publication not found or not eligible"
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Username already exists"
	case util.IsError(err, util.ErrWrongPassword):
		statusCode = http.StatusUnauthorized
		message = "Wrong password"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusBadRequest
		message = "Not enough BLUE or RED to burn this amount"
	default:
		logger.Error("Unhandled service error", "error", err)
	}

	respondWithJSON(logger, w, statusCode, types.ErrorResponse{Error: message})
}
