package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-clock/internal/attendance"
	"github.com/kozaktomas/face-clock/internal/embedding"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps engine error kinds to HTTP statuses. Storage
// failures stay generic so internals never leak to clients.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalidIdentifier),
		errors.Is(err, embedding.ErrDimensionMismatch),
		errors.Is(err, embedding.ErrMalformedEmbedding):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, attendance.ErrDuplicateIdentifier),
		errors.Is(err, attendance.ErrDuplicateFace):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, attendance.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, attendance.ErrFaceNotRecognized):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
