package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-clock/internal/attendance"
)

// WorkersHandler serves worker enrollment and management endpoints.
type WorkersHandler struct {
	engine *attendance.Engine
}

// NewWorkersHandler creates a new workers handler.
func NewWorkersHandler(engine *attendance.Engine) *WorkersHandler {
	return &WorkersHandler{engine: engine}
}

// EnrollRequest is the payload for enrolling a new worker.
type EnrollRequest struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Embedding   []float64 `json:"embedding"`
}

// UpdateWorkerRequest is the payload for a partial metadata update.
// Omitted fields are left unchanged.
type UpdateWorkerRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
}

// WorkerResponse is the listing view of a worker. It never carries the
// embedding.
type WorkerResponse struct {
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

// Enroll handles POST /api/v1/workers.
func (h *WorkersHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	err := h.engine.Enroll(r.Context(), req.Identifier, req.DisplayName, req.Role, req.Embedding)
	if err != nil {
		if attendance.IsStorageError(err) {
			log.Printf("enroll %s: %v", sanitizeForLog(req.Identifier), err)
		}
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"identifier": req.Identifier,
	})
}

// List handles GET /api/v1/workers.
func (h *WorkersHandler) List(w http.ResponseWriter, r *http.Request) {
	workers, err := h.engine.ListWorkers(r.Context())
	if err != nil {
		log.Printf("list workers: %v", err)
		respondEngineError(w, err)
		return
	}

	out := make([]WorkerResponse, len(workers))
	for i, info := range workers {
		out[i] = WorkerResponse{
			Identifier:  info.Identifier,
			DisplayName: info.DisplayName,
			Role:        info.Role,
			CreatedAt:   info.CreatedAt.Format(time.RFC3339),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"workers": out,
		"count":   len(out),
	})
}

// Update handles PUT /api/v1/workers/{identifier}.
func (h *WorkersHandler) Update(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var req UpdateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	err := h.engine.UpdateWorker(r.Context(), identifier, attendance.MetadataUpdate{
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		if attendance.IsStorageError(err) {
			log.Printf("update worker %s: %v", sanitizeForLog(identifier), err)
		}
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"identifier": identifier})
}

// Delete handles DELETE /api/v1/workers/{identifier}. Removal cascades the
// worker's attendance events.
func (h *WorkersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	if err := h.engine.RemoveWorker(r.Context(), identifier); err != nil {
		if attendance.IsStorageError(err) {
			log.Printf("remove worker %s: %v", sanitizeForLog(identifier), err)
		}
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"identifier": identifier})
}
