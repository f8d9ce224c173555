package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/kozaktomas/face-clock/internal/attendance"
)

// EventsHandler serves the attendance event endpoints. Timestamps are
// stored in UTC; responses additionally render them in the configured
// civil timezone for display.
type EventsHandler struct {
	engine   *attendance.Engine
	location *time.Location
}

// NewEventsHandler creates a new events handler rendering local times in
// the given location.
func NewEventsHandler(engine *attendance.Engine, location *time.Location) *EventsHandler {
	if location == nil {
		location = time.UTC
	}
	return &EventsHandler{engine: engine, location: location}
}

// RecordRequest is the payload for recording an attendance event. The
// match tolerance is server policy and is never read from the request.
type RecordRequest struct {
	Identifier string    `json:"identifier"`
	Embedding  []float64 `json:"embedding"`
}

// EventResponse is a single attendance event in API responses.
type EventResponse struct {
	ID          string `json:"id"`
	Identifier  string `json:"identifier"`
	DisplayName string `json:"display_name,omitempty"`
	Direction   string `json:"direction"`
	RecordedAt  string `json:"recorded_at"`
	LocalTime   string `json:"local_time"`
}

// Record handles POST /api/v1/events. It verifies the probe embedding and
// appends an entrance or exit event derived from the worker's history.
func (h *EventsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	direction, err := h.engine.CheckIn(r.Context(), req.Identifier, req.Embedding, 0)
	if err != nil {
		if attendance.IsStorageError(err) {
			log.Printf("record event %s: %v", sanitizeForLog(req.Identifier), err)
		}
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"identifier": req.Identifier,
		"direction":  string(direction),
	})
}

// List handles GET /api/v1/events. With an identifier query parameter it
// returns that worker's history; without it, the full report joined with
// display names.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")

	var out []EventResponse
	if identifier != "" {
		events, err := h.engine.ListEvents(r.Context(), identifier)
		if err != nil {
			if attendance.IsStorageError(err) {
				log.Printf("list events %s: %v", sanitizeForLog(identifier), err)
			}
			respondEngineError(w, err)
			return
		}
		out = make([]EventResponse, len(events))
		for i, ev := range events {
			out[i] = h.eventResponse(ev, "")
		}
	} else {
		records, err := h.engine.Report(r.Context())
		if err != nil {
			log.Printf("event report: %v", err)
			respondEngineError(w, err)
			return
		}
		out = make([]EventResponse, len(records))
		for i, rec := range records {
			out[i] = h.eventResponse(rec.Event, rec.DisplayName)
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"events": out,
		"count":  len(out),
	})
}

func (h *EventsHandler) eventResponse(ev attendance.Event, displayName string) EventResponse {
	return EventResponse{
		ID:          ev.ID,
		Identifier:  ev.Identifier,
		DisplayName: displayName,
		Direction:   string(ev.Direction),
		RecordedAt:  ev.RecordedAt.UTC().Format(time.RFC3339),
		LocalTime:   ev.RecordedAt.In(h.location).Format("2006-01-02 15:04:05"),
	}
}
