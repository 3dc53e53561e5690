package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/emmanuelmensahx/specialist-engine/internal/application/services"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
)

// AvailabilityHandler handles availability read and update requests
type AvailabilityHandler struct {
	tracker *services.AvailabilityTracker
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(tracker *services.AvailabilityTracker) *AvailabilityHandler {
	return &AvailabilityHandler{tracker: tracker}
}

type statusUpdateRequest struct {
	Status               entities.AvailabilityStatus `json:"status"`
	CurrentConsultations *int                        `json:"current_consultations,omitempty"`
}

// UpdateStatus handles PUT /api/specialists/{id}/status.
// An unknown specialist id is a silent no-op, so this always returns 204
// for a well-formed request.
func (h *AvailabilityHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "specialist ID is required")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		respondWithError(w, http.StatusBadRequest, "status must be available, busy or partially-available")
		return
	}

	h.tracker.SetStatus(r.Context(), id, req.Status, &services.StatusUpdate{
		CurrentConsultations: req.CurrentConsultations,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetAvailability handles GET /api/specialists/{id}/availability
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "specialist ID is required")
		return
	}

	state, ok := h.tracker.Snapshot(id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "specialist not found")
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}
