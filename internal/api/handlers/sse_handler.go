package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/providers"
)

// SSEHandler streams availability-change events to UI clients over
// Server-Sent Events. Delivery is best-effort: the handler only ever reads
// from its subscription channel, so a slow client drops events instead of
// backing up the tracker.
type SSEHandler struct {
	eventBus providers.EventBus
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

// StreamAvailability handles GET /api/stream/availability
func (h *SSEHandler) StreamAvailability(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelAvailabilityUpdates, map[string]interface{}{
		"scope":     "all",
		"timestamp": time.Now(),
	})
}

// StreamSpecialistAvailability handles GET /api/stream/availability/{id}
func (h *SSEHandler) StreamSpecialistAvailability(w http.ResponseWriter, r *http.Request) {
	specialistID := r.PathValue("id")
	if specialistID == "" {
		respondWithError(w, http.StatusBadRequest, "specialist ID is required")
		return
	}
	h.stream(w, r, providers.GetSpecialistChannel(specialistID), map[string]interface{}{
		"specialist_id": specialistID,
		"timestamp":     time.Now(),
	})
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	// Heartbeat keeps intermediaries from closing an idle stream
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// sendEvent writes a single SSE frame
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event data")
		return
	}
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
