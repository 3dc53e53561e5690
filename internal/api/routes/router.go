package routes

import (
	"net/http"

	"github.com/emmanuelmensahx/specialist-engine/internal/api/handlers"
	"github.com/emmanuelmensahx/specialist-engine/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	specialistHandler   *handlers.SpecialistHandler
	availabilityHandler *handlers.AvailabilityHandler
	sseHandler          *handlers.SSEHandler
}

// NewRouter creates a new router
func NewRouter(
	specialistHandler *handlers.SpecialistHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	sseHandler *handlers.SSEHandler,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		specialistHandler:   specialistHandler,
		availabilityHandler: availabilityHandler,
		sseHandler:          sseHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Specialist query endpoints
	r.mux.HandleFunc("GET /api/specialists", r.specialistHandler.List)
	r.mux.HandleFunc("GET /api/specialists/search", r.specialistHandler.Search)
	r.mux.HandleFunc("GET /api/specialists/nearby", r.specialistHandler.Nearby)
	r.mux.HandleFunc("GET /api/specialists/specializations", r.specialistHandler.ListSpecializations)
	r.mux.HandleFunc("GET /api/specialists/statistics", r.specialistHandler.Statistics)
	r.mux.HandleFunc("POST /api/specialists/recommend", r.specialistHandler.Recommend)

	// Availability endpoints
	r.mux.HandleFunc("GET /api/specialists/{id}/availability", r.availabilityHandler.GetAvailability)
	r.mux.HandleFunc("PUT /api/specialists/{id}/status", r.availabilityHandler.UpdateStatus)

	// Real-time availability streams
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/availability", r.sseHandler.StreamAvailability)
		r.mux.HandleFunc("GET /api/stream/availability/{id}", r.sseHandler.StreamSpecialistAvailability)
	}

	var handler http.Handler = r.mux
	handler = middleware.CORSMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	return handler
}
