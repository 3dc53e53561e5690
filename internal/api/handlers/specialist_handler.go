package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/emmanuelmensahx/specialist-engine/internal/application/services"
)

// SpecialistHandler handles specialist query HTTP requests
type SpecialistHandler struct {
	recommender *services.RecommendationService
}

// NewSpecialistHandler creates a new specialist handler
func NewSpecialistHandler(recommender *services.RecommendationService) *SpecialistHandler {
	return &SpecialistHandler{recommender: recommender}
}

type recommendRequest struct {
	Diagnosis  string   `json:"diagnosis"`
	Symptoms   []string `json:"symptoms"`
	Age        *int     `json:"age,omitempty"`
	Location   string   `json:"location,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
}

// Recommend handles POST /api/specialists/recommend
func (h *SpecialistHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidates, err := h.recommender.Recommend(r.Context(), services.RecommendationRequest{
		DiagnosisText: req.Diagnosis,
		Symptoms:      req.Symptoms,
		PatientAge:    req.Age,
		Location:      req.Location,
		MaxResults:    req.MaxResults,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute recommendations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": candidates,
		"count":           len(candidates),
	})
}

// Search handles GET /api/specialists/search?q=
func (h *SpecialistHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	results, err := h.recommender.Search(r.Context(), query)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to search specialists")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialists": results,
		"count":       len(results),
	})
}

// List handles GET /api/specialists?country=|specialization=
func (h *SpecialistHandler) List(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	specialization := r.URL.Query().Get("specialization")

	var (
		results interface{}
		count   int
		err     error
	)
	switch {
	case country != "":
		list, listErr := h.recommender.ByCountry(r.Context(), country)
		results, count, err = list, len(list), listErr
	case specialization != "":
		list, listErr := h.recommender.BySpecialization(r.Context(), specialization)
		results, count, err = list, len(list), listErr
	default:
		list, listErr := h.recommender.Search(r.Context(), "")
		results, count, err = list, len(list), listErr
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list specialists")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialists": results,
		"count":       count,
	})
}

// Nearby handles GET /api/specialists/nearby?location=&max=
func (h *SpecialistHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter location is required")
		return
	}

	ranked, err := h.recommender.RankByLocation(r.Context(), location)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to rank specialists")
		return
	}

	if maxStr := r.URL.Query().Get("max"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil && max > 0 && max < len(ranked) {
			ranked = ranked[:max]
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialists": ranked,
		"count":       len(ranked),
	})
}

// ListSpecializations handles GET /api/specialists/specializations
func (h *SpecialistHandler) ListSpecializations(w http.ResponseWriter, r *http.Request) {
	specializations, err := h.recommender.ListSpecializations(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list specializations")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specializations": specializations,
		"count":           len(specializations),
	})
}

// Statistics handles GET /api/specialists/statistics
func (h *SpecialistHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.recommender.Statistics(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
