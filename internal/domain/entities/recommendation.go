package entities

// RecommendationCandidate is a specialist considered for a recommendation
// query, joined with its availability snapshot and annotated with a score.
// Candidates are built fresh per query and discarded with the response.
type RecommendationCandidate struct {
	Specialist           Specialist        `json:"specialist"`
	Availability         AvailabilityState `json:"availability"`
	MatchScore           float64           `json:"match_score"`
	RecommendationReason string            `json:"recommendation_reason"`
}

// RankedSpecialist is a specialist ordered by proximity to a requester.
// DistanceKm is nil when the specialist's location cannot be resolved
// geographically; DistanceLabel is "Unknown" in that case.
type RankedSpecialist struct {
	Specialist    Specialist        `json:"specialist"`
	Availability  AvailabilityState `json:"availability"`
	DistanceKm    *float64          `json:"distance_km,omitempty"`
	DistanceLabel string            `json:"distance_label"`
	// LocationScore carries the text-similarity score when the requester's
	// own location does not resolve and distance ranking is impossible.
	LocationScore int `json:"location_score,omitempty"`
}

// SearchResult is a specialist matched by free-text search, joined with
// its current availability. Search applies no scoring.
type SearchResult struct {
	Specialist   Specialist        `json:"specialist"`
	Availability AvailabilityState `json:"availability"`
}

// EngineStats summarizes the roster and live availability counters.
type EngineStats struct {
	Total               int     `json:"total"`
	Available           int     `json:"available"`
	Busy                int     `json:"busy"`
	PartiallyAvailable  int     `json:"partially_available"`
	Online              int     `json:"online"`
	Offline             int     `json:"offline"`
	SpecializationCount int     `json:"specialization_count"`
	AvgRating           float64 `json:"avg_rating"`
	AvgExperience       float64 `json:"avg_experience"`
}
