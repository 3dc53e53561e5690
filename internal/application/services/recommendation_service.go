package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
)

// Scoring weights for recommendation candidates.
const (
	scoreSpecialtyMatch    = 100.0
	scoreSubSpecialtyMatch = 50.0
	scoreAvailableBonus    = 30.0
	scorePartialBonus      = 15.0
	scoreExperienceCap     = 20
	scoreRatingWeight      = 5.0

	// DefaultMaxResults caps a recommendation response.
	DefaultMaxResults = 5
)

// recommendationReasons maps a specialty to the reason template attached to
// its candidates. Specialties without an entry get the generic fallback.
var recommendationReasons = map[string]string{
	SpecialtyCardiology:        "Recommended for cardiovascular symptoms and cardiac emergencies",
	SpecialtyNeurology:         "Recommended for neurological symptoms such as stroke or seizures",
	SpecialtyEmergencyMedicine: "Recommended for urgent and life-threatening presentations",
	SpecialtyInternalMedicine:  "Recommended for general adult medical conditions",
	SpecialtyPediatrics:        "Recommended for patients under 18 years of age",
	SpecialtyGeriatrics:        "Recommended for patients over 65 years of age",
	"Pulmonology":              "Recommended for respiratory symptoms and lung conditions",
	"Gastroenterology":         "Recommended for digestive and abdominal symptoms",
	"Infectious Disease":       "Recommended for suspected infections and tropical diseases",
	"Obstetrics & Gynecology":  "Recommended for pregnancy and reproductive health",
	"General Surgery":          "Recommended for conditions that may require surgery",
}

const genericReason = "Matched to your reported symptoms"

// RecommendationRequest describes a recommendation query.
type RecommendationRequest struct {
	DiagnosisText string
	Symptoms      []string
	PatientAge    *int
	Location      string
	MaxResults    int
}

// RecommendationService ranks specialists for a diagnosis by clinical
// relevance, live availability and proximity. Queries are read-only over a
// point-in-time availability snapshot; an empty roster yields empty results,
// never an error.
type RecommendationService struct {
	roster     repositories.SpecialistRepository
	tracker    *AvailabilityTracker
	matcher    *SpecialtyMatcher
	geo        *GeoIndex
	maxResults int
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	roster repositories.SpecialistRepository,
	tracker *AvailabilityTracker,
	matcher *SpecialtyMatcher,
	geo *GeoIndex,
) *RecommendationService {
	return &RecommendationService{
		roster:     roster,
		tracker:    tracker,
		matcher:    matcher,
		geo:        geo,
		maxResults: DefaultMaxResults,
	}
}

// SetMaxResults overrides the default recommendation cap. Requests may still
// ask for fewer results.
func (s *RecommendationService) SetMaxResults(n int) {
	if n > 0 {
		s.maxResults = n
	}
}

// Recommend selects, scores and ranks specialists for a diagnosis. A patient
// location that resolves geographically breaks score ties by proximity.
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendationRequest) ([]entities.RecommendationCandidate, error) {
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	text := MatchText(req.DiagnosisText, "", req.Symptoms)
	specialties := s.matcher.InferSpecialties(text, req.PatientAge)
	availability := s.tracker.SnapshotAll()

	var candidates []entities.RecommendationCandidate
	seen := make(map[string]struct{})

	for _, specialty := range specialties {
		specialists, err := s.roster.ListBySpecialization(ctx, specialty)
		if err != nil {
			return nil, err
		}
		for _, sp := range specialists {
			// A specialist reachable through several inferred specialties is
			// scored once, under its own specialization.
			if _, ok := seen[sp.ID]; ok {
				continue
			}
			seen[sp.ID] = struct{}{}

			state := availability[sp.ID]
			candidates = append(candidates, entities.RecommendationCandidate{
				Specialist:           *sp,
				Availability:         state,
				MatchScore:           scoreCandidate(sp, state, text),
				RecommendationReason: reasonFor(sp.Specialization),
			})
		}
	}

	// When the patient's location resolves geographically, proximity breaks
	// score ties. It never outweighs the clinical score itself.
	var distances map[string]float64
	if _, ok := s.geo.Resolve(req.Location); ok {
		distances = make(map[string]float64, len(candidates))
		for _, c := range candidates {
			if km, ok := s.geo.DistanceKm(req.Location, c.Specialist.Location); ok {
				distances[c.Specialist.ID] = km
			}
		}
	}

	// Available specialists first, then by score, then by proximity.
	// Stable, so remaining ties keep their roster join order.
	sort.SliceStable(candidates, func(i, j int) bool {
		iAvail := candidates[i].Availability.Status == entities.StatusAvailable
		jAvail := candidates[j].Availability.Status == entities.StatusAvailable
		if iAvail != jAvail {
			return iAvail
		}
		if candidates[i].MatchScore != candidates[j].MatchScore {
			return candidates[i].MatchScore > candidates[j].MatchScore
		}
		di, iok := distances[candidates[i].Specialist.ID]
		dj, jok := distances[candidates[j].Specialist.ID]
		if iok && jok {
			return di < dj
		}
		return false
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// scoreCandidate computes the match score for a specialist fetched under its
// own specialization group.
func scoreCandidate(sp *entities.Specialist, state entities.AvailabilityState, diagnosisText string) float64 {
	score := scoreSpecialtyMatch

	text := strings.ToLower(diagnosisText)
	for _, sub := range sp.SubSpecialties {
		if strings.Contains(text, strings.ToLower(sub)) {
			score += scoreSubSpecialtyMatch
		}
	}

	switch state.Status {
	case entities.StatusAvailable:
		score += scoreAvailableBonus
	case entities.StatusPartiallyAvailable:
		score += scorePartialBonus
	}

	experience := sp.ExperienceYears
	if experience > scoreExperienceCap {
		experience = scoreExperienceCap
	}
	score += float64(experience)
	score += sp.Rating * scoreRatingWeight

	return score
}

func reasonFor(specialization string) string {
	if reason, ok := recommendationReasons[specialization]; ok {
		return reason
	}
	return genericReason
}

// Search matches a query case-insensitively against name, specialization,
// sub-specialties, location and languages. No scoring; results are joined
// with current availability.
func (s *RecommendationService) Search(ctx context.Context, query string) ([]entities.SearchResult, error) {
	specialists, err := s.roster.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	availability := s.tracker.SnapshotAll()
	q := strings.ToLower(strings.TrimSpace(query))

	var results []entities.SearchResult
	for _, sp := range specialists {
		if q != "" && !matchesQuery(sp, q) {
			continue
		}
		results = append(results, entities.SearchResult{
			Specialist:   *sp,
			Availability: availability[sp.ID],
		})
	}
	return results, nil
}

func matchesQuery(sp *entities.Specialist, q string) bool {
	if strings.Contains(strings.ToLower(sp.Name), q) ||
		strings.Contains(strings.ToLower(sp.Specialization), q) ||
		strings.Contains(strings.ToLower(sp.Location), q) {
		return true
	}
	for _, sub := range sp.SubSpecialties {
		if strings.Contains(strings.ToLower(sub), q) {
			return true
		}
	}
	for _, lang := range sp.Languages {
		if strings.Contains(strings.ToLower(lang), q) {
			return true
		}
	}
	return false
}

// RankByLocation orders the roster by proximity to the requester. When the
// requester's location resolves geographically, candidates sort ascending by
// great-circle distance with unresolvable candidates last, labeled Unknown.
// When it does not resolve, the ranking falls back entirely to a
// text-similarity score, descending. The two modes are mutually exclusive
// per call.
func (s *RecommendationService) RankByLocation(ctx context.Context, requesterLocation string) ([]entities.RankedSpecialist, error) {
	specialists, err := s.roster.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	availability := s.tracker.SnapshotAll()

	_, geoMode := s.geo.Resolve(requesterLocation)

	ranked := make([]entities.RankedSpecialist, 0, len(specialists))
	for _, sp := range specialists {
		entry := entities.RankedSpecialist{
			Specialist:   *sp,
			Availability: availability[sp.ID],
		}
		if geoMode {
			if km, ok := s.geo.DistanceKm(requesterLocation, sp.Location); ok {
				distance := km
				entry.DistanceKm = &distance
				entry.DistanceLabel = fmt.Sprintf("%.1f km", km)
			} else {
				entry.DistanceLabel = "Unknown"
			}
		} else {
			entry.DistanceLabel = "Unknown"
			entry.LocationScore = locationTextScore(requesterLocation, sp.Location)
		}
		ranked = append(ranked, entry)
	}

	if geoMode {
		sort.SliceStable(ranked, func(i, j int) bool {
			di, dj := ranked[i].DistanceKm, ranked[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	} else {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].LocationScore > ranked[j].LocationScore
		})
	}
	return ranked, nil
}

// ByCountry lists specialists practicing in a country, with availability.
func (s *RecommendationService) ByCountry(ctx context.Context, country string) ([]entities.SearchResult, error) {
	specialists, err := s.roster.ListByCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	return s.join(specialists), nil
}

// BySpecialization lists specialists with a primary specialization, with availability.
func (s *RecommendationService) BySpecialization(ctx context.Context, specialization string) ([]entities.SearchResult, error) {
	specialists, err := s.roster.ListBySpecialization(ctx, specialization)
	if err != nil {
		return nil, err
	}
	return s.join(specialists), nil
}

func (s *RecommendationService) join(specialists []*entities.Specialist) []entities.SearchResult {
	availability := s.tracker.SnapshotAll()
	results := make([]entities.SearchResult, 0, len(specialists))
	for _, sp := range specialists {
		results = append(results, entities.SearchResult{
			Specialist:   *sp,
			Availability: availability[sp.ID],
		})
	}
	return results
}

// ListSpecializations returns the distinct primary specializations in the roster.
func (s *RecommendationService) ListSpecializations(ctx context.Context) ([]string, error) {
	specialists, err := s.roster.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	specializations := lo.Uniq(lo.Map(specialists, func(sp *entities.Specialist, _ int) string {
		return sp.Specialization
	}))
	sort.Strings(specializations)
	return specializations, nil
}

// Statistics summarizes the roster and live availability counters.
func (s *RecommendationService) Statistics(ctx context.Context) (*entities.EngineStats, error) {
	specialists, err := s.roster.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	availability := s.tracker.SnapshotAll()

	stats := &entities.EngineStats{Total: len(specialists)}
	for _, sp := range specialists {
		state := availability[sp.ID]
		switch state.Status {
		case entities.StatusAvailable:
			stats.Available++
		case entities.StatusBusy:
			stats.Busy++
		case entities.StatusPartiallyAvailable:
			stats.PartiallyAvailable++
		}
		if state.IsOnline {
			stats.Online++
		} else {
			stats.Offline++
		}
	}

	stats.SpecializationCount = len(lo.UniqBy(specialists, func(sp *entities.Specialist) string {
		return sp.Specialization
	}))

	if len(specialists) > 0 {
		stats.AvgRating = lo.SumBy(specialists, func(sp *entities.Specialist) float64 {
			return sp.Rating
		}) / float64(len(specialists))
		stats.AvgExperience = float64(lo.SumBy(specialists, func(sp *entities.Specialist) int {
			return sp.ExperienceYears
		})) / float64(len(specialists))
	}
	return stats, nil
}
