package services

import (
	"math"
	"strings"
)

// GeoPoint is a latitude/longitude pair from the static city table.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// GeoIndex maps known location labels to coordinates and computes
// great-circle distances. The table is static; unknown labels yield a
// sentinel false result rather than an error so callers can fall back to
// text-based location scoring.
type GeoIndex struct {
	byLabel map[string]GeoPoint
	byCity  map[string]GeoPoint
}

// NewGeoIndex creates a geo index over the built-in city table.
func NewGeoIndex() *GeoIndex {
	cities := map[string]GeoPoint{
		"Nairobi, Kenya":            {-1.2921, 36.8219},
		"Lagos, Nigeria":            {6.5244, 3.3792},
		"Abuja, Nigeria":            {9.0765, 7.3986},
		"Accra, Ghana":              {5.6037, -0.1870},
		"Cape Town, South Africa":   {-33.9249, 18.4241},
		"Johannesburg, South Africa": {-26.2041, 28.0473},
		"Kampala, Uganda":           {0.3476, 32.5825},
		"Dar es Salaam, Tanzania":   {-6.7924, 39.2083},
		"Kigali, Rwanda":            {-1.9441, 30.0619},
		"Addis Ababa, Ethiopia":     {9.0054, 38.7636},
		"Cairo, Egypt":              {30.0444, 31.2357},
		"Lusaka, Zambia":            {-15.3875, 28.3228},
		"Dakar, Senegal":            {14.7167, -17.4677},
		"Harare, Zimbabwe":          {-17.8252, 31.0335},
	}

	idx := &GeoIndex{
		byLabel: make(map[string]GeoPoint, len(cities)),
		byCity:  make(map[string]GeoPoint, len(cities)),
	}
	for label, point := range cities {
		idx.byLabel[normalizeLabel(label)] = point
		city := strings.SplitN(label, ",", 2)[0]
		idx.byCity[normalizeLabel(city)] = point
	}
	return idx
}

// Resolve looks up a location label, trying the full "City, Country" form
// first and falling back to the city part alone.
func (g *GeoIndex) Resolve(label string) (GeoPoint, bool) {
	norm := normalizeLabel(label)
	if norm == "" {
		return GeoPoint{}, false
	}
	if p, ok := g.byLabel[norm]; ok {
		return p, true
	}
	city := strings.SplitN(norm, ",", 2)[0]
	p, ok := g.byCity[strings.TrimSpace(city)]
	return p, ok
}

// DistanceKm computes the great-circle distance between two known labels.
// The second return value is false when either label is unknown.
func (g *GeoIndex) DistanceKm(a, b string) (float64, bool) {
	from, ok := g.Resolve(a)
	if !ok {
		return 0, false
	}
	to, ok := g.Resolve(b)
	if !ok {
		return 0, false
	}
	return haversineKm(from, to), true
}

// haversineKm computes the Haversine distance between two points in kilometers
func haversineKm(from, to GeoPoint) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := toRadians(from.Latitude)
	lat2Rad := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLng := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// locationTextScore scores how well a candidate's location text matches the
// requester's when neither resolves geographically: exact label 100, same
// city prefix 80, same country substring 60, any partial overlap 40, else 0.
func locationTextScore(requester, candidate string) int {
	req := normalizeLabel(requester)
	cand := normalizeLabel(candidate)
	if req == "" || cand == "" {
		return 0
	}
	if req == cand {
		return 100
	}

	reqCity := strings.TrimSpace(strings.SplitN(req, ",", 2)[0])
	candCity := strings.TrimSpace(strings.SplitN(cand, ",", 2)[0])
	if reqCity != "" && reqCity == candCity {
		return 80
	}

	reqCountry := countryPart(req)
	candCountry := countryPart(cand)
	if reqCountry != "" && candCountry != "" &&
		(strings.Contains(candCountry, reqCountry) || strings.Contains(reqCountry, candCountry)) {
		return 60
	}

	if strings.Contains(cand, reqCity) || strings.Contains(req, candCity) {
		return 40
	}
	return 0
}

func countryPart(label string) string {
	parts := strings.SplitN(label, ",", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
