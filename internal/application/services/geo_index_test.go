package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoIndex_Resolve(t *testing.T) {
	idx := NewGeoIndex()

	tests := []struct {
		name  string
		label string
		found bool
	}{
		{"full label", "Nairobi, Kenya", true},
		{"city only", "Nairobi", true},
		{"case insensitive", "nairobi, kenya", true},
		{"surrounding whitespace", "  Lagos, Nigeria  ", true},
		{"unknown city", "Atlantis, Nowhere", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := idx.Resolve(tt.label)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestGeoIndex_DistanceKm(t *testing.T) {
	idx := NewGeoIndex()

	self, ok := idx.DistanceKm("Nairobi, Kenya", "Nairobi, Kenya")
	assert.True(t, ok)
	assert.InDelta(t, 0, self, 0.001)

	ab, ok := idx.DistanceKm("Nairobi, Kenya", "Kampala, Uganda")
	assert.True(t, ok)
	ba, _ := idx.DistanceKm("Kampala, Uganda", "Nairobi, Kenya")
	assert.InDelta(t, ab, ba, 0.001)
	assert.InDelta(t, 506, ab, 20) // roughly 500 km apart

	_, ok = idx.DistanceKm("Nairobi, Kenya", "Atlantis")
	assert.False(t, ok)
	_, ok = idx.DistanceKm("Atlantis", "Nairobi, Kenya")
	assert.False(t, ok)
}

func TestLocationTextScore(t *testing.T) {
	tests := []struct {
		name      string
		requester string
		candidate string
		expected  int
	}{
		{"exact label", "Wakanda City, Wakanda", "Wakanda City, Wakanda", 100},
		{"exact label different case", "wakanda city, wakanda", "Wakanda City, Wakanda", 100},
		{"same city different country text", "Wakanda City, East", "Wakanda City, West", 80},
		{"same country only", "Birnin, Wakanda", "Zana, Wakanda", 60},
		{"partial overlap", "Birnin Zana", "Greater Birnin Zana, Wakanda", 40},
		{"country substring match", "Springfield, USA", "Gotham, USA2x", 60},
		{"unrelated", "Springfield", "Gotham", 0},
		{"empty requester", "", "Gotham", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, locationTextScore(tt.requester, tt.candidate))
		})
	}
}
