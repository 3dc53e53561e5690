package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestInferSpecialties_KeywordUnion(t *testing.T) {
	matcher := NewSpecialtyMatcher()

	tests := []struct {
		name     string
		text     string
		age      *int
		expected []string
	}{
		{
			name:     "chest pain maps to cardiology and emergency",
			text:     "Acute chest pain radiating to the left arm",
			expected: []string{SpecialtyCardiology, SpecialtyEmergencyMedicine},
		},
		{
			name:     "malaria maps to infectious disease and internal medicine",
			text:     "Suspected malaria with high fever",
			expected: []string{"Infectious Disease", SpecialtyInternalMedicine},
		},
		{
			name:     "stroke and unconscious union preserves first-match order",
			text:     "Patient unconscious after suspected stroke",
			expected: []string{SpecialtyNeurology, SpecialtyEmergencyMedicine},
		},
		{
			name:     "chest pain with stroke unions three specialties",
			text:     "acute chest pain and suspected stroke",
			age:      intPtr(45),
			expected: []string{SpecialtyCardiology, SpecialtyEmergencyMedicine, SpecialtyNeurology},
		},
		{
			name:     "no keyword falls back to internal medicine",
			text:     "General wellness checkup",
			expected: []string{SpecialtyInternalMedicine},
		},
		{
			name:     "empty text falls back to internal medicine",
			text:     "",
			expected: []string{SpecialtyInternalMedicine},
		},
		{
			name:     "child patient adds pediatrics",
			text:     "Persistent cough",
			age:      intPtr(9),
			expected: []string{"Pulmonology", SpecialtyInternalMedicine, SpecialtyPediatrics},
		},
		{
			name:     "elderly patient adds geriatrics and internal medicine",
			text:     "Recurrent palpitations",
			age:      intPtr(72),
			expected: []string{SpecialtyCardiology, SpecialtyGeriatrics, SpecialtyInternalMedicine},
		},
		{
			name:     "age override alone beats fallback",
			text:     "routine visit",
			age:      intPtr(5),
			expected: []string{SpecialtyPediatrics},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matcher.InferSpecialties(tt.text, tt.age)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInferSpecialties_Deterministic(t *testing.T) {
	matcher := NewSpecialtyMatcher()
	text := "fever, vomiting and abdominal pain after travel, possible malaria"

	first := matcher.InferSpecialties(text, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, matcher.InferSpecialties(text, nil))
	}
}

func TestInferSpecialties_CaseInsensitive(t *testing.T) {
	matcher := NewSpecialtyMatcher()
	assert.Equal(t,
		matcher.InferSpecialties("CHEST PAIN", nil),
		matcher.InferSpecialties("chest pain", nil),
	)
}

func TestMatchText(t *testing.T) {
	assert.Equal(t, "Malaria fever chills", MatchText("Malaria", "", []string{"fever", "chills"}))
	assert.Equal(t, "a b", MatchText("a", "b", nil))
	assert.Equal(t, "", MatchText("", "", nil))
}
