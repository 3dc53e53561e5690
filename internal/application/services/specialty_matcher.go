package services

import "strings"

// Specialty names used across the matcher, ranker and roster.
const (
	SpecialtyInternalMedicine  = "Internal Medicine"
	SpecialtyPediatrics        = "Pediatrics"
	SpecialtyGeriatrics        = "Geriatrics"
	SpecialtyCardiology        = "Cardiology"
	SpecialtyNeurology         = "Neurology"
	SpecialtyEmergencyMedicine = "Emergency Medicine"
)

type keywordRule struct {
	keyword     string
	specialties []string
}

// SpecialtyMatcher maps free-text diagnosis input to candidate specialties
// via a fixed keyword table with age-based overrides. It is a pure lookup:
// no I/O, no mutation, deterministic output order.
type SpecialtyMatcher struct {
	rules []keywordRule
}

// NewSpecialtyMatcher creates a matcher over the built-in keyword table.
func NewSpecialtyMatcher() *SpecialtyMatcher {
	return &SpecialtyMatcher{rules: []keywordRule{
		// Cardiovascular
		{"chest pain", []string{SpecialtyCardiology, SpecialtyEmergencyMedicine}},
		{"heart", []string{SpecialtyCardiology}},
		{"palpitation", []string{SpecialtyCardiology}},
		{"hypertension", []string{SpecialtyCardiology, SpecialtyInternalMedicine}},
		{"cardiac", []string{SpecialtyCardiology, SpecialtyEmergencyMedicine}},

		// Neurological
		{"stroke", []string{SpecialtyNeurology, SpecialtyEmergencyMedicine}},
		{"seizure", []string{SpecialtyNeurology}},
		{"headache", []string{SpecialtyNeurology, SpecialtyInternalMedicine}},
		{"migraine", []string{SpecialtyNeurology}},
		{"numbness", []string{SpecialtyNeurology}},
		{"paralysis", []string{SpecialtyNeurology, SpecialtyEmergencyMedicine}},

		// Respiratory
		{"breathing", []string{"Pulmonology", SpecialtyEmergencyMedicine}},
		{"shortness of breath", []string{"Pulmonology", SpecialtyCardiology}},
		{"cough", []string{"Pulmonology", SpecialtyInternalMedicine}},
		{"asthma", []string{"Pulmonology"}},
		{"pneumonia", []string{"Pulmonology", "Infectious Disease"}},
		{"tuberculosis", []string{"Pulmonology", "Infectious Disease"}},

		// Gastrointestinal
		{"abdominal pain", []string{"Gastroenterology", "General Surgery"}},
		{"stomach", []string{"Gastroenterology"}},
		{"vomiting", []string{"Gastroenterology", SpecialtyInternalMedicine}},
		{"diarrhea", []string{"Gastroenterology", "Infectious Disease"}},
		{"jaundice", []string{"Gastroenterology", "Infectious Disease"}},

		// Pediatric
		{"child", []string{SpecialtyPediatrics}},
		{"infant", []string{SpecialtyPediatrics}},
		{"measles", []string{SpecialtyPediatrics, "Infectious Disease"}},

		// Infectious
		{"malaria", []string{"Infectious Disease", SpecialtyInternalMedicine}},
		{"fever", []string{SpecialtyInternalMedicine, "Infectious Disease"}},
		{"hiv", []string{"Infectious Disease"}},
		{"infection", []string{"Infectious Disease"}},

		// Surgical / trauma
		{"fracture", []string{"Orthopedic Surgery", SpecialtyEmergencyMedicine}},
		{"trauma", []string{SpecialtyEmergencyMedicine, "General Surgery"}},
		{"wound", []string{"General Surgery", SpecialtyEmergencyMedicine}},
		{"appendicitis", []string{"General Surgery"}},

		// Obstetric
		{"pregnant", []string{"Obstetrics & Gynecology"}},
		{"pregnancy", []string{"Obstetrics & Gynecology"}},
		{"labor", []string{"Obstetrics & Gynecology"}},

		// Mental health
		{"depression", []string{"Psychiatry"}},
		{"anxiety", []string{"Psychiatry"}},

		// Generic emergencies
		{"emergency", []string{SpecialtyEmergencyMedicine}},
		{"accident", []string{SpecialtyEmergencyMedicine}},
		{"unconscious", []string{SpecialtyEmergencyMedicine, SpecialtyNeurology}},
		{"bleeding", []string{SpecialtyEmergencyMedicine, "General Surgery"}},
	}}
}

// InferSpecialties maps a diagnosis text to candidate specialties. Every
// keyword found in the text contributes its specialties (union). Age
// overrides apply regardless of text: under 18 adds Pediatrics, over 65
// adds Geriatrics and Internal Medicine. The result is never empty: when
// nothing matches it falls back to Internal Medicine. Output preserves
// first-match order so callers rank deterministically.
func (m *SpecialtyMatcher) InferSpecialties(diagnosisText string, patientAge *int) []string {
	text := strings.ToLower(diagnosisText)

	var ordered []string
	seen := make(map[string]struct{})
	add := func(specialty string) {
		if _, ok := seen[specialty]; ok {
			return
		}
		seen[specialty] = struct{}{}
		ordered = append(ordered, specialty)
	}

	for _, rule := range m.rules {
		if strings.Contains(text, rule.keyword) {
			for _, specialty := range rule.specialties {
				add(specialty)
			}
		}
	}

	if patientAge != nil {
		if *patientAge < 18 {
			add(SpecialtyPediatrics)
		}
		if *patientAge > 65 {
			add(SpecialtyGeriatrics)
			add(SpecialtyInternalMedicine)
		}
	}

	if len(ordered) == 0 {
		add(SpecialtyInternalMedicine)
	}
	return ordered
}

// MatchText builds the haystack the matcher scans: the diagnosis's primary
// and secondary labels plus the symptom list, concatenated.
func MatchText(primary, secondary string, symptoms []string) string {
	parts := make([]string, 0, len(symptoms)+2)
	if primary != "" {
		parts = append(parts, primary)
	}
	if secondary != "" {
		parts = append(parts, secondary)
	}
	parts = append(parts, symptoms...)
	return strings.Join(parts, " ")
}
