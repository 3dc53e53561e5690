package entities

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Specialist represents a credentialed medical professional and their
// practice metadata. Records are loaded once from the roster and treated
// as read-only by the engine.
type Specialist struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Specialization  string    `json:"specialization"`
	SubSpecialties  []string  `json:"sub_specialties"`
	Location        string    `json:"location"` // "City, Country"
	Country         string    `json:"country"`
	Languages       []string  `json:"languages"`
	ExperienceYears int       `json:"experience_years"`
	Rating          float64   `json:"rating"` // 0.0 - 5.0
	ConsultationFee float64   `json:"consultation_fee"`
	WorkingHours    WeekHours `json:"working_hours"`
}

// DayHours describes a working window for a single weekday. A nil entry in
// Specialist.WorkingHours means the specialist has no hours that day.
type DayHours struct {
	Start string `json:"start"` // "15:04"
	End   string `json:"end"`
}

// WeekHours maps weekdays to optional working windows. It marshals with
// lowercase day names so roster files stay human-readable.
type WeekHours map[time.Weekday]*DayHours

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// MarshalJSON implements json.Marshaler
func (w WeekHours) MarshalJSON() ([]byte, error) {
	out := make(map[string]*DayHours, len(w))
	for day, hours := range w {
		out[strings.ToLower(day.String())] = hours
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (w *WeekHours) UnmarshalJSON(data []byte) error {
	var raw map[string]*DayHours
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := make(WeekHours, len(raw))
	for name, hours := range raw {
		day, ok := dayNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("unknown weekday %q in working hours", name)
		}
		parsed[day] = hours
	}
	*w = parsed
	return nil
}

// HoursOn returns the working window for a weekday, nil when none configured.
func (s *Specialist) HoursOn(day time.Weekday) *DayHours {
	if s.WorkingHours == nil {
		return nil
	}
	return s.WorkingHours[day]
}
