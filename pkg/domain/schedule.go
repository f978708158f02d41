package domain

import "github.com/google/uuid"

// Schedule is a doctor's recurring weekly office-hours block.
type Schedule struct {
	ID      uuid.UUID `json:"id"`
	Weekday int       `json:"diaSemana"`  // 1 (Monday) through 6 (Saturday)
	Start   string    `json:"horaInicio"` // "08:00"
	End     string    `json:"horaFim"`    // "17:00"
}

// Weekday labels for schedule forms. The clinic does not open on Sundays,
// so weekday 0 is never offered.
var Weekdays = []struct {
	Value int
	Label string
}{
	{1, "Monday"},
	{2, "Tuesday"},
	{3, "Wednesday"},
	{4, "Thursday"},
	{5, "Friday"},
	{6, "Saturday"},
}

// WeekdayName returns the label for a schedule weekday value.
func WeekdayName(value int) string {
	for _, d := range Weekdays {
		if d.Value == value {
			return d.Label
		}
	}
	return "Sunday"
}

// ValidWeekday returns true for a bookable weekday value.
func ValidWeekday(value int) bool {
	return value >= 1 && value <= 6
}
