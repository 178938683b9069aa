package models

// Day is one of the five weekdays the timetable spans.
type Day string

const (
	DayMonday    Day = "Monday"
	DayTuesday   Day = "Tuesday"
	DayWednesday Day = "Wednesday"
	DayThursday  Day = "Thursday"
	DayFriday    Day = "Friday"
)

// Weekdays lists the closed set of schedulable days in week order.
var Weekdays = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday}

// ValidDay reports whether d belongs to the schedulable week.
func ValidDay(d Day) bool {
	for _, day := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Timeslot is one schedulable period of the weekly grid. Order defines
// strict precedence within a day; two slots are consecutive iff their
// orders differ by one on the same day.
type Timeslot struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
	Order int    `json:"order"`
}
