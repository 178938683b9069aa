package models

// Course yields SessionsPerWeek independent session instances, each of
// which claims one (room, day, timeslot) cell in the timetable.
type Course struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ECTSCredits     int      `json:"ectsCredits"`
	Department      string   `json:"department"`
	TeacherID       string   `json:"teacherId"`
	SessionType     RoomType `json:"sessionType"`
	SessionsPerWeek int      `json:"sessionsPerWeek"`
	StudentGroupIDs []string `json:"studentGroupIds"`
}

// TotalSessions sums the weekly session instances across courses. It is
// the chromosome length for a run.
func TotalSessions(courses []Course) int {
	total := 0
	for _, c := range courses {
		total += c.SessionsPerWeek
	}
	return total
}
