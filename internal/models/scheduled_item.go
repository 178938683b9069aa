package models

// ScheduledItem is one gene of a candidate timetable: a single required
// course-session instance placed into a (room, day, timeslot) cell. The
// identity fields (course, teacher, groups, session type) are fixed by
// the template; only the placement fields mutate during search.
type ScheduledItem struct {
	CourseID        string   `json:"courseId"`
	CourseName      string   `json:"courseName"`
	SessionType     RoomType `json:"sessionType"`
	TeacherID       string   `json:"teacherId"`
	StudentGroupIDs []string `json:"studentGroupIds"`
	ClassroomID     string   `json:"classroomId"`
	TimeslotCode    string   `json:"timeslotCode"`
	Day             Day      `json:"day"`
}

// Chromosome is one candidate full schedule. Gene order is stable across
// generations: index i always represents the same (course, instance) pair.
type Chromosome []ScheduledItem

// Clone returns a deep copy safe to mutate independently.
func (c Chromosome) Clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	for i := range out {
		if len(c[i].StudentGroupIDs) > 0 {
			out[i].StudentGroupIDs = append([]string(nil), c[i].StudentGroupIDs...)
		}
	}
	return out
}
