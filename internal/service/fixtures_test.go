package service

import (
	"fmt"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// fixtureTimeslots builds n slots coded T1..Tn with ascending order.
func fixtureTimeslots(n int) []models.Timeslot {
	slots := make([]models.Timeslot, 0, n)
	for i := 1; i <= n; i++ {
		slots = append(slots, models.Timeslot{
			ID:    fmt.Sprintf("slot-%d", i),
			Code:  fmt.Sprintf("T%d", i),
			Label: fmt.Sprintf("Slot %d", i),
			Order: i,
		})
	}
	return slots
}

// fixtureProblem is a small campus: two teachers, three rooms, two
// groups, three courses across six timeslots.
func fixtureProblem() *Problem {
	p := &Problem{
		Teachers: []models.Teacher{
			{ID: "t1", Name: "Alice Marsh", Email: "alice@campus.edu", Department: "CS"},
			{ID: "t2", Name: "Bram Kovac", Email: "bram@campus.edu", Department: "CS", NeedsAccessibleRoom: true},
		},
		Classrooms: []models.Classroom{
			{ID: "r1", Name: "Main Hall", Capacity: 60, Type: models.RoomLecture, BuildingID: "b1", WheelchairAccessible: true},
			{ID: "r2", Name: "Lab West", Capacity: 25, Type: models.RoomLab, BuildingID: "b2", WheelchairAccessible: true},
			{ID: "r3", Name: "Annex 3", Capacity: 15, Type: models.RoomLecture, BuildingID: "b2"},
		},
		StudentGroups: []models.StudentGroup{
			{ID: "g1", Name: "CS-1A", Size: 20, Department: "CS"},
			{ID: "g2", Name: "CS-1B", Size: 25, Department: "CS"},
		},
		Courses: []models.Course{
			{ID: "c1", Name: "Algorithms", ECTSCredits: 8, TeacherID: "t1", SessionType: models.RoomLecture, SessionsPerWeek: 2, StudentGroupIDs: []string{"g1"}},
			{ID: "c2", Name: "Databases Lab", ECTSCredits: 5, TeacherID: "t1", SessionType: models.RoomLab, SessionsPerWeek: 1, StudentGroupIDs: []string{"g2"}},
			{ID: "c3", Name: "Linear Algebra", ECTSCredits: 6, TeacherID: "t2", SessionType: models.RoomLecture, SessionsPerWeek: 1, StudentGroupIDs: []string{"g1", "g2"}},
		},
		Timeslots: fixtureTimeslots(6),
	}
	p.Registry = mustRegistry(nil)
	p.Index()
	return p
}

func mustRegistry(constraints []models.Constraint) *ConstraintRegistry {
	r, err := NewConstraintRegistry(constraints)
	if err != nil {
		panic(err)
	}
	return r
}

func mustPenalties(p *Problem) *PenaltyManager {
	m, err := NewPenaltyManager(len(p.Courses), len(p.Teachers), p.Registry)
	if err != nil {
		panic(err)
	}
	return m
}

// fixtureChromosome hand-places every session without conflicts:
// rooms match session types, accessible rooms for t2, no double booking.
func fixtureChromosome(p *Problem) models.Chromosome {
	return models.Chromosome{
		{CourseID: "c1", CourseName: "Algorithms", SessionType: models.RoomLecture, TeacherID: "t1",
			StudentGroupIDs: []string{"g1"}, ClassroomID: "r1", TimeslotCode: "T1", Day: models.DayMonday},
		{CourseID: "c1", CourseName: "Algorithms", SessionType: models.RoomLecture, TeacherID: "t1",
			StudentGroupIDs: []string{"g1"}, ClassroomID: "r1", TimeslotCode: "T1", Day: models.DayWednesday},
		{CourseID: "c2", CourseName: "Databases Lab", SessionType: models.RoomLab, TeacherID: "t1",
			StudentGroupIDs: []string{"g2"}, ClassroomID: "r2", TimeslotCode: "T2", Day: models.DayThursday},
		{CourseID: "c3", CourseName: "Linear Algebra", SessionType: models.RoomLecture, TeacherID: "t2",
			StudentGroupIDs: []string{"g1", "g2"}, ClassroomID: "r1", TimeslotCode: "T3", Day: models.DayTuesday},
	}
}

func countCategory(violations []models.ConstraintViolation, cat models.ConstraintCategory) int {
	n := 0
	for _, v := range violations {
		if v.Category == cat {
			n++
		}
	}
	return n
}
