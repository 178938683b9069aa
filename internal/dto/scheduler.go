package dto

import "github.com/noah-isme/campus-scheduler-api/internal/models"

// ScheduleRequest is the full problem statement for one scheduling run.
// TimeLimit is in seconds; the server clamps it to its configured cap.
type ScheduleRequest struct {
	Courses       []CourseRequest       `json:"courses" validate:"required,min=1,dive"`
	Teachers      []TeacherRequest      `json:"teachers" validate:"required,min=1,dive"`
	Rooms         []RoomRequest         `json:"rooms" validate:"required,min=1,dive"`
	StudentGroups []StudentGroupRequest `json:"studentGroups" validate:"required,min=1,dive"`
	Timeslots     []TimeslotRequest     `json:"timeslots" validate:"required,min=1,dive"`
	Constraints   []ConstraintRequest   `json:"constraints" validate:"omitempty,dive"`
	TimeLimit     int                   `json:"timeLimit" validate:"omitempty,min=1,max=300"`
	Seed          *int64                `json:"seed,omitempty"`
}

// EvaluateRequest scores an existing schedule against the same problem
// data without running the search.
type EvaluateRequest struct {
	Schedule      []ScheduledItemRequest `json:"schedule" validate:"required,min=1,dive"`
	Courses       []CourseRequest        `json:"courses" validate:"required,min=1,dive"`
	Teachers      []TeacherRequest       `json:"teachers" validate:"required,min=1,dive"`
	Rooms         []RoomRequest          `json:"rooms" validate:"required,min=1,dive"`
	StudentGroups []StudentGroupRequest  `json:"studentGroups" validate:"required,min=1,dive"`
	Timeslots     []TimeslotRequest      `json:"timeslots" validate:"required,min=1,dive"`
	Constraints   []ConstraintRequest    `json:"constraints" validate:"omitempty,dive"`
}

// TimeslotRequest mirrors models.Timeslot on the wire.
type TimeslotRequest struct {
	ID    string `json:"id" validate:"required"`
	Code  string `json:"code" validate:"required"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
	Order int    `json:"order" validate:"min=0"`
}

// RoomRequest mirrors models.Classroom on the wire.
type RoomRequest struct {
	ID                   string `json:"id" validate:"required"`
	Name                 string `json:"name" validate:"required"`
	Capacity             int    `json:"capacity" validate:"required,gt=0"`
	Type                 string `json:"type" validate:"required,oneof=LECTURE LAB SEMINAR"`
	BuildingID           string `json:"buildingId"`
	Floor                int    `json:"floor"`
	WheelchairAccessible bool   `json:"wheelchairAccessible"`
}

// TeacherRequest mirrors models.Teacher on the wire.
type TeacherRequest struct {
	ID                  string `json:"id" validate:"required"`
	Name                string `json:"name" validate:"required"`
	Email               string `json:"email" validate:"omitempty,email"`
	Phone               string `json:"phone"`
	Department          string `json:"department"`
	NeedsAccessibleRoom bool   `json:"needsAccessibleRoom"`
}

// StudentGroupRequest mirrors models.StudentGroup on the wire.
type StudentGroupRequest struct {
	ID                    string `json:"id" validate:"required"`
	Name                  string `json:"name" validate:"required"`
	Size                  int    `json:"size" validate:"required,gt=0"`
	Department            string `json:"department"`
	AccessibilityRequired bool   `json:"accessibilityRequired"`
}

// CourseRequest mirrors models.Course on the wire.
type CourseRequest struct {
	ID              string   `json:"id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	ECTSCredits     int      `json:"ectsCredits" validate:"min=0"`
	Department      string   `json:"department"`
	TeacherID       string   `json:"teacherId" validate:"required"`
	SessionType     string   `json:"sessionType" validate:"required,oneof=LECTURE LAB SEMINAR"`
	SessionsPerWeek int      `json:"sessionsPerWeek" validate:"required,gt=0"`
	StudentGroupIDs []string `json:"studentGroupIds" validate:"required,min=1"`
}

// ConstraintRequest mirrors models.Constraint on the wire.
type ConstraintRequest struct {
	ID        string                 `json:"id" validate:"required"`
	Type      string                 `json:"type" validate:"required"`
	TeacherID string                 `json:"teacherId"`
	Value     map[string]interface{} `json:"value"`
	Priority  float64                `json:"priority" validate:"min=0,max=10"`
}

// ScheduledItemRequest mirrors models.ScheduledItem on the wire.
type ScheduledItemRequest struct {
	CourseID        string   `json:"courseId" validate:"required"`
	CourseName      string   `json:"courseName"`
	SessionType     string   `json:"sessionType" validate:"required,oneof=LECTURE LAB SEMINAR"`
	TeacherID       string   `json:"teacherId" validate:"required"`
	StudentGroupIDs []string `json:"studentGroupIds"`
	ClassroomID     string   `json:"classroomId"`
	TimeslotCode    string   `json:"timeslotCode"`
	Day             string   `json:"day"`
}

// ScheduleResponse is the payload under data for a completed run.
type ScheduleResponse struct {
	TaskID       string                 `json:"task_id"`
	BestSchedule []models.ScheduledItem `json:"best_schedule"`
	BestFitness  float64                `json:"best_fitness"`
	Report       *ScheduleReport        `json:"report"`
	TimeTaken    float64                `json:"time_taken"`
}

// ScheduleReport summarizes the winning candidate plus the adaptive
// run metrics.
type ScheduleReport struct {
	Feasible           bool                      `json:"feasible"`
	HardViolationCount int                       `json:"hard_violation_count"`
	SoftPenaltyTotal   float64                   `json:"soft_penalty_total"`
	Violations         []string                  `json:"violations"`
	FitnessVector      []float64                 `json:"fitness_vector"`
	RunMetrics         models.AdaptiveRunMetrics `json:"run_metrics"`
}

// EvaluationSummary heads the evaluate response.
type EvaluationSummary struct {
	IsFeasible          bool    `json:"is_feasible"`
	TotalHardViolations int     `json:"total_hard_violations"`
	TotalSoftPenalty    float64 `json:"total_soft_penalty"`
	TotalViolations     int     `json:"total_violations"`
	EvaluationTime      float64 `json:"evaluation_time"`
}

// CategoryBreakdown details one violation category, with at most five
// sample descriptions.
type CategoryBreakdown struct {
	Count        int      `json:"count"`
	TotalPenalty float64  `json:"total_penalty"`
	Violations   []string `json:"violations"`
}

// EvaluateResponse is the full evaluate contract.
type EvaluateResponse struct {
	Summary       EvaluationSummary            `json:"summary"`
	Violations    []string                     `json:"violations"`
	Categories    map[string]CategoryBreakdown `json:"categories"`
	FitnessVector []float64                    `json:"fitness_vector"`
}

// ValidationFieldError is one per-field failure in a 422 response.
type ValidationFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
