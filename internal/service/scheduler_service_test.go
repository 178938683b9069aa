package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-scheduler-api/internal/dto"
	"github.com/noah-isme/campus-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/campus-scheduler-api/pkg/errors"
)

func newTestSchedulerService() *SchedulerService {
	return NewSchedulerService(nil, nil, nil, nil, nil, nil, SchedulerConfig{
		DefaultTimeLimit: 2 * time.Second,
		MaxTimeLimit:     5 * time.Second,
		Workers:          2,
		MaxGenerations:   60,
	})
}

func validScheduleRequest() dto.ScheduleRequest {
	return dto.ScheduleRequest{
		Courses: []dto.CourseRequest{
			{ID: "c1", Name: "Algorithms", ECTSCredits: 8, TeacherID: "t1", SessionType: "LECTURE", SessionsPerWeek: 2, StudentGroupIDs: []string{"g1"}},
			{ID: "c2", Name: "Databases Lab", ECTSCredits: 5, TeacherID: "t1", SessionType: "LAB", SessionsPerWeek: 1, StudentGroupIDs: []string{"g2"}},
		},
		Teachers: []dto.TeacherRequest{
			{ID: "t1", Name: "Alice Marsh", Email: "alice@campus.edu"},
		},
		Rooms: []dto.RoomRequest{
			{ID: "r1", Name: "Main Hall", Capacity: 60, Type: "LECTURE", WheelchairAccessible: true},
			{ID: "r2", Name: "Lab West", Capacity: 30, Type: "LAB", WheelchairAccessible: true},
		},
		StudentGroups: []dto.StudentGroupRequest{
			{ID: "g1", Name: "CS-1A", Size: 20},
			{ID: "g2", Name: "CS-1B", Size: 25},
		},
		Timeslots: []dto.TimeslotRequest{
			{ID: "s1", Code: "T1", Order: 1},
			{ID: "s2", Code: "T2", Order: 2},
			{ID: "s3", Code: "T3", Order: 3},
		},
		TimeLimit: 2,
	}
}

func TestScheduleRejectsEmptyRequest(t *testing.T) {
	svc := newTestSchedulerService()

	_, err := svc.Schedule(context.Background(), dto.ScheduleRequest{})
	require.Error(t, err)

	var verr *RequestValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields)
}

func TestScheduleRejectsDuplicateIDs(t *testing.T) {
	svc := newTestSchedulerService()

	req := validScheduleRequest()
	req.Teachers = append(req.Teachers, dto.TeacherRequest{ID: "t1", Name: "Imposter"})

	_, err := svc.Schedule(context.Background(), req)
	require.Error(t, err)

	var verr *RequestValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "teachers[1].id", verr.Fields[0].Field)
}

func TestScheduleRejectsInvalidConstraintPayload(t *testing.T) {
	svc := newTestSchedulerService()

	req := validScheduleRequest()
	req.Constraints = []dto.ConstraintRequest{
		{
			ID:       "p1",
			Type:     models.WireTeacherTimePreference,
			Priority: 5,
			Value:    map[string]interface{}{"preference": "SOMETIMES"},
		},
	}

	_, err := svc.Schedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestScheduleRunsAndReports(t *testing.T) {
	svc := newTestSchedulerService()

	req := validScheduleRequest()
	seed := int64(42)
	req.Seed = &seed

	resp, err := svc.Schedule(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.TaskID)
	assert.Len(t, resp.BestSchedule, 3)
	require.NotNil(t, resp.Report)
	assert.Equal(t, resp.Report.HardViolationCount == 0, resp.Report.Feasible)
	assert.NotEmpty(t, resp.Report.FitnessVector)
	assert.Positive(t, resp.Report.RunMetrics.TotalGenerations)
	assert.Positive(t, resp.TimeTaken)
}

func TestEvaluateReportsBreakdown(t *testing.T) {
	svc := newTestSchedulerService()

	base := validScheduleRequest()
	req := dto.EvaluateRequest{
		Courses:       base.Courses,
		Teachers:      base.Teachers,
		Rooms:         base.Rooms,
		StudentGroups: base.StudentGroups,
		Timeslots:     base.Timeslots,
		Schedule: []dto.ScheduledItemRequest{
			{CourseID: "c1", SessionType: "LECTURE", TeacherID: "t1", StudentGroupIDs: []string{"g1"},
				ClassroomID: "r1", TimeslotCode: "T1", Day: "Monday"},
			{CourseID: "c1", SessionType: "LECTURE", TeacherID: "t1", StudentGroupIDs: []string{"g1"},
				ClassroomID: "r1", TimeslotCode: "T1", Day: "Wednesday"},
			// Same cell as the first item: room and teacher collide.
			{CourseID: "c2", SessionType: "LAB", TeacherID: "t1", StudentGroupIDs: []string{"g2"},
				ClassroomID: "r1", TimeslotCode: "T1", Day: "Monday"},
		},
	}

	resp, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Summary.IsFeasible)
	// Room conflict, teacher conflict and the lab-in-lecture-hall
	// mismatch are all hard.
	assert.Equal(t, 3, resp.Summary.TotalHardViolations)
	assert.Equal(t, resp.Summary.TotalViolations, len(resp.Violations))
	assert.NotEmpty(t, resp.Categories)
	require.NotEmpty(t, resp.Violations)
	for _, line := range resp.Violations {
		assert.True(t, strings.HasPrefix(line, "[HARD]") || strings.HasPrefix(line, "[SOFT]"))
	}

	breakdown, ok := resp.Categories[string(models.CategoryRoomConflict)]
	require.True(t, ok)
	assert.Equal(t, 1, breakdown.Count)
	assert.LessOrEqual(t, len(breakdown.Violations), maxViolationSamples)
}

func TestEvaluateCleanScheduleFeasible(t *testing.T) {
	svc := newTestSchedulerService()

	base := validScheduleRequest()
	req := dto.EvaluateRequest{
		Courses:       base.Courses,
		Teachers:      base.Teachers,
		Rooms:         base.Rooms,
		StudentGroups: base.StudentGroups,
		Timeslots:     base.Timeslots,
		Schedule: []dto.ScheduledItemRequest{
			{CourseID: "c1", SessionType: "LECTURE", TeacherID: "t1", StudentGroupIDs: []string{"g1"},
				ClassroomID: "r1", TimeslotCode: "T1", Day: "Monday"},
			{CourseID: "c1", SessionType: "LECTURE", TeacherID: "t1", StudentGroupIDs: []string{"g1"},
				ClassroomID: "r1", TimeslotCode: "T1", Day: "Wednesday"},
			{CourseID: "c2", SessionType: "LAB", TeacherID: "t1", StudentGroupIDs: []string{"g2"},
				ClassroomID: "r2", TimeslotCode: "T1", Day: "Tuesday"},
		},
	}

	resp, err := svc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Summary.IsFeasible)
	assert.Zero(t, resp.Summary.TotalHardViolations)
	assert.Zero(t, resp.Summary.TotalSoftPenalty)
}

func TestTaskUnknownIDNotReady(t *testing.T) {
	svc := newTestSchedulerService()

	_, err := svc.Task(context.Background(), "missing-task")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTaskNotReady.Code, appErrors.FromError(err).Code)
}
