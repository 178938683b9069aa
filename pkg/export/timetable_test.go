package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

func sampleSchedule() []models.ScheduledItem {
	return []models.ScheduledItem{
		{CourseID: "c2", CourseName: "Databases Lab", SessionType: models.RoomLab,
			TeacherID: "t1", StudentGroupIDs: []string{"g2"}, ClassroomID: "r2",
			TimeslotCode: "T2", Day: "Wednesday"},
		{CourseID: "c1", CourseName: "Algorithms", SessionType: models.RoomLecture,
			TeacherID: "t1", StudentGroupIDs: []string{"g1"}, ClassroomID: "r1",
			TimeslotCode: "T3", Day: "Monday"},
		{CourseID: "c3", CourseName: "Linear Algebra", SessionType: models.RoomLecture,
			TeacherID: "t2", StudentGroupIDs: []string{"g1", "g2"}, ClassroomID: "r1",
			TimeslotCode: "T1", Day: "Monday"},
	}
}

func TestTimetableDatasetOrdersByDayThenSlot(t *testing.T) {
	data := TimetableDataset(sampleSchedule(), nil)

	require.Equal(t, timetableHeaders, data.Headers)
	require.Len(t, data.Rows, 3)
	require.Equal(t, "Linear Algebra", data.Rows[0]["Course"])
	require.Equal(t, "Algorithms", data.Rows[1]["Course"])
	require.Equal(t, "Databases Lab", data.Rows[2]["Course"])
	require.Equal(t, "g1, g2", data.Rows[0]["Groups"])
}

func TestTimetableDatasetCustomSlotOrder(t *testing.T) {
	// Inverted order puts T3 before T1 within Monday.
	order := func(code string) int {
		return -int(code[1])
	}
	data := TimetableDataset(sampleSchedule(), order)

	require.Equal(t, "Algorithms", data.Rows[0]["Course"])
	require.Equal(t, "Linear Algebra", data.Rows[1]["Course"])
}

func TestCSVExporterRendersTimetable(t *testing.T) {
	payload, err := NewCSVExporter().Render(TimetableDataset(sampleSchedule(), nil))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "Day,Timeslot,Course,Session,Teacher,Room,Groups", lines[0])
	require.Contains(t, lines[1], "Linear Algebra")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRendersTimetable(t *testing.T) {
	payload, err := NewPDFExporter().Render(TimetableDataset(sampleSchedule(), nil), "Weekly Timetable")
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	require.Equal(t, "%PDF", string(payload[:4]))
}
