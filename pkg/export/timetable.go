package export

import (
	"sort"
	"strings"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

var timetableHeaders = []string{"Day", "Timeslot", "Course", "Session", "Teacher", "Room", "Groups"}

// TimetableDataset flattens a schedule into tabular form ordered by day
// then timeslot, ready for the CSV and PDF exporters.
func TimetableDataset(schedule []models.ScheduledItem, slotOrder func(code string) int) Dataset {
	dayRank := make(map[models.Day]int, len(models.Weekdays))
	for i, d := range models.Weekdays {
		dayRank[d] = i
	}

	sorted := append([]models.ScheduledItem(nil), schedule...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if dayRank[sorted[a].Day] != dayRank[sorted[b].Day] {
			return dayRank[sorted[a].Day] < dayRank[sorted[b].Day]
		}
		if slotOrder != nil {
			return slotOrder(sorted[a].TimeslotCode) < slotOrder(sorted[b].TimeslotCode)
		}
		return sorted[a].TimeslotCode < sorted[b].TimeslotCode
	})

	rows := make([]map[string]string, 0, len(sorted))
	for _, item := range sorted {
		rows = append(rows, map[string]string{
			"Day":      string(item.Day),
			"Timeslot": item.TimeslotCode,
			"Course":   item.CourseName,
			"Session":  string(item.SessionType),
			"Teacher":  item.TeacherID,
			"Room":     item.ClassroomID,
			"Groups":   strings.Join(item.StudentGroupIDs, ", "),
		})
	}

	return Dataset{Headers: timetableHeaders, Rows: rows}
}
