package models

// RoomType categorizes a classroom by the kind of session it hosts.
type RoomType string

const (
	RoomLecture RoomType = "LECTURE"
	RoomLab     RoomType = "LAB"
	RoomSeminar RoomType = "SEMINAR"
)

// ValidRoomType reports whether t is a known room type.
func ValidRoomType(t RoomType) bool {
	switch t {
	case RoomLecture, RoomLab, RoomSeminar:
		return true
	}
	return false
}

// Classroom is a physical room available for scheduling.
type Classroom struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Capacity             int      `json:"capacity"`
	Type                 RoomType `json:"type"`
	BuildingID           string   `json:"buildingId"`
	Floor                int      `json:"floor"`
	WheelchairAccessible bool     `json:"wheelchairAccessible"`
}
