package models

import "fmt"

// ConstraintCategory identifies one class of timetable violation.
type ConstraintCategory string

// Hard categories. Any violation in one of these makes a schedule
// infeasible and dominates every soft penalty total.
const (
	CategoryTeacherConflict               ConstraintCategory = "TEACHER_CONFLICT"
	CategoryStudentGroupConflict          ConstraintCategory = "STUDENT_GROUP_CONFLICT"
	CategoryRoomConflict                  ConstraintCategory = "ROOM_CONFLICT"
	CategoryTeacherWheelchairAccess       ConstraintCategory = "TEACHER_WHEELCHAIR_ACCESS"
	CategoryStudentGroupWheelchairAccess  ConstraintCategory = "STUDENT_GROUP_WHEELCHAIR_ACCESS"
	CategoryMissingData                   ConstraintCategory = "MISSING_DATA"
	CategoryInvalidScheduling             ConstraintCategory = "INVALID_SCHEDULING"
	CategoryRoomTypeMismatch              ConstraintCategory = "ROOM_TYPE_MISMATCH"
	CategoryUnassignedRoom                ConstraintCategory = "UNASSIGNED_ROOM"
)

// Soft categories. Each contributes a bounded penalty.
const (
	CategoryRoomCapacityOverflow       ConstraintCategory = "ROOM_CAPACITY_OVERFLOW"
	CategoryTeacherScheduleCompactness ConstraintCategory = "TEACHER_SCHEDULE_COMPACTNESS"
	CategoryTeacherTimePreference      ConstraintCategory = "TEACHER_TIME_PREFERENCE"
	CategoryTeacherRoomPreference      ConstraintCategory = "TEACHER_ROOM_PREFERENCE"
	CategoryTeacherConsecutiveMovement ConstraintCategory = "TEACHER_CONSECUTIVE_MOVEMENT"
	CategoryECTSPriorityViolation      ConstraintCategory = "ECTS_PRIORITY_VIOLATION"
)

// HardCategories lists every hard category in the order used by the
// fitness vector. The order is part of the report contract.
var HardCategories = []ConstraintCategory{
	CategoryTeacherConflict,
	CategoryStudentGroupConflict,
	CategoryRoomConflict,
	CategoryTeacherWheelchairAccess,
	CategoryStudentGroupWheelchairAccess,
	CategoryMissingData,
	CategoryInvalidScheduling,
	CategoryRoomTypeMismatch,
	CategoryUnassignedRoom,
}

// SoftCategories lists every soft category in fitness-vector order.
var SoftCategories = []ConstraintCategory{
	CategoryRoomCapacityOverflow,
	CategoryTeacherScheduleCompactness,
	CategoryTeacherTimePreference,
	CategoryTeacherRoomPreference,
	CategoryTeacherConsecutiveMovement,
	CategoryECTSPriorityViolation,
}

// IsHard reports whether the category is a feasibility constraint.
func (c ConstraintCategory) IsHard() bool {
	for _, h := range HardCategories {
		if c == h {
			return true
		}
	}
	return false
}

// Wire names for user-suppliable constraint types. These round-trip with
// the HTTP payload: unknown names are rejected at validation time.
const (
	WireTeacherTimePreference    = "Teacher Time Preference"
	WireTeacherRoomPreference    = "Teacher Room Preference"
	WireScheduleCompactness      = "Teacher Schedule Compactness"
	WireECTSCoursePriority       = "ECTS Course Priority"
	WireConsecutiveMovement      = "Minimize Consecutive Room Movement"
	WireEfficientRoomUtilization = "Efficient Room Utilization"
)

var wireToCategory = map[string]ConstraintCategory{
	WireTeacherTimePreference:    CategoryTeacherTimePreference,
	WireTeacherRoomPreference:    CategoryTeacherRoomPreference,
	WireScheduleCompactness:      CategoryTeacherScheduleCompactness,
	WireECTSCoursePriority:       CategoryECTSPriorityViolation,
	WireConsecutiveMovement:      CategoryTeacherConsecutiveMovement,
	WireEfficientRoomUtilization: CategoryRoomCapacityOverflow,
}

var categoryToWire = func() map[ConstraintCategory]string {
	m := make(map[ConstraintCategory]string, len(wireToCategory))
	for wire, cat := range wireToCategory {
		m[cat] = wire
	}
	return m
}()

// CategoryFromWire resolves a user-facing constraint type name.
func CategoryFromWire(name string) (ConstraintCategory, error) {
	cat, ok := wireToCategory[name]
	if !ok {
		return "", fmt.Errorf("unknown constraint type %q", name)
	}
	return cat, nil
}

// WireName returns the user-facing name for a soft category, or the raw
// category string for system categories that have no wire form.
func (c ConstraintCategory) WireName() string {
	if wire, ok := categoryToWire[c]; ok {
		return wire
	}
	return string(c)
}

// PreferenceKind is the polarity of a time or room preference payload.
type PreferenceKind string

const (
	PreferencePrefer  PreferenceKind = "PREFER"
	PreferenceAvoid   PreferenceKind = "AVOID"
	PreferenceNeutral PreferenceKind = "NEUTRAL"
)

// ValidPreference reports whether p is a known preference polarity.
func ValidPreference(p PreferenceKind) bool {
	switch p {
	case PreferencePrefer, PreferenceAvoid, PreferenceNeutral:
		return true
	}
	return false
}

// Constraint is one user-supplied scheduling rule. When TeacherID is set
// the rule applies only to that teacher's sessions; otherwise campus-wide.
// Value carries a category-specific payload validated by the registry.
type Constraint struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	TeacherID string                 `json:"teacherId,omitempty"`
	Value     map[string]interface{} `json:"value"`
	Priority  float64                `json:"priority"`
	Category  ConstraintCategory     `json:"-"`
}
