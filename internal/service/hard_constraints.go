package service

import (
	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// missingDataValidator flags dangling references. Lookups never crash an
// evaluation; every missing id becomes one violation.
type missingDataValidator struct{}

func (missingDataValidator) Category() models.ConstraintCategory { return models.CategoryMissingData }

func (missingDataValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	var out []models.ConstraintViolation

	if _, ok := ctx.Problem.Course(item.CourseID); !ok {
		out = append(out, hardViolation(models.CategoryMissingData, item, nil,
			"course %s not found", item.CourseID))
	}
	if _, ok := ctx.Problem.Teacher(item.TeacherID); !ok {
		out = append(out, hardViolation(models.CategoryMissingData, item, nil,
			"teacher %s not found", item.TeacherID))
	}
	if item.ClassroomID != "" {
		if _, ok := ctx.Problem.Classroom(item.ClassroomID); !ok {
			out = append(out, hardViolation(models.CategoryMissingData, item, nil,
				"classroom %s not found", item.ClassroomID))
		}
	}
	for _, groupID := range item.StudentGroupIDs {
		if _, ok := ctx.Problem.StudentGroup(groupID); !ok {
			out = append(out, hardViolation(models.CategoryMissingData, item, nil,
				"student group %s not found", groupID))
		}
	}
	return out
}

// invalidSchedulingValidator flags placements outside the weekly grid.
type invalidSchedulingValidator struct{}

func (invalidSchedulingValidator) Category() models.ConstraintCategory {
	return models.CategoryInvalidScheduling
}

func (invalidSchedulingValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	var out []models.ConstraintViolation

	if !models.ValidDay(item.Day) {
		out = append(out, hardViolation(models.CategoryInvalidScheduling, item, nil,
			"day %q is not schedulable", item.Day))
	}
	if item.TimeslotCode == "" {
		out = append(out, hardViolation(models.CategoryInvalidScheduling, item, nil,
			"course %s has no timeslot", item.CourseID))
	} else if _, ok := ctx.Problem.Timeslot(item.TimeslotCode); !ok {
		out = append(out, hardViolation(models.CategoryInvalidScheduling, item, nil,
			"timeslot %s not found", item.TimeslotCode))
	}
	return out
}

// unassignedRoomValidator flags genes that never received a room.
type unassignedRoomValidator struct{}

func (unassignedRoomValidator) Category() models.ConstraintCategory {
	return models.CategoryUnassignedRoom
}

func (unassignedRoomValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	if ctx.Item.ClassroomID != "" {
		return nil
	}
	return []models.ConstraintViolation{hardViolation(models.CategoryUnassignedRoom, ctx.Item, nil,
		"course %s session has no assigned room", ctx.Item.CourseID)}
}

// roomTypeValidator requires the room kind to match the session kind.
type roomTypeValidator struct{}

func (roomTypeValidator) Category() models.ConstraintCategory {
	return models.CategoryRoomTypeMismatch
}

func (roomTypeValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	room, ok := ctx.Problem.Classroom(item.ClassroomID)
	if !ok {
		return nil
	}
	if room.Type == item.SessionType {
		return nil
	}
	return []models.ConstraintViolation{hardViolation(models.CategoryRoomTypeMismatch, item, nil,
		"course %s needs a %s room but %s is %s", item.CourseID, item.SessionType, room.Name, room.Type)}
}

// accessibilityValidator enforces wheelchair access for teachers and
// student groups that require it.
type accessibilityValidator struct{}

func (accessibilityValidator) Category() models.ConstraintCategory {
	return models.CategoryTeacherWheelchairAccess
}

func (accessibilityValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	room, ok := ctx.Problem.Classroom(item.ClassroomID)
	if !ok || room.WheelchairAccessible {
		return nil
	}

	var out []models.ConstraintViolation
	if teacher, ok := ctx.Problem.Teacher(item.TeacherID); ok && teacher.NeedsAccessibleRoom {
		out = append(out, hardViolation(models.CategoryTeacherWheelchairAccess, item, nil,
			"teacher %s requires an accessible room; %s is not", teacher.Name, room.Name))
	}
	for _, groupID := range item.StudentGroupIDs {
		if group, ok := ctx.Problem.StudentGroup(groupID); ok && group.AccessibilityRequired {
			out = append(out, hardViolation(models.CategoryStudentGroupWheelchairAccess, item, nil,
				"group %s requires an accessible room; %s is not", group.Name, room.Name))
		}
	}
	return out
}

// roomConflictValidator claims the room's (day, timeslot) cell. The
// first occupant wins; later claimants are the offenders.
type roomConflictValidator struct{}

func (roomConflictValidator) Category() models.ConstraintCategory {
	return models.CategoryRoomConflict
}

func (roomConflictValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	if item.ClassroomID == "" || item.TimeslotCode == "" {
		return nil
	}
	first, claimed := ctx.RoomOccupancy.Claim(item.ClassroomID, item.Day, item.TimeslotCode, item)
	if claimed {
		return nil
	}
	return []models.ConstraintViolation{hardViolation(models.CategoryRoomConflict, item, first,
		"room %s double-booked on %s %s", item.ClassroomID, item.Day, item.TimeslotCode)}
}

// teacherConflictValidator claims the teacher's cell.
type teacherConflictValidator struct{}

func (teacherConflictValidator) Category() models.ConstraintCategory {
	return models.CategoryTeacherConflict
}

func (teacherConflictValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	if item.TeacherID == "" || item.TimeslotCode == "" {
		return nil
	}
	first, claimed := ctx.TeacherOccupancy.Claim(item.TeacherID, item.Day, item.TimeslotCode, item)
	if claimed {
		return nil
	}
	return []models.ConstraintViolation{hardViolation(models.CategoryTeacherConflict, item, first,
		"teacher %s double-booked on %s %s", item.TeacherID, item.Day, item.TimeslotCode)}
}

// groupConflictValidator claims a cell per student group on the item.
type groupConflictValidator struct{}

func (groupConflictValidator) Category() models.ConstraintCategory {
	return models.CategoryStudentGroupConflict
}

func (groupConflictValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	if item.TimeslotCode == "" {
		return nil
	}
	var out []models.ConstraintViolation
	for _, groupID := range item.StudentGroupIDs {
		first, claimed := ctx.GroupOccupancy.Claim(groupID, item.Day, item.TimeslotCode, item)
		if claimed {
			continue
		}
		out = append(out, hardViolation(models.CategoryStudentGroupConflict, item, first,
			"group %s double-booked on %s %s", groupID, item.Day, item.TimeslotCode))
	}
	return out
}
