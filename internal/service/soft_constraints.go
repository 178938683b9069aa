package service

import (
	"sort"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// ectsEarlyOrderThreshold is the last timeslot order considered "early"
// for high-credit courses.
const ectsEarlyOrderThreshold = 3

// capacityValidator reports rooms too small for the attending groups.
// The violation count is the number of students over capacity.
type capacityValidator struct{}

func (capacityValidator) Category() models.ConstraintCategory {
	return models.CategoryRoomCapacityOverflow
}

func (capacityValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	room, ok := ctx.Problem.Classroom(item.ClassroomID)
	if !ok {
		return nil
	}
	students := ctx.Problem.GroupSizeSum(item.StudentGroupIDs)
	overflow := students - room.Capacity
	if overflow <= 0 {
		return nil
	}
	return []models.ConstraintViolation{softViolation(models.CategoryRoomCapacityOverflow, item, 1, overflow,
		"room %s capacity %d exceeded by %d students", room.Name, room.Capacity, overflow)}
}

// ectsPriorityValidator nudges high-credit courses into early timeslots.
// Applies only to courses at or above the dynamic credit threshold.
type ectsPriorityValidator struct{}

func (ectsPriorityValidator) Category() models.ConstraintCategory {
	return models.CategoryECTSPriorityViolation
}

func (ectsPriorityValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	threshold := ctx.Problem.ECTSThreshold()
	if threshold <= 0 {
		return nil
	}
	course, ok := ctx.Problem.Course(item.CourseID)
	if !ok || course.ECTSCredits < threshold {
		return nil
	}
	order := ctx.Problem.TimeslotOrder(item.TimeslotCode)
	if order <= ectsEarlyOrderThreshold {
		return nil
	}
	severity := float64(order-ectsEarlyOrderThreshold) * 0.5
	return []models.ConstraintViolation{softViolation(models.CategoryECTSPriorityViolation, item, severity, 1,
		"high-credit course %s scheduled at late timeslot order %d", course.Name, order)}
}

// timePreferenceValidator scores one teacher time-preference constraint.
// PREFER misses weigh half of AVOID hits.
type timePreferenceValidator struct {
	constraint models.Constraint
	preference models.PreferenceKind
	days       map[models.Day]bool
	slots      map[string]bool
}

func newTimePreferenceValidator(c models.Constraint) *timePreferenceValidator {
	pref, _ := stringValue(c.Value, "preference")
	v := &timePreferenceValidator{
		constraint: c,
		preference: models.PreferenceKind(pref),
		days:       make(map[models.Day]bool),
		slots:      make(map[string]bool),
	}
	for _, d := range stringSliceValue(c.Value, "days") {
		v.days[models.Day(d)] = true
	}
	for _, s := range stringSliceValue(c.Value, "timeslotCodes") {
		v.slots[s] = true
	}
	return v
}

func (v *timePreferenceValidator) Category() models.ConstraintCategory {
	return models.CategoryTeacherTimePreference
}

func (v *timePreferenceValidator) matches(item *models.ScheduledItem) bool {
	if len(v.days) > 0 && !v.days[item.Day] {
		return false
	}
	if len(v.slots) > 0 && !v.slots[item.TimeslotCode] {
		return false
	}
	return true
}

func (v *timePreferenceValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	if v.constraint.TeacherID != "" && v.constraint.TeacherID != item.TeacherID {
		return nil
	}

	weight := v.constraint.Priority / 10
	switch v.preference {
	case models.PreferenceAvoid:
		if v.matches(item) {
			return []models.ConstraintViolation{softViolation(models.CategoryTeacherTimePreference, item, weight, 1,
				"teacher %s scheduled in avoided slot %s %s", item.TeacherID, item.Day, item.TimeslotCode)}
		}
	case models.PreferencePrefer:
		if !v.matches(item) {
			return []models.ConstraintViolation{softViolation(models.CategoryTeacherTimePreference, item, weight*0.5, 1,
				"teacher %s scheduled outside preferred slots at %s %s", item.TeacherID, item.Day, item.TimeslotCode)}
		}
	}
	return nil
}

// roomPreferenceValidator scores one teacher room-preference constraint,
// symmetric with time preferences.
type roomPreferenceValidator struct {
	constraint models.Constraint
	preference models.PreferenceKind
	rooms      map[string]bool
	buildings  map[string]bool
}

func newRoomPreferenceValidator(c models.Constraint) *roomPreferenceValidator {
	pref, _ := stringValue(c.Value, "preference")
	v := &roomPreferenceValidator{
		constraint: c,
		preference: models.PreferenceKind(pref),
		rooms:      make(map[string]bool),
		buildings:  make(map[string]bool),
	}
	for _, id := range stringSliceValue(c.Value, "roomIds") {
		v.rooms[id] = true
	}
	for _, id := range stringSliceValue(c.Value, "buildingIds") {
		v.buildings[id] = true
	}
	return v
}

func (v *roomPreferenceValidator) Category() models.ConstraintCategory {
	return models.CategoryTeacherRoomPreference
}

func (v *roomPreferenceValidator) matches(room models.Classroom) bool {
	if v.rooms[room.ID] {
		return true
	}
	return v.buildings[room.BuildingID]
}

func (v *roomPreferenceValidator) Validate(ctx *EvalContext) []models.ConstraintViolation {
	item := ctx.Item
	if v.constraint.TeacherID != "" && v.constraint.TeacherID != item.TeacherID {
		return nil
	}
	room, ok := ctx.Problem.Classroom(item.ClassroomID)
	if !ok {
		return nil
	}

	weight := v.constraint.Priority / 10
	switch v.preference {
	case models.PreferenceAvoid:
		if v.matches(room) {
			return []models.ConstraintViolation{softViolation(models.CategoryTeacherRoomPreference, item, weight, 1,
				"teacher %s assigned avoided room %s", item.TeacherID, room.Name)}
		}
	case models.PreferencePrefer:
		if !v.matches(room) {
			return []models.ConstraintViolation{softViolation(models.CategoryTeacherRoomPreference, item, weight*0.5, 1,
				"teacher %s assigned room %s outside preferred set", item.TeacherID, room.Name)}
		}
	}
	return nil
}

// teacherDaySessions groups chromosome genes by (teacher, day) sorted by
// timeslot order, shared by the whole-schedule validators.
func teacherDaySessions(ctx *EvalContext, chromosome models.Chromosome) map[string][]*models.ScheduledItem {
	grouped := make(map[string][]*models.ScheduledItem)
	for i := range chromosome {
		item := &chromosome[i]
		if item.TeacherID == "" || ctx.Problem.TimeslotOrder(item.TimeslotCode) < 0 {
			continue
		}
		key := item.TeacherID + "|" + string(item.Day)
		grouped[key] = append(grouped[key], item)
	}
	for _, items := range grouped {
		sort.SliceStable(items, func(a, b int) bool {
			return ctx.Problem.TimeslotOrder(items[a].TimeslotCode) < ctx.Problem.TimeslotOrder(items[b].TimeslotCode)
		})
	}
	return grouped
}

// consecutiveMovementValidator flags teachers who must change rooms
// between back-to-back sessions on the same day.
type consecutiveMovementValidator struct {
	severity float64
}

func newConsecutiveMovementValidator(registry *ConstraintRegistry) *consecutiveMovementValidator {
	v := &consecutiveMovementValidator{severity: 1}
	if registry == nil {
		return v
	}
	for _, c := range registry.ForCategory(models.CategoryTeacherConsecutiveMovement) {
		if c.Priority > 0 {
			v.severity = c.Priority / 10
		}
	}
	return v
}

func (v *consecutiveMovementValidator) Category() models.ConstraintCategory {
	return models.CategoryTeacherConsecutiveMovement
}

func (v *consecutiveMovementValidator) Validate(ctx *EvalContext, chromosome models.Chromosome) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	grouped := teacherDaySessions(ctx, chromosome)

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		items := grouped[key]
		for i := 0; i+1 < len(items); i++ {
			cur, next := items[i], items[i+1]
			curOrder := ctx.Problem.TimeslotOrder(cur.TimeslotCode)
			nextOrder := ctx.Problem.TimeslotOrder(next.TimeslotCode)
			if nextOrder != curOrder+1 {
				continue
			}
			if cur.ClassroomID == next.ClassroomID {
				continue
			}
			out = append(out, softViolation(models.CategoryTeacherConsecutiveMovement, next, v.severity, 1,
				"teacher %s moves rooms between consecutive sessions on %s", next.TeacherID, next.Day))
			out[len(out)-1].ConflictingItem = cur
		}
	}
	return out
}

// compactnessValidator penalizes idle gaps inside a teacher's day. Built
// per user constraint; a teacher-scoped constraint inspects only that
// teacher's sessions.
type compactnessValidator struct {
	constraint models.Constraint
}

func newCompactnessValidator(c models.Constraint) *compactnessValidator {
	return &compactnessValidator{constraint: c}
}

func (v *compactnessValidator) Category() models.ConstraintCategory {
	return models.CategoryTeacherScheduleCompactness
}

func (v *compactnessValidator) Validate(ctx *EvalContext, chromosome models.Chromosome) []models.ConstraintViolation {
	var out []models.ConstraintViolation
	grouped := teacherDaySessions(ctx, chromosome)

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	weight := v.constraint.Priority / 10
	for _, key := range keys {
		items := grouped[key]
		if v.constraint.TeacherID != "" && items[0].TeacherID != v.constraint.TeacherID {
			continue
		}
		for i := 0; i+1 < len(items); i++ {
			curOrder := ctx.Problem.TimeslotOrder(items[i].TimeslotCode)
			nextOrder := ctx.Problem.TimeslotOrder(items[i+1].TimeslotCode)
			if nextOrder-curOrder <= 1 {
				continue
			}
			out = append(out, softViolation(models.CategoryTeacherScheduleCompactness, items[i+1], weight, 1,
				"teacher %s has a %d-slot gap on %s", items[i+1].TeacherID, nextOrder-curOrder-1, items[i+1].Day))
		}
	}
	return out
}
