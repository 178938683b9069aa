package service

import (
	"fmt"

	appErrors "github.com/noah-isme/campus-scheduler-api/pkg/errors"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// ConstraintRegistry indexes user-supplied constraints for fast lookup
// during validation. Built once per request; read-only afterwards.
type ConstraintRegistry struct {
	byTeacher  map[string][]models.Constraint
	byCategory map[models.ConstraintCategory][]models.Constraint
	campusWide []models.Constraint
	hard       []models.Constraint
	soft       []models.Constraint
	skipped    int
}

// NewConstraintRegistry ingests the raw constraint list. Unknown types
// are skipped and counted; an invalid payload fails the whole request.
func NewConstraintRegistry(constraints []models.Constraint) (*ConstraintRegistry, error) {
	r := &ConstraintRegistry{
		byTeacher:  make(map[string][]models.Constraint),
		byCategory: make(map[models.ConstraintCategory][]models.Constraint),
	}

	for _, c := range constraints {
		category, err := models.CategoryFromWire(c.Type)
		if err != nil {
			r.skipped++
			continue
		}
		c.Category = category

		if err := validateConstraintValue(c); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("constraint %s: invalid value payload", c.ID))
		}

		r.byCategory[category] = append(r.byCategory[category], c)
		if c.TeacherID != "" {
			r.byTeacher[c.TeacherID] = append(r.byTeacher[c.TeacherID], c)
		} else {
			r.campusWide = append(r.campusWide, c)
		}
		if category.IsHard() {
			r.hard = append(r.hard, c)
		} else {
			r.soft = append(r.soft, c)
		}
	}

	return r, nil
}

// ForTeacher returns constraints scoped to one teacher.
func (r *ConstraintRegistry) ForTeacher(teacherID string) []models.Constraint {
	return r.byTeacher[teacherID]
}

// ForCategory returns constraints in one category, teacher-scoped or not.
func (r *ConstraintRegistry) ForCategory(cat models.ConstraintCategory) []models.Constraint {
	return r.byCategory[cat]
}

// CampusWide returns constraints with no teacher scope.
func (r *ConstraintRegistry) CampusWide() []models.Constraint { return r.campusWide }

// Hard returns constraints mapped to hard categories.
func (r *ConstraintRegistry) Hard() []models.Constraint { return r.hard }

// Soft returns constraints mapped to soft categories.
func (r *ConstraintRegistry) Soft() []models.Constraint { return r.soft }

// Skipped reports how many constraints had unmappable types.
func (r *ConstraintRegistry) Skipped() int { return r.skipped }

// CountInCategory returns how many constraints target the category.
func (r *ConstraintRegistry) CountInCategory(cat models.ConstraintCategory) int {
	return len(r.byCategory[cat])
}

func validateConstraintValue(c models.Constraint) error {
	if c.Priority < 0 || c.Priority > 10 {
		return fmt.Errorf("priority %.2f outside [0,10]", c.Priority)
	}

	switch c.Category {
	case models.CategoryTeacherTimePreference:
		pref, ok := stringValue(c.Value, "preference")
		if !ok || !models.ValidPreference(models.PreferenceKind(pref)) {
			return fmt.Errorf("time preference requires preference in {PREFER, AVOID, NEUTRAL}")
		}
		days := stringSliceValue(c.Value, "days")
		slots := stringSliceValue(c.Value, "timeslotCodes")
		if models.PreferenceKind(pref) != models.PreferenceNeutral && len(days) == 0 && len(slots) == 0 {
			return fmt.Errorf("time preference requires days or timeslotCodes")
		}
		for _, d := range days {
			if !models.ValidDay(models.Day(d)) {
				return fmt.Errorf("unknown day %q", d)
			}
		}
	case models.CategoryTeacherRoomPreference:
		pref, ok := stringValue(c.Value, "preference")
		if !ok || !models.ValidPreference(models.PreferenceKind(pref)) {
			return fmt.Errorf("room preference requires preference in {PREFER, AVOID, NEUTRAL}")
		}
		rooms := stringSliceValue(c.Value, "roomIds")
		buildings := stringSliceValue(c.Value, "buildingIds")
		if models.PreferenceKind(pref) != models.PreferenceNeutral && len(rooms) == 0 && len(buildings) == 0 {
			return fmt.Errorf("room preference requires roomIds or buildingIds")
		}
	}

	return nil
}

func stringValue(m map[string]interface{}, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringSliceValue(m map[string]interface{}, key string) []string {
	if m == nil {
		return nil
	}
	raw, ok := m[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
