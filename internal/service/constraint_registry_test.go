package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/campus-scheduler-api/pkg/errors"
)

func timePreference(id, teacherID, polarity string, priority float64) models.Constraint {
	return models.Constraint{
		ID:        id,
		Type:      models.WireTeacherTimePreference,
		TeacherID: teacherID,
		Priority:  priority,
		Value: map[string]interface{}{
			"preference": polarity,
			"days":       []interface{}{"Friday"},
		},
	}
}

func TestConstraintRegistryIndexes(t *testing.T) {
	registry, err := NewConstraintRegistry([]models.Constraint{
		timePreference("p1", "t1", "AVOID", 8),
		timePreference("p2", "", "PREFER", 5),
		{
			ID:       "c1",
			Type:     models.WireScheduleCompactness,
			Priority: 6,
			Value:    map[string]interface{}{},
		},
	})
	require.NoError(t, err)

	assert.Len(t, registry.ForTeacher("t1"), 1)
	assert.Empty(t, registry.ForTeacher("t9"))
	assert.Len(t, registry.ForCategory(models.CategoryTeacherTimePreference), 2)
	assert.Len(t, registry.CampusWide(), 2)
	assert.Len(t, registry.Soft(), 3)
	assert.Empty(t, registry.Hard())
	assert.Equal(t, 1, registry.CountInCategory(models.CategoryTeacherScheduleCompactness))
	assert.Zero(t, registry.Skipped())

	// Wire names resolve to the internal category.
	for _, c := range registry.ForCategory(models.CategoryTeacherTimePreference) {
		assert.Equal(t, models.CategoryTeacherTimePreference, c.Category)
	}
}

func TestConstraintRegistrySkipsUnknownTypes(t *testing.T) {
	registry, err := NewConstraintRegistry([]models.Constraint{
		{ID: "x1", Type: "Totally Unknown Rule", Priority: 5},
		timePreference("p1", "t1", "AVOID", 8),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, registry.Skipped())
	assert.Len(t, registry.Soft(), 1)
}

func TestConstraintRegistryRejectsBadPriority(t *testing.T) {
	_, err := NewConstraintRegistry([]models.Constraint{
		timePreference("p1", "t1", "AVOID", 11),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErrors.FromError(err).Status)
}

func TestConstraintRegistryRejectsBadTimePayload(t *testing.T) {
	_, err := NewConstraintRegistry([]models.Constraint{
		{
			ID:       "p1",
			Type:     models.WireTeacherTimePreference,
			Priority: 5,
			Value:    map[string]interface{}{"preference": "SOMETIMES"},
		},
	})
	require.Error(t, err)

	// A non-neutral preference must scope itself to days or slots.
	_, err = NewConstraintRegistry([]models.Constraint{
		{
			ID:       "p2",
			Type:     models.WireTeacherTimePreference,
			Priority: 5,
			Value:    map[string]interface{}{"preference": "AVOID"},
		},
	})
	require.Error(t, err)
}

func TestConstraintRegistryRejectsBadRoomPayload(t *testing.T) {
	_, err := NewConstraintRegistry([]models.Constraint{
		{
			ID:       "p1",
			Type:     models.WireTeacherRoomPreference,
			Priority: 5,
			Value:    map[string]interface{}{"preference": "PREFER"},
		},
	})
	require.Error(t, err)
}

func TestConstraintRegistryAcceptsNeutralWithoutScope(t *testing.T) {
	registry, err := NewConstraintRegistry([]models.Constraint{
		{
			ID:       "p1",
			Type:     models.WireTeacherTimePreference,
			Priority: 5,
			Value:    map[string]interface{}{"preference": "NEUTRAL"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, registry.Soft(), 1)
}
