package service

import (
	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// ValidatorSet is the fixed, ordered collection of validators driving
// one run. Validator order is part of the determinism contract: a fixed
// chromosome always yields the same violation sequence.
type ValidatorSet struct {
	Gene     []GeneValidator
	Schedule []ScheduleValidator
}

// BuildValidators instantiates one validator per system category plus
// one per user constraint from the registry.
func BuildValidators(registry *ConstraintRegistry) *ValidatorSet {
	set := &ValidatorSet{
		Gene: []GeneValidator{
			missingDataValidator{},
			invalidSchedulingValidator{},
			unassignedRoomValidator{},
			roomTypeValidator{},
			accessibilityValidator{},
			roomConflictValidator{},
			teacherConflictValidator{},
			groupConflictValidator{},
			capacityValidator{},
			ectsPriorityValidator{},
		},
	}

	if registry != nil {
		for _, c := range registry.ForCategory(models.CategoryTeacherTimePreference) {
			set.Gene = append(set.Gene, newTimePreferenceValidator(c))
		}
		for _, c := range registry.ForCategory(models.CategoryTeacherRoomPreference) {
			set.Gene = append(set.Gene, newRoomPreferenceValidator(c))
		}
	}

	set.Schedule = append(set.Schedule, newConsecutiveMovementValidator(registry))
	if registry != nil {
		for _, c := range registry.ForCategory(models.CategoryTeacherScheduleCompactness) {
			set.Schedule = append(set.Schedule, newCompactnessValidator(c))
		}
	}

	return set
}
