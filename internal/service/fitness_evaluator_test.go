package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

func newEvaluator(t *testing.T, p *Problem) *FitnessEvaluator {
	t.Helper()
	return NewFitnessEvaluator(p, mustPenalties(p), BuildValidators(p.Registry))
}

func TestEvaluateCleanScheduleIsFeasible(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	report := e.Evaluate(fixtureChromosome(p))

	assert.True(t, report.Feasible)
	assert.Zero(t, report.HardViolationCount)
	assert.Zero(t, report.SoftPenaltyTotal)
	assert.Zero(t, e.Fitness(report))
}

func TestEvaluateRoomConflictBlamesSecondOccupant(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// c3 collides with c1's Monday session in the same room and slot.
	chromosome[3].Day = models.DayMonday
	chromosome[3].TimeslotCode = "T1"

	report := e.Evaluate(chromosome)

	require.False(t, report.Feasible)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryRoomConflict))
	for _, v := range report.Violations {
		if v.Category == models.CategoryRoomConflict {
			assert.Equal(t, "c3", v.OffendingItem.CourseID)
			require.NotNil(t, v.ConflictingItem)
			assert.Equal(t, "c1", v.ConflictingItem.CourseID)
		}
	}
}

func TestEvaluateTeacherConflict(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// t1 teaches c1 and c2 at the same time in different rooms.
	chromosome[2].Day = models.DayMonday
	chromosome[2].TimeslotCode = "T1"

	report := e.Evaluate(chromosome)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryTeacherConflict))
}

func TestEvaluateGroupConflict(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// g1 attends both c1 (t1) and c3 (t2) in the same cell, distinct rooms.
	chromosome[3].Day = models.DayMonday
	chromosome[3].TimeslotCode = "T1"
	chromosome[3].ClassroomID = "r3"

	report := e.Evaluate(chromosome)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryStudentGroupConflict))
}

func TestEvaluateCapacityOverflowCountsStudents(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// 45 students into Annex 3 (capacity 15): 30 over.
	chromosome[3].ClassroomID = "r3"

	report := e.Evaluate(chromosome)

	found := false
	for _, v := range report.Violations {
		if v.Category == models.CategoryRoomCapacityOverflow {
			found = true
			assert.Equal(t, 30, v.Count)
		}
	}
	assert.True(t, found)
	assert.Positive(t, report.PerCategorySoft[models.CategoryRoomCapacityOverflow])
}

func TestEvaluateRoomTypeMismatch(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// Lab session placed in a lecture hall.
	chromosome[2].ClassroomID = "r1"

	report := e.Evaluate(chromosome)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryRoomTypeMismatch))
}

func TestEvaluateAccessibility(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// t2 needs an accessible room; Annex 3 is not.
	chromosome[3].ClassroomID = "r3"

	report := e.Evaluate(chromosome)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryTeacherWheelchairAccess))
}

func TestEvaluateMissingDataAndUnassignedRoom(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	chromosome[0].TeacherID = "ghost"
	chromosome[1].ClassroomID = ""

	report := e.Evaluate(chromosome)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryMissingData))
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryUnassignedRoom))
	assert.False(t, report.Feasible)
}

func TestEvaluateInvalidScheduling(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	chromosome[0].Day = "Sunday"
	chromosome[1].TimeslotCode = "T99"

	report := e.Evaluate(chromosome)
	assert.Equal(t, 2, countCategory(report.Violations, models.CategoryInvalidScheduling))
}

func TestEvaluateECTSPriorityLateSlot(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// c1 carries the top credit load; order 6 is three past the early
	// window, severity 1.5.
	chromosome[0].TimeslotCode = "T6"

	report := e.Evaluate(chromosome)

	found := false
	for _, v := range report.Violations {
		if v.Category == models.CategoryECTSPriorityViolation {
			found = true
			assert.InDelta(t, 1.5, v.Severity, 1e-9)
		}
	}
	assert.True(t, found)
}

func TestEvaluateTimePreferenceWeights(t *testing.T) {
	p := fixtureProblem()
	p.Registry = mustRegistry([]models.Constraint{
		timePreference("p1", "t1", "AVOID", 8),
	})
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	chromosome[2].Day = models.DayFriday

	report := e.Evaluate(chromosome)

	found := false
	for _, v := range report.Violations {
		if v.Category == models.CategoryTeacherTimePreference {
			found = true
			assert.InDelta(t, 0.8, v.Severity, 1e-9)
		}
	}
	assert.True(t, found)
}

func TestEvaluatePreferMissWeighsHalf(t *testing.T) {
	p := fixtureProblem()
	p.Registry = mustRegistry([]models.Constraint{
		timePreference("p1", "t1", "PREFER", 8),
	})
	e := newEvaluator(t, p)

	// No fixture session sits on Friday, so every t1 session misses the
	// preferred day at half the avoid weight.
	report := e.Evaluate(fixtureChromosome(p))

	for _, v := range report.Violations {
		if v.Category == models.CategoryTeacherTimePreference {
			assert.InDelta(t, 0.4, v.Severity, 1e-9)
		}
	}
	assert.Equal(t, 3, countCategory(report.Violations, models.CategoryTeacherTimePreference))
}

func TestEvaluateConsecutiveMovement(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// Back-to-back t1 sessions Monday T1 (r1) and T2 (r2).
	chromosome[2].Day = models.DayMonday
	chromosome[2].TimeslotCode = "T2"

	report := e.Evaluate(chromosome)
	assert.Equal(t, 1, countCategory(report.Violations, models.CategoryTeacherConsecutiveMovement))
}

func TestEvaluateCompactnessGap(t *testing.T) {
	p := fixtureProblem()
	p.Registry = mustRegistry([]models.Constraint{
		{
			ID:       "comp",
			Type:     models.WireScheduleCompactness,
			Priority: 6,
			Value:    map[string]interface{}{},
		},
	})
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	// t1 Monday: T1 then T4 leaves a two-slot gap.
	chromosome[2].Day = models.DayMonday
	chromosome[2].TimeslotCode = "T4"
	chromosome[2].ClassroomID = "r2"

	report := e.Evaluate(chromosome)

	found := false
	for _, v := range report.Violations {
		if v.Category == models.CategoryTeacherScheduleCompactness {
			found = true
			assert.InDelta(t, 0.6, v.Severity, 1e-9)
		}
	}
	assert.True(t, found)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	chromosome[3].Day = models.DayMonday
	chromosome[3].TimeslotCode = "T1"

	first := e.Evaluate(chromosome)
	second := e.Evaluate(chromosome)

	assert.Equal(t, first.HardViolationCount, second.HardViolationCount)
	assert.Equal(t, first.SoftPenaltyTotal, second.SoftPenaltyTotal)
	assert.Equal(t, len(first.Violations), len(second.Violations))
	assert.Equal(t, first.FitnessVector, second.FitnessVector)
}

func TestFitnessVectorLayout(t *testing.T) {
	p := fixtureProblem()
	e := newEvaluator(t, p)

	chromosome := fixtureChromosome(p)
	chromosome[3].Day = models.DayMonday
	chromosome[3].TimeslotCode = "T1"
	chromosome[3].ClassroomID = "r3"

	report := e.Evaluate(chromosome)

	require.Len(t, report.FitnessVector, 2+len(models.HardCategories)+len(models.SoftCategories))
	assert.Equal(t, float64(report.HardViolationCount), report.FitnessVector[0])
	assert.Equal(t, report.SoftPenaltyTotal, report.FitnessVector[1])

	hardSum := 0.0
	for i := range models.HardCategories {
		hardSum += report.FitnessVector[2+i]
	}
	assert.Equal(t, float64(report.HardViolationCount), hardSum)

	softSum := 0.0
	for i := range models.SoftCategories {
		softSum += report.FitnessVector[2+len(models.HardCategories)+i]
	}
	assert.InDelta(t, report.SoftPenaltyTotal, softSum, 1e-9)

	// Scalar fitness decomposes into the domination formula.
	expected := float64(report.HardViolationCount)*e.penalties.MinHardPenalty() + report.SoftPenaltyTotal
	assert.InDelta(t, expected, e.Fitness(report), 1e-9)
}
