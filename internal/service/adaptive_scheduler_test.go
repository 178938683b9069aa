package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

func TestAdaptiveRunReturnsScoredBest(t *testing.T) {
	p := fixtureProblem()
	penalties := mustPenalties(p)

	s := NewAdaptiveScheduler(p, p.Registry, penalties, AdaptiveConfig{
		MaxGenerations: 60,
		MaxRestarts:    1,
		Workers:        2,
		Seed:           42,
	}, nil)

	outcome := s.Run(context.Background())

	require.NotNil(t, outcome.BestReport)
	require.Len(t, outcome.BestSchedule, models.TotalSessions(p.Courses))
	assert.Equal(t, outcome.BestFitness, outcome.BestReport.Fitness(penalties.MinHardPenalty()))
	assert.Positive(t, outcome.Metrics.TotalGenerations)
	assert.GreaterOrEqual(t, outcome.Metrics.BestGeneration, 0)
	assert.Positive(t, outcome.Metrics.ExecutionSeconds)
}

func TestAdaptiveRunDeterministicWithSeed(t *testing.T) {
	run := func() *RunOutcome {
		p := fixtureProblem()
		s := NewAdaptiveScheduler(p, p.Registry, mustPenalties(p), AdaptiveConfig{
			MaxGenerations: 30,
			Workers:        4,
			Seed:           7,
		}, nil)
		return s.Run(context.Background())
	}

	first := run()
	second := run()
	assert.Equal(t, first.BestFitness, second.BestFitness)
	assert.True(t, chromosomesEqual(first.BestSchedule, second.BestSchedule))
	assert.Equal(t, first.Metrics.TotalGenerations, second.Metrics.TotalGenerations)
}

func TestAdaptiveRunHonoursDeadline(t *testing.T) {
	p := fixtureProblem()

	s := NewAdaptiveScheduler(p, p.Registry, mustPenalties(p), AdaptiveConfig{
		MaxGenerations: 100000,
		TimeLimit:      time.Nanosecond,
		Seed:           1,
	}, nil)

	outcome := s.Run(context.Background())

	assert.True(t, outcome.Metrics.StoppedByDeadline)
	// Even a cut-off run reports a scored schedule.
	require.NotNil(t, outcome.BestReport)
	require.Len(t, outcome.BestSchedule, models.TotalSessions(p.Courses))
}

func TestAdaptiveRunHonoursCancellation(t *testing.T) {
	p := fixtureProblem()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewAdaptiveScheduler(p, p.Registry, mustPenalties(p), AdaptiveConfig{
		MaxGenerations: 100000,
		Seed:           1,
	}, nil)

	outcome := s.Run(ctx)
	assert.True(t, outcome.Metrics.StoppedByDeadline)
	require.NotNil(t, outcome.BestReport)
}

// deadlockedProblem admits no conflict-free schedule: six required
// sessions for one teacher fit into five (day, slot) cells at most.
func deadlockedProblem() *Problem {
	p := &Problem{
		Teachers: []models.Teacher{
			{ID: "t1", Name: "Alice Marsh", Department: "CS"},
		},
		Classrooms: []models.Classroom{
			{ID: "r1", Name: "Only Room", Capacity: 50, Type: models.RoomLecture, WheelchairAccessible: true},
		},
		StudentGroups: []models.StudentGroup{
			{ID: "g1", Name: "CS-1A", Size: 20},
		},
		Courses: []models.Course{
			{ID: "c1", Name: "Algorithms", ECTSCredits: 6, TeacherID: "t1", SessionType: models.RoomLecture, SessionsPerWeek: 3, StudentGroupIDs: []string{"g1"}},
			{ID: "c2", Name: "Compilers", ECTSCredits: 6, TeacherID: "t1", SessionType: models.RoomLecture, SessionsPerWeek: 3, StudentGroupIDs: []string{"g1"}},
		},
		Timeslots: fixtureTimeslots(1),
	}
	p.Registry = mustRegistry(nil)
	p.Index()
	return p
}

func TestAdaptiveRunRestartsUnderSevereStagnation(t *testing.T) {
	p := deadlockedProblem()

	s := NewAdaptiveScheduler(p, p.Registry, mustPenalties(p), AdaptiveConfig{
		MaxGenerations: 450,
		MaxRestarts:    1,
		Workers:        1,
		Seed:           11,
	}, nil)

	outcome := s.Run(context.Background())

	assert.GreaterOrEqual(t, outcome.Metrics.PopulationRestarts, 1)
	assert.Positive(t, outcome.Metrics.PenaltyOptimizations)
	// The deadlock is real: the best still collides somewhere.
	assert.False(t, outcome.BestReport.Feasible)
}

func TestRestartKeepsElitesAndBest(t *testing.T) {
	p := fixtureProblem()
	penalties := mustPenalties(p)
	s := NewAdaptiveScheduler(p, p.Registry, penalties, AdaptiveConfig{Seed: 3}, nil)

	population := s.ga.InitPopulation(20)
	fitnesses := make([]float64, 20)
	for i := range fitnesses {
		fitnesses[i] = float64(20 - i)
	}
	best := fixtureChromosome(p)

	next := s.restart(population, fitnesses, best)

	require.Len(t, next, s.params.Baseline().PopulationSize)
	// fitnesses rank index 19 best: it survives the cut.
	assert.True(t, containsChromosome(next, population[19]))
	assert.True(t, containsChromosome(next, best))
}
