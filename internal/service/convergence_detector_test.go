package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// uniformPopulation builds n copies of the same placement.
func uniformPopulation(p *Problem, n int) []models.Chromosome {
	population := make([]models.Chromosome, n)
	for i := range population {
		population[i] = fixtureChromosome(p)
	}
	return population
}

func TestSeverityEscalatesWithStagnation(t *testing.T) {
	p := fixtureProblem()
	d := NewConvergenceDetector(4)
	population := uniformPopulation(p, 5)
	fitnesses := []float64{10, 10, 10, 10, 10}

	d.Check(population, fitnesses)
	assert.Equal(t, StagnationNone, d.Severity())

	feed := func(times int) {
		for i := 0; i < times; i++ {
			d.Check(population, fitnesses)
		}
	}

	feed(50)
	assert.Equal(t, StagnationMild, d.Severity())
	feed(100)
	assert.Equal(t, StagnationModerate, d.Severity())
	feed(150)
	assert.Equal(t, StagnationSevere, d.Severity())
}

func TestImprovementResetsStagnation(t *testing.T) {
	p := fixtureProblem()
	d := NewConvergenceDetector(4)
	population := uniformPopulation(p, 5)

	for i := 0; i < 60; i++ {
		d.Check(population, []float64{10, 10, 10, 10, 10})
	}
	require.Equal(t, StagnationMild, d.Severity())

	metrics := d.Check(population, []float64{9, 10, 10, 10, 10})
	assert.Zero(t, metrics.GenerationsSinceImprovement)
	assert.Equal(t, StagnationNone, d.Severity())
}

func TestDiversityBounds(t *testing.T) {
	p := fixtureProblem()
	d := NewConvergenceDetector(4)

	// Identical individuals collapse to one tuple per gene.
	uniform := uniformPopulation(p, 10)
	metrics := d.Check(uniform, make([]float64, 10))
	assert.InDelta(t, 0.1, metrics.Diversity, 1e-9)
	require.Len(t, metrics.PerGeneDiversity, 4)

	// Pairwise distinct placements at one gene raise that gene's ratio.
	varied := uniformPopulation(p, 10)
	for i := range varied {
		varied[i][0].TimeslotCode = fmt.Sprintf("T%d", i%6+1)
		varied[i][0].Day = models.Weekdays[i%5]
	}
	metrics = d.Check(varied, make([]float64, 10))
	assert.Equal(t, 1.0, metrics.PerGeneDiversity[0])
	assert.Greater(t, metrics.Diversity, 0.1)
}

func TestDetectorResetClearsHistory(t *testing.T) {
	p := fixtureProblem()
	d := NewConvergenceDetector(4)
	population := uniformPopulation(p, 5)

	for i := 0; i < 200; i++ {
		d.Check(population, []float64{10, 10, 10, 10, 10})
	}
	require.Equal(t, StagnationModerate, d.Severity())

	d.Reset()
	assert.Equal(t, StagnationNone, d.Severity())
	assert.Zero(t, d.GenerationsSinceImprovement())
}

func TestWindowScalesWithChromosomeLength(t *testing.T) {
	small := NewConvergenceDetector(100)
	large := NewConvergenceDetector(500)
	assert.Equal(t, 20, small.window)
	assert.Equal(t, 30, large.window)
}
