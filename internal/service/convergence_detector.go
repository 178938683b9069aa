package service

import (
	"math"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// StagnationSeverity classifies how long the best fitness has stood
// still.
type StagnationSeverity int

const (
	StagnationNone StagnationSeverity = iota
	StagnationMild
	StagnationModerate
	StagnationSevere
)

func (s StagnationSeverity) String() string {
	switch s {
	case StagnationMild:
		return "mild"
	case StagnationModerate:
		return "moderate"
	case StagnationSevere:
		return "severe"
	}
	return "none"
}

// Stagnation generation thresholds.
const (
	stagnationMildAfter     = 50
	stagnationModerateAfter = 150
	stagnationSevereAfter   = 300
)

// ConvergenceMetrics is the per-generation output of the detector.
type ConvergenceMetrics struct {
	Diversity                   float64
	FitnessImprovement          float64
	GenerationsSinceImprovement int
	Converged                   bool
	PerGeneDiversity            []float64
}

// ConvergenceDetector tracks best-fitness history and population
// diversity, classifying stagnation for the adaptive layers.
type ConvergenceDetector struct {
	window       int
	history      []float64
	bestFitness  float64
	sinceImprove int
	seeded       bool
}

// NewConvergenceDetector builds a detector with an improvement window
// scaled to chromosome length.
func NewConvergenceDetector(chromosomeLength int) *ConvergenceDetector {
	window := 20
	if chromosomeLength > 200 {
		window = 20 + chromosomeLength/50
	}
	return &ConvergenceDetector{window: window}
}

// Check ingests one generation and returns the convergence metrics.
func (d *ConvergenceDetector) Check(population []models.Chromosome, fitnesses []float64) ConvergenceMetrics {
	best := math.Inf(1)
	for _, f := range fitnesses {
		if f < best {
			best = f
		}
	}

	if !d.seeded || best < d.bestFitness {
		d.bestFitness = best
		d.sinceImprove = 0
		d.seeded = true
	} else {
		d.sinceImprove++
	}
	d.history = append(d.history, best)

	perGene := perGeneDiversity(population)
	diversity := 0.0
	for _, v := range perGene {
		diversity += v
	}
	if len(perGene) > 0 {
		diversity /= float64(len(perGene))
	}

	return ConvergenceMetrics{
		Diversity:                   diversity,
		FitnessImprovement:          d.improvement(),
		GenerationsSinceImprovement: d.sinceImprove,
		Converged:                   d.Severity() >= StagnationModerate && diversity < 0.1,
		PerGeneDiversity:            perGene,
	}
}

// Severity maps generations-without-improvement onto the discrete scale.
func (d *ConvergenceDetector) Severity() StagnationSeverity {
	switch {
	case d.sinceImprove >= stagnationSevereAfter:
		return StagnationSevere
	case d.sinceImprove >= stagnationModerateAfter:
		return StagnationModerate
	case d.sinceImprove >= stagnationMildAfter:
		return StagnationMild
	}
	return StagnationNone
}

// GenerationsSinceImprovement exposes the stagnation counter.
func (d *ConvergenceDetector) GenerationsSinceImprovement() int { return d.sinceImprove }

// Reset clears history after a population restart.
func (d *ConvergenceDetector) Reset() {
	d.history = d.history[:0]
	d.sinceImprove = 0
	d.seeded = false
	d.bestFitness = 0
}

// improvement is the relative gain over the rolling window.
func (d *ConvergenceDetector) improvement() float64 {
	if len(d.history) <= d.window {
		return 0
	}
	past := d.history[len(d.history)-1-d.window]
	now := d.history[len(d.history)-1]
	if past == 0 {
		return 0
	}
	return (past - now) / math.Abs(past)
}

// perGeneDiversity counts distinct (room, timeslot, day, course) tuples
// at each gene position across the population, normalized by population
// size. Averaging these is the diversity metric.
func perGeneDiversity(population []models.Chromosome) []float64 {
	if len(population) == 0 || len(population[0]) == 0 {
		return nil
	}

	length := len(population[0])
	out := make([]float64, length)
	seen := make(map[string]struct{}, len(population))

	for gene := 0; gene < length; gene++ {
		for k := range seen {
			delete(seen, k)
		}
		for _, individual := range population {
			if gene >= len(individual) {
				continue
			}
			item := individual[gene]
			key := item.ClassroomID + "|" + item.TimeslotCode + "|" + string(item.Day) + "|" + item.CourseID
			seen[key] = struct{}{}
		}
		out[gene] = float64(len(seen)) / float64(len(population))
	}
	return out
}
