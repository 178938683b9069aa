package service

import (
	"math"
)

// adaptationCooldown gates non-severe adaptations so consecutive
// generations cannot stack multiplier effects.
const adaptationCooldown = 50

// ParamBounds are the admissible ranges for the GA knobs, derived from
// chromosome length.
type ParamBounds struct {
	PopMin, PopMax               int
	GeneMutMin, GeneMutMax       float64
	ChromMutMin, ChromMutMax     float64
	TournamentMin, TournamentMax int
	ElitismMin, ElitismMax       int
}

// AdaptationRecord logs one parameter change for post-run reporting.
type AdaptationRecord struct {
	Generation int      `json:"generation"`
	Trigger    string   `json:"trigger"`
	Diversity  float64  `json:"diversity"`
	Old        GAParams `json:"old"`
	New        GAParams `json:"new"`
}

// ParameterManager adapts the exploration/exploitation knobs when the
// search stagnates, always within length-derived bounds.
type ParameterManager struct {
	chromosomeLength int
	bounds           ParamBounds
	lastAdaptation   int
	adapted          bool
	history          []AdaptationRecord
}

// NewParameterManager derives bounds for a problem of the given
// chromosome length.
func NewParameterManager(chromosomeLength int) *ParameterManager {
	if chromosomeLength < 1 {
		chromosomeLength = 1
	}
	m := &ParameterManager{chromosomeLength: chromosomeLength}
	m.bounds = deriveBounds(chromosomeLength)
	return m
}

func deriveBounds(length int) ParamBounds {
	popMin := int(math.Max(20, 5*math.Log2(float64(length))))
	popMax := int(math.Min(500, float64(2*length)))
	if popMax < popMin {
		popMax = popMin
	}

	b := ParamBounds{
		PopMin:      popMin,
		PopMax:      popMax,
		GeneMutMin:  0.001,
		GeneMutMax:  0.5,
		ChromMutMin: 0.05,
		ChromMutMax: 0.8,
	}
	b.TournamentMin = 2
	b.TournamentMax = int(math.Min(7, float64(popMin)/10))
	if b.TournamentMax < b.TournamentMin {
		b.TournamentMax = b.TournamentMin
	}
	b.ElitismMin = int(math.Max(1, 0.05*float64(popMin)))
	b.ElitismMax = int(math.Max(float64(b.ElitismMin), 0.2*float64(popMin)))
	return b
}

// Bounds returns the derived parameter ranges.
func (m *ParameterManager) Bounds() ParamBounds { return m.bounds }

// Baseline returns the starting parameters for a fresh population.
func (m *ParameterManager) Baseline() GAParams {
	pop := clampInt(4*m.chromosomeLength, m.bounds.PopMin, m.bounds.PopMax)
	p := GAParams{
		PopulationSize:         pop,
		GeneMutationRate:       0.05,
		ChromosomeMutationRate: 0.3,
		CrossoverRate:          0.8,
		HeuristicProbability:   0.7,
	}
	p.TournamentSize = clampInt(3, m.bounds.TournamentMin, tournamentCeil(pop))
	p.ElitismCount = clampInt(int(0.1*float64(pop)), elitismFloor(pop), elitismCeil(pop))
	return p
}

// Adapt applies the stagnation response table and returns the adjusted
// parameters. A cooldown suppresses everything but severe responses.
// The second return reports whether any change was applied.
func (m *ParameterManager) Adapt(params GAParams, metrics ConvergenceMetrics, severity StagnationSeverity, generation int) (GAParams, bool) {
	if severity == StagnationNone {
		return params, false
	}
	if severity != StagnationSevere && m.adapted && generation-m.lastAdaptation < adaptationCooldown {
		return params, false
	}

	old := params
	switch severity {
	case StagnationMild:
		if metrics.Diversity < 0.3 {
			params.GeneMutationRate *= 1.2
			params.ChromosomeMutationRate *= 1.1
		}
	case StagnationModerate:
		params.GeneMutationRate *= 1.5
		params.ChromosomeMutationRate *= 1.3
		if metrics.Diversity < 0.2 {
			params.TournamentSize--
		} else {
			params.TournamentSize++
		}
	case StagnationSevere:
		params.GeneMutationRate *= 2.0
		params.ChromosomeMutationRate *= 1.5
		params.TournamentSize -= 2
		params.ElitismCount += 2
	}

	params = m.Clamp(params)
	if params == old {
		return params, false
	}

	m.lastAdaptation = generation
	m.adapted = true
	m.history = append(m.history, AdaptationRecord{
		Generation: generation,
		Trigger:    severity.String(),
		Diversity:  metrics.Diversity,
		Old:        old,
		New:        params,
	})
	return params, true
}

// Clamp forces every knob into its admissible range.
func (m *ParameterManager) Clamp(p GAParams) GAParams {
	p.PopulationSize = clampInt(p.PopulationSize, m.bounds.PopMin, m.bounds.PopMax)
	p.GeneMutationRate = clampFloat(p.GeneMutationRate, m.bounds.GeneMutMin, m.bounds.GeneMutMax)
	p.ChromosomeMutationRate = clampFloat(p.ChromosomeMutationRate, m.bounds.ChromMutMin, m.bounds.ChromMutMax)
	p.TournamentSize = clampInt(p.TournamentSize, m.bounds.TournamentMin, tournamentCeil(p.PopulationSize))
	p.ElitismCount = clampInt(p.ElitismCount, elitismFloor(p.PopulationSize), elitismCeil(p.PopulationSize))
	return p
}

// History returns the adaptation log.
func (m *ParameterManager) History() []AdaptationRecord { return m.history }

// Reset clears cooldown state after a population restart.
func (m *ParameterManager) Reset() {
	m.adapted = false
	m.lastAdaptation = 0
}

func tournamentCeil(pop int) int {
	ceil := int(math.Min(7, float64(pop)/10))
	if ceil < 2 {
		ceil = 2
	}
	return ceil
}

func elitismFloor(pop int) int {
	floor := int(0.05 * float64(pop))
	if floor < 1 {
		floor = 1
	}
	return floor
}

func elitismCeil(pop int) int {
	ceil := int(0.2 * float64(pop))
	if ceil < 1 {
		ceil = 1
	}
	return ceil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
