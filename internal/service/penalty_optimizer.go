package service

import (
	"math"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// rejectedObjective is returned for candidates failing the safety gate.
const rejectedObjective = 1e12

// penaltyDimension is one tunable soft category with its search range.
type penaltyDimension struct {
	category models.ConstraintCategory
	low      float64
	high     float64
}

// penaltyDimensions declares the search space. Weaker preference
// constraints get narrower ranges.
var penaltyDimensions = []penaltyDimension{
	{models.CategoryRoomCapacityOverflow, 1, 50},
	{models.CategoryTeacherScheduleCompactness, 1, 25},
	{models.CategoryTeacherTimePreference, 1, 50},
	{models.CategoryTeacherRoomPreference, 1, 50},
	{models.CategoryTeacherConsecutiveMovement, 1, 30},
	{models.CategoryECTSPriorityViolation, 1, 20},
}

// OptimizationResult reports the outcome of one penalty search.
type OptimizationResult struct {
	BestParams map[models.ConstraintCategory]float64
	BestScore  float64
	History    []float64
	Applied    bool
}

// PenaltyOptimizer reshapes the soft-penalty landscape under persistent
// stagnation. It searches the bounded space of soft bases with a
// deterministic coordinate descent over coarse buckets, scoring each
// candidate with a proxy objective that prefers balanced, moderate
// magnitudes.
type PenaltyOptimizer struct {
	penalties *PenaltyManager
	buckets   int
}

// NewPenaltyOptimizer binds the optimizer to the run's penalty manager.
func NewPenaltyOptimizer(penalties *PenaltyManager) *PenaltyOptimizer {
	return &PenaltyOptimizer{penalties: penalties, buckets: 4}
}

// Optimize searches from the current configuration and applies the best
// candidate found. The apply step re-validates the domination bound; on
// rejection the previous configuration stays and Applied is false.
func (o *PenaltyOptimizer) Optimize() OptimizationResult {
	current := o.startingPoint()
	best := cloneParams(current)
	bestScore := o.objective(best)

	result := OptimizationResult{History: []float64{bestScore}}

	for _, dim := range penaltyDimensions {
		step := (dim.high - dim.low) / float64(o.buckets)
		for b := 0; b <= o.buckets; b++ {
			candidate := cloneParams(best)
			candidate[dim.category] = dim.low + step*float64(b)
			score := o.objective(candidate)
			result.History = append(result.History, score)
			if score < bestScore {
				bestScore = score
				best = candidate
			}
		}
	}

	result.BestParams = best
	result.BestScore = bestScore

	if err := o.penalties.UpdateSoftBases(best); err == nil {
		result.Applied = true
	}
	return result
}

// startingPoint clamps the live soft bases into the search ranges.
func (o *PenaltyOptimizer) startingPoint() map[models.ConstraintCategory]float64 {
	bases := o.penalties.SoftBases()
	out := make(map[models.ConstraintCategory]float64, len(penaltyDimensions))
	for _, dim := range penaltyDimensions {
		out[dim.category] = clampFloat(bases[dim.category], dim.low, dim.high)
	}
	return out
}

// objective scores a candidate. The gate rejects out-of-bounds values
// and any set whose scaled sum could rival a hard violation; accepted
// sets are scored by spread plus distance of the mean from a moderate
// target, so extreme or imbalanced settings lose.
func (o *PenaltyOptimizer) objective(params map[models.ConstraintCategory]float64) float64 {
	for _, dim := range penaltyDimensions {
		v, ok := params[dim.category]
		if !ok || v < dim.low || v > dim.high {
			return rejectedObjective
		}
	}

	sum := 0.0
	for _, v := range params {
		sum += v
	}
	if sum*10 >= o.penalties.MinHardPenalty() {
		return rejectedObjective
	}

	mean := sum / float64(len(params))
	variance := 0.0
	for _, v := range params {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(params))

	const targetMean = 10.0
	return math.Sqrt(variance) + math.Abs(mean-targetMean)
}

func cloneParams(in map[models.ConstraintCategory]float64) map[models.ConstraintCategory]float64 {
	out := make(map[models.ConstraintCategory]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
