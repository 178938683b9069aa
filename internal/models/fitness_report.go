package models

// ConstraintViolation records one broken rule found during evaluation.
// ConflictingItem is set only for occupancy conflicts, pointing at the
// gene that claimed the cell first.
type ConstraintViolation struct {
	Category        ConstraintCategory `json:"category"`
	Hard            bool               `json:"hard"`
	Severity        float64            `json:"severity"`
	Count           int                `json:"violationCount"`
	OffendingItem   *ScheduledItem     `json:"offendingItem,omitempty"`
	ConflictingItem *ScheduledItem     `json:"conflictingItem,omitempty"`
	Description     string             `json:"description"`
}

// FitnessReport is the full outcome of evaluating one chromosome.
type FitnessReport struct {
	HardViolationCount int                            `json:"hardViolationCount"`
	SoftPenaltyTotal   float64                        `json:"softPenaltyTotal"`
	PerCategoryHard    map[ConstraintCategory]int     `json:"perCategoryHard"`
	PerCategorySoft    map[ConstraintCategory]float64 `json:"perCategorySoft"`
	Violations         []ConstraintViolation          `json:"violations"`
	Feasible           bool                           `json:"feasible"`
	FitnessVector      []float64                      `json:"fitnessVector"`
	EvalSeconds        float64                        `json:"evalSeconds"`
}

// Fitness collapses the report to a scalar under the domination rule:
// any extra hard violation outweighs every achievable soft total.
func (r *FitnessReport) Fitness(minHardPenalty float64) float64 {
	return float64(r.HardViolationCount)*minHardPenalty + r.SoftPenaltyTotal
}

// AdaptiveRunMetrics summarizes what the adaptive control layers did
// during one scheduling run.
type AdaptiveRunMetrics struct {
	TotalGenerations     int     `json:"total_generations"`
	PenaltyOptimizations int     `json:"penalty_optimizations"`
	ParameterAdaptations int     `json:"parameter_adaptations"`
	PopulationRestarts   int     `json:"total_population_restarts"`
	BestGeneration       int     `json:"best_generation"`
	FinalDiversity       float64 `json:"final_diversity"`
	ExecutionSeconds     float64 `json:"execution_seconds"`
	StoppedByDeadline    bool    `json:"stopped_by_deadline"`
}
