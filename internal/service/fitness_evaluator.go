package service

import (
	"time"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// FitnessEvaluator drives the validator set over a candidate and
// compiles a FitnessReport. One evaluator owns one EvalContext, so a
// single evaluator must not be shared across concurrent evaluations;
// parallel scoring uses one evaluator per worker.
type FitnessEvaluator struct {
	problem    *Problem
	penalties  *PenaltyManager
	validators *ValidatorSet
	ctx        *EvalContext
}

// NewFitnessEvaluator binds an evaluator to immutable problem data and
// the shared penalty manager.
func NewFitnessEvaluator(problem *Problem, penalties *PenaltyManager, validators *ValidatorSet) *FitnessEvaluator {
	return &FitnessEvaluator{
		problem:    problem,
		penalties:  penalties,
		validators: validators,
		ctx:        NewEvalContext(problem),
	}
}

// Evaluate scores one chromosome. Pure in everything except wall-clock
// timing: the same chromosome and penalty state always produce the same
// violations and totals.
func (e *FitnessEvaluator) Evaluate(chromosome models.Chromosome) *models.FitnessReport {
	start := time.Now()
	e.ctx.Reset()

	var violations []models.ConstraintViolation
	for i := range chromosome {
		e.ctx.Item = &chromosome[i]
		e.ctx.Index = i
		for _, v := range e.validators.Gene {
			violations = append(violations, v.Validate(e.ctx)...)
		}
	}
	for _, v := range e.validators.Schedule {
		violations = append(violations, v.Validate(e.ctx, chromosome)...)
	}

	report := &models.FitnessReport{
		PerCategoryHard: make(map[models.ConstraintCategory]int),
		PerCategorySoft: make(map[models.ConstraintCategory]float64),
		Violations:      violations,
	}

	for _, violation := range violations {
		if violation.Hard {
			report.PerCategoryHard[violation.Category]++
			report.HardViolationCount++
			continue
		}
		penalty := e.penalties.Penalty(violation.Category, violation.Count, violation.Severity)
		report.PerCategorySoft[violation.Category] += penalty
		report.SoftPenaltyTotal += penalty
	}

	report.Feasible = report.HardViolationCount == 0
	report.FitnessVector = buildFitnessVector(report)
	report.EvalSeconds = time.Since(start).Seconds()
	return report
}

// Fitness collapses a report to the scalar the search minimizes.
func (e *FitnessEvaluator) Fitness(report *models.FitnessReport) float64 {
	return report.Fitness(e.penalties.MinHardPenalty())
}

// buildFitnessVector lays out [hardCount, softSum, hard per category...,
// soft per category...] in enum order for a stable multi-objective
// signature.
func buildFitnessVector(report *models.FitnessReport) []float64 {
	vector := make([]float64, 0, 2+len(models.HardCategories)+len(models.SoftCategories))
	vector = append(vector, float64(report.HardViolationCount), report.SoftPenaltyTotal)
	for _, cat := range models.HardCategories {
		vector = append(vector, float64(report.PerCategoryHard[cat]))
	}
	for _, cat := range models.SoftCategories {
		vector = append(vector, report.PerCategorySoft[cat])
	}
	return vector
}
