package service

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// restartPatience is how long the best must stand still, on top of a
// severe classification, before a restart may fire.
const restartPatience = 100

// AdaptiveConfig bounds one adaptive run.
type AdaptiveConfig struct {
	MaxGenerations int
	MaxRestarts    int
	TimeLimit      time.Duration
	Workers        int
	Seed           int64
}

// RunOutcome carries everything a finished run reports.
type RunOutcome struct {
	BestSchedule models.Chromosome
	BestFitness  float64
	BestReport   *models.FitnessReport
	Metrics      models.AdaptiveRunMetrics
	Adaptations  []AdaptationRecord
}

// AdaptiveScheduler is the top-level search loop: it evolves the
// population, watches convergence, and escalates through the three
// adaptive tiers (penalty reshaping, parameter adaptation, population
// restart) as stagnation deepens.
type AdaptiveScheduler struct {
	problem    *Problem
	penalties  *PenaltyManager
	validators *ValidatorSet
	ga         *GeneticScheduler
	detector   *ConvergenceDetector
	params     *ParameterManager
	optimizer  *PenaltyOptimizer
	config     AdaptiveConfig
	logger     *zap.Logger

	evaluators []*FitnessEvaluator
}

// NewAdaptiveScheduler wires the engine for one request. All randomness
// is owned by one seeded source so fixed seed plus fixed input replays
// the identical run.
func NewAdaptiveScheduler(problem *Problem, registry *ConstraintRegistry, penalties *PenaltyManager, cfg AdaptiveConfig, logger *zap.Logger) *AdaptiveScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxGenerations <= 0 {
		cfg.MaxGenerations = 2000
	}
	if cfg.MaxRestarts < 0 {
		cfg.MaxRestarts = 0
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	problem.Index()
	validators := BuildValidators(registry)
	rng := rand.New(rand.NewSource(cfg.Seed))

	paramMgr := NewParameterManager(models.TotalSessions(problem.Courses))
	ga := NewGeneticScheduler(problem, paramMgr.Baseline(), rng)

	s := &AdaptiveScheduler{
		problem:    problem,
		penalties:  penalties,
		validators: validators,
		ga:         ga,
		detector:   NewConvergenceDetector(ga.ChromosomeLength()),
		params:     paramMgr,
		optimizer:  NewPenaltyOptimizer(penalties),
		config:     cfg,
		logger:     logger,
	}

	for i := 0; i < cfg.Workers; i++ {
		s.evaluators = append(s.evaluators, NewFitnessEvaluator(problem, penalties, validators))
	}
	return s
}

// Run executes the adaptive loop until a perfect schedule, the
// generation cap, the deadline, or exhausted restarts under persistent
// severe stagnation. Partial results are always valid: the best found so
// far is returned on every path.
func (s *AdaptiveScheduler) Run(ctx context.Context) *RunOutcome {
	start := time.Now()

	population := s.ga.InitPopulation(s.ga.Params().PopulationSize)

	var (
		bestSchedule  models.Chromosome
		bestReport    *models.FitnessReport
		bestFitness   = math.Inf(1)
		bestGen       int
		gensSinceBest int

		restarts       int
		optimizations  int
		adaptations    int
		generation     int
		finalDiversity float64
		byDeadline     bool
	)

	for generation = 0; generation < s.config.MaxGenerations; generation++ {
		if ctx.Err() != nil || (s.config.TimeLimit > 0 && time.Since(start) >= s.config.TimeLimit) {
			byDeadline = true
			break
		}

		fitnesses, reports := s.evaluatePopulation(population)

		improved := false
		for i, f := range fitnesses {
			if f < bestFitness {
				bestFitness = f
				bestSchedule = population[i].Clone()
				bestReport = reports[i]
				bestGen = generation
				improved = true
			}
		}
		if improved {
			gensSinceBest = 0
			s.logger.Debug("new best candidate",
				zap.Int("generation", generation),
				zap.Float64("fitness", bestFitness),
				zap.Int("hard_violations", bestReport.HardViolationCount))
		} else {
			gensSinceBest++
		}

		if bestReport != nil && bestReport.Feasible && bestReport.SoftPenaltyTotal == 0 {
			break
		}

		metrics := s.detector.Check(population, fitnesses)
		finalDiversity = metrics.Diversity
		severity := s.detector.Severity()

		if severity >= StagnationModerate {
			result := s.optimizer.Optimize()
			optimizations++
			s.logger.Info("penalty landscape reshaped",
				zap.Int("generation", generation),
				zap.String("severity", severity.String()),
				zap.Bool("applied", result.Applied),
				zap.Float64("objective", result.BestScore))
		}

		if severity != StagnationNone {
			if adapted, changed := s.params.Adapt(s.ga.Params(), metrics, severity, generation); changed {
				s.ga.SetParams(adapted)
				adaptations++
			}
		}

		if severity == StagnationSevere && restarts < s.config.MaxRestarts && gensSinceBest > restartPatience {
			population = s.restart(population, fitnesses, bestSchedule)
			s.detector.Reset()
			s.params.Reset()
			restarts++
			gensSinceBest = 0
			s.logger.Info("population restarted",
				zap.Int("generation", generation),
				zap.Int("restart", restarts))
			continue
		}

		if restarts >= s.config.MaxRestarts && severity == StagnationSevere &&
			s.detector.GenerationsSinceImprovement() >= stagnationSevereAfter+300 {
			break
		}

		population = s.ga.Evolve(population, fitnesses)
	}

	if bestReport == nil {
		// The deadline fired before the first evaluation completed.
		fitnesses, reports := s.evaluatePopulation(population[:1])
		bestFitness = fitnesses[0]
		bestSchedule = population[0].Clone()
		bestReport = reports[0]
	}

	return &RunOutcome{
		BestSchedule: bestSchedule,
		BestFitness:  bestFitness,
		BestReport:   bestReport,
		Adaptations:  s.params.History(),
		Metrics: models.AdaptiveRunMetrics{
			TotalGenerations:     generation,
			PenaltyOptimizations: optimizations,
			ParameterAdaptations: adaptations,
			PopulationRestarts:   restarts,
			BestGeneration:       bestGen,
			FinalDiversity:       finalDiversity,
			ExecutionSeconds:     time.Since(start).Seconds(),
			StoppedByDeadline:    byDeadline,
		},
	}
}

// evaluatePopulation scores every chromosome, fanning out across the
// worker evaluators. Each evaluation is pure, so results land by index
// and the outcome is independent of scheduling order.
func (s *AdaptiveScheduler) evaluatePopulation(population []models.Chromosome) ([]float64, []*models.FitnessReport) {
	fitnesses := make([]float64, len(population))
	reports := make([]*models.FitnessReport, len(population))

	workers := len(s.evaluators)
	if workers > len(population) {
		workers = len(population)
	}
	if workers <= 1 {
		for i, chromosome := range population {
			reports[i] = s.evaluators[0].Evaluate(chromosome)
			fitnesses[i] = s.evaluators[0].Fitness(reports[i])
		}
		return fitnesses, reports
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(evaluator *FitnessEvaluator) {
			defer wg.Done()
			for i := range indices {
				reports[i] = evaluator.Evaluate(population[i])
				fitnesses[i] = evaluator.Fitness(reports[i])
			}
		}(s.evaluators[w])
	}
	for i := range population {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return fitnesses, reports
}

// restart reseeds the population: parameters go back to baseline, the
// top tenth (plus the global best) survive as elites, and the rest are
// fresh template-based individuals.
func (s *AdaptiveScheduler) restart(population []models.Chromosome, fitnesses []float64, best models.Chromosome) []models.Chromosome {
	baseline := s.params.Baseline()
	s.ga.SetParams(baseline)

	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return fitnesses[order[a]] < fitnesses[order[b]] })

	elites := len(population) / 10
	if elites < 1 {
		elites = 1
	}
	if elites > baseline.PopulationSize {
		elites = baseline.PopulationSize
	}

	next := make([]models.Chromosome, 0, baseline.PopulationSize)
	for _, idx := range order[:elites] {
		next = append(next, population[idx].Clone())
	}
	if best != nil && !containsChromosome(next, best) && len(next) < baseline.PopulationSize {
		next = append(next, best.Clone())
	}
	for len(next) < baseline.PopulationSize {
		next = append(next, s.ga.NewIndividual())
	}
	return next
}

func containsChromosome(population []models.Chromosome, target models.Chromosome) bool {
	for _, candidate := range population {
		if chromosomesEqual(candidate, target) {
			return true
		}
	}
	return false
}

func chromosomesEqual(a, b models.Chromosome) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ClassroomID != b[i].ClassroomID ||
			a[i].TimeslotCode != b[i].TimeslotCode ||
			a[i].Day != b[i].Day {
			return false
		}
	}
	return true
}
