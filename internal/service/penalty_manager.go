package service

import (
	"fmt"
	"math"
	"sync"

	appErrors "github.com/noah-isme/campus-scheduler-api/pkg/errors"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// PenaltyStrategy selects how a penalty scales with violation count.
type PenaltyStrategy string

const (
	StrategyFixed        PenaltyStrategy = "fixed"
	StrategyProportional PenaltyStrategy = "proportional"
	StrategyExponential  PenaltyStrategy = "exponential"
)

// basePenaltyUnit anchors the soft-total estimate before the safety
// margin is applied.
const basePenaltyUnit = 50.0

// softCountAllowance is the per-category violation-count factor assumed
// when re-validating the domination bound after a penalty update. It
// mirrors the optimizer's safety gate.
const softCountAllowance = 10.0

// PenaltyConfig holds the tunable parameters for one category.
type PenaltyConfig struct {
	Base       float64
	Multiplier float64
	Strategy   PenaltyStrategy
}

// categoryEstimate bounds the worst case for one soft category.
type categoryEstimate struct {
	maxViolations float64
	maxSeverity   float64
}

// PenaltyManager owns penalty magnitudes and the hard-dominates-soft
// bound. It is the single mutable authority for penalty configs: only
// the penalty optimizer writes to it, and only between generations.
type PenaltyManager struct {
	mu sync.RWMutex

	configs        map[models.ConstraintCategory]PenaltyConfig
	estimates      map[models.ConstraintCategory]categoryEstimate
	minHardPenalty float64
	maxSoftTotal   float64
	softCap        float64
}

// NewPenaltyManager derives penalty bounds from the problem size so that
// hard categories always outrank any achievable soft total.
func NewPenaltyManager(numCourses, numTeachers int, registry *ConstraintRegistry) (*PenaltyManager, error) {
	if numCourses <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "penalty bounds require at least one course")
	}
	if numTeachers <= 0 {
		numTeachers = 1
	}

	m := &PenaltyManager{
		configs:   make(map[models.ConstraintCategory]PenaltyConfig),
		estimates: make(map[models.ConstraintCategory]categoryEstimate),
	}

	m.estimates[models.CategoryRoomCapacityOverflow] = categoryEstimate{
		maxViolations: float64(numCourses) * 10,
		maxSeverity:   1,
	}
	m.estimates[models.CategoryTeacherScheduleCompactness] = categoryEstimate{
		maxViolations: float64(numTeachers) * 5,
		maxSeverity:   1,
	}
	m.estimates[models.CategoryTeacherTimePreference] = categoryEstimate{
		maxViolations: float64(numCourses),
		maxSeverity:   1,
	}
	m.estimates[models.CategoryTeacherRoomPreference] = categoryEstimate{
		maxViolations: float64(numCourses),
		maxSeverity:   1,
	}
	m.estimates[models.CategoryTeacherConsecutiveMovement] = categoryEstimate{
		maxViolations: float64(numTeachers) * 4,
		maxSeverity:   1,
	}
	m.estimates[models.CategoryECTSPriorityViolation] = categoryEstimate{
		maxViolations: float64(numCourses),
		maxSeverity:   2.5,
	}

	if registry != nil {
		m.refineFromRegistry(numCourses, registry)
	}

	total := 0.0
	for _, cat := range models.SoftCategories {
		est := m.estimates[cat]
		// The halving is an empirical safety tuning carried over from
		// production runs; changing it shifts every persisted config.
		total += basePenaltyUnit * est.maxViolations * est.maxSeverity / 2
	}
	m.maxSoftTotal = total
	m.minHardPenalty = total + 0.5*total
	m.softCap = 0.1 * m.minHardPenalty

	for _, cat := range models.HardCategories {
		m.configs[cat] = PenaltyConfig{Base: m.minHardPenalty, Multiplier: 1, Strategy: StrategyFixed}
	}
	for _, cat := range models.SoftCategories {
		m.configs[cat] = PenaltyConfig{Base: m.softCap, Multiplier: 1, Strategy: StrategyProportional}
	}

	if err := m.validateBound(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPenaltyBounds.Code, appErrors.ErrPenaltyBounds.Status,
			appErrors.ErrPenaltyBounds.Message)
	}

	return m, nil
}

// refineFromRegistry sharpens estimates for categories carrying actual
// user priorities. Counts are capped at twice the base estimate.
func (m *PenaltyManager) refineFromRegistry(numCourses int, registry *ConstraintRegistry) {
	priorityCategories := []models.ConstraintCategory{
		models.CategoryTeacherTimePreference,
		models.CategoryTeacherRoomPreference,
		models.CategoryTeacherScheduleCompactness,
	}

	for _, cat := range priorityCategories {
		constraints := registry.ForCategory(cat)
		if len(constraints) == 0 {
			continue
		}

		maxPriority := 0.0
		for _, c := range constraints {
			if c.Priority > maxPriority {
				maxPriority = c.Priority
			}
		}

		est := m.estimates[cat]
		est.maxSeverity = math.Max(maxPriority/10, 0.1)

		capped := float64(len(constraints) * numCourses)
		ceiling := est.maxViolations * 2
		if capped > ceiling {
			capped = ceiling
		}
		if capped > 0 {
			est.maxViolations = capped
		}
		m.estimates[cat] = est
	}
}

// MinHardPenalty returns the scalar every hard violation is scored at.
func (m *PenaltyManager) MinHardPenalty() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.minHardPenalty
}

// SoftCap returns the ceiling applied to any single soft penalty.
func (m *PenaltyManager) SoftCap() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.softCap
}

// Config returns the current configuration for a category.
func (m *PenaltyManager) Config(cat models.ConstraintCategory) PenaltyConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configs[cat]
}

// SoftBases snapshots the current soft bases in enum order, for the
// penalty optimizer's starting point.
func (m *PenaltyManager) SoftBases() map[models.ConstraintCategory]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[models.ConstraintCategory]float64, len(models.SoftCategories))
	for _, cat := range models.SoftCategories {
		out[cat] = m.configs[cat].Base
	}
	return out
}

// Penalty scores violationCount violations of a category at the given
// severity. Soft results are capped so no single call can rival a hard
// violation.
func (m *PenaltyManager) Penalty(cat models.ConstraintCategory, violationCount int, severity float64) float64 {
	m.mu.RLock()
	cfg, ok := m.configs[cat]
	softCap := m.softCap
	m.mu.RUnlock()

	if !ok || violationCount <= 0 {
		return 0
	}
	if severity <= 0 {
		severity = 1
	}

	var p float64
	switch cfg.Strategy {
	case StrategyProportional:
		p = cfg.Base * float64(violationCount) * cfg.Multiplier * severity
	case StrategyExponential:
		exp := math.Min(float64(violationCount-1), 10)
		p = cfg.Base * cfg.Multiplier * severity * math.Pow(2, exp)
	default:
		p = cfg.Base * cfg.Multiplier * severity
	}

	if !cat.IsHard() && p > softCap {
		p = softCap
	}
	return p
}

// UpdateSoftBases applies a new set of soft bases transactionally: the
// domination bound is validated against the candidate configuration
// first, and on failure the previous configuration stays in place.
func (m *PenaltyManager) UpdateSoftBases(bases map[models.ConstraintCategory]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := make(map[models.ConstraintCategory]PenaltyConfig, len(bases))
	for cat, base := range bases {
		if cat.IsHard() {
			return fmt.Errorf("category %s is hard; only soft bases are tunable", cat)
		}
		if base <= 0 {
			return fmt.Errorf("category %s: base must be positive", cat)
		}
		previous[cat] = m.configs[cat]
		cfg := m.configs[cat]
		cfg.Base = base
		m.configs[cat] = cfg
	}

	if err := m.validateBoundLocked(); err != nil {
		for cat, cfg := range previous {
			m.configs[cat] = cfg
		}
		return err
	}
	return nil
}

// ValidateBound re-checks the domination invariant against the current
// configuration.
func (m *PenaltyManager) ValidateBound() error {
	return m.validateBound()
}

func (m *PenaltyManager) validateBound() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validateBoundLocked()
}

func (m *PenaltyManager) validateBoundLocked() error {
	sum := 0.0
	for _, cat := range models.SoftCategories {
		perCategory := m.configs[cat].Base * softCountAllowance
		if perCategory > m.softCap {
			perCategory = m.softCap
		}
		sum += perCategory
	}
	if m.minHardPenalty <= sum {
		return fmt.Errorf("domination bound broken: minHardPenalty %.2f <= max soft total %.2f", m.minHardPenalty, sum)
	}
	return nil
}
