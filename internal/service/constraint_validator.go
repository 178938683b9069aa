package service

import (
	"fmt"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// GeneValidator inspects the context's current ScheduledItem and reports
// any violations it causes. Validators never fail; malformed data is a
// violation, not an error.
type GeneValidator interface {
	Category() models.ConstraintCategory
	Validate(ctx *EvalContext) []models.ConstraintViolation
}

// ScheduleValidator runs once per evaluation over the full chromosome,
// for rules that only make sense across genes.
type ScheduleValidator interface {
	Category() models.ConstraintCategory
	Validate(ctx *EvalContext, chromosome models.Chromosome) []models.ConstraintViolation
}

func hardViolation(cat models.ConstraintCategory, item *models.ScheduledItem, conflicting *models.ScheduledItem, format string, args ...interface{}) models.ConstraintViolation {
	return models.ConstraintViolation{
		Category:        cat,
		Hard:            true,
		Severity:        1,
		Count:           1,
		OffendingItem:   item,
		ConflictingItem: conflicting,
		Description:     fmt.Sprintf(format, args...),
	}
}

func softViolation(cat models.ConstraintCategory, item *models.ScheduledItem, severity float64, count int, format string, args ...interface{}) models.ConstraintViolation {
	return models.ConstraintViolation{
		Category:      cat,
		Hard:          false,
		Severity:      severity,
		Count:         count,
		OffendingItem: item,
		Description:   fmt.Sprintf(format, args...),
	}
}
