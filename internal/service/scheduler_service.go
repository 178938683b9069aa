package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-scheduler-api/internal/dto"
	"github.com/noah-isme/campus-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/campus-scheduler-api/pkg/errors"
	"github.com/noah-isme/campus-scheduler-api/pkg/jobs"
)

const taskKeyPrefix = "scheduler:task:"

// maxViolationSamples caps the per-category sample list in evaluate
// responses.
const maxViolationSamples = 5

// RunArchiver persists finished runs. Satisfied by repository.RunRepository.
type RunArchiver interface {
	Create(ctx context.Context, run *models.SchedulerRun) error
	FindByID(ctx context.Context, id string) (*models.SchedulerRun, error)
}

// ResultStore caches run results by task id. Satisfied by redis.Client.
type ResultStore interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type runObserver interface {
	ObserveRun(status string, seconds float64, generations, restarts int)
	ObserveEvaluation()
}

// RequestValidationError carries per-field failures for the 422 path.
type RequestValidationError struct {
	Fields []dto.ValidationFieldError
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("request validation failed: %d field errors", len(e.Fields))
}

// SchedulerConfig tunes run dispatch and result retention.
type SchedulerConfig struct {
	DefaultTimeLimit time.Duration
	MaxTimeLimit     time.Duration
	Workers          int
	MaxConcurrent    int
	MaxRestarts      int
	MaxGenerations   int
	ResultTTL        time.Duration
	ArchiveRuns      bool
}

// SchedulerService fronts the adaptive engine: it validates requests,
// dispatches runs with a wall-clock deadline, and retains finished
// results in the cache plus the optional archive.
type SchedulerService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    SchedulerConfig

	results ResultStore
	archive RunArchiver
	jobs    *jobs.Queue
	metrics runObserver

	runSlots chan struct{}
}

// NewSchedulerService wires the scheduler dependencies. results,
// archiveQueue and metrics may be nil; the corresponding features are
// then disabled.
func NewSchedulerService(
	validate *validator.Validate,
	results ResultStore,
	archive RunArchiver,
	archiveQueue *jobs.Queue,
	metrics runObserver,
	logger *zap.Logger,
	cfg SchedulerConfig,
) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTimeLimit <= 0 {
		cfg.DefaultTimeLimit = 30 * time.Second
	}
	if cfg.MaxTimeLimit <= 0 {
		cfg.MaxTimeLimit = 300 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.MaxRestarts <= 0 {
		cfg.MaxRestarts = 3
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}

	return &SchedulerService{
		validator: validate,
		logger:    logger,
		config:    cfg,
		results:   results,
		archive:   archive,
		jobs:      archiveQueue,
		metrics:   metrics,
		runSlots:  make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Schedule runs the full adaptive search for one request. The caller's
// context cancellation and the clamped time limit both cut the run
// short gracefully; the best found so far is always returned.
func (s *SchedulerService) Schedule(ctx context.Context, req dto.ScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validateScheduleRequest(req); err != nil {
		return nil, err
	}

	problem := buildProblem(req.Courses, req.Teachers, req.Rooms, req.StudentGroups, req.Timeslots)
	registry, err := NewConstraintRegistry(convertConstraints(req.Constraints))
	if err != nil {
		return nil, err
	}
	problem.Registry = registry

	penalties, err := NewPenaltyManager(len(problem.Courses), len(problem.Teachers), registry)
	if err != nil {
		return nil, err
	}

	timeLimit := s.config.DefaultTimeLimit
	if req.TimeLimit > 0 {
		timeLimit = time.Duration(req.TimeLimit) * time.Second
	}
	if timeLimit > s.config.MaxTimeLimit {
		timeLimit = s.config.MaxTimeLimit
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	// Runs are compute-bound; a bounded slot pool keeps the request
	// threads responsive while limiting concurrent searches.
	select {
	case s.runSlots <- struct{}{}:
		defer func() { <-s.runSlots }()
	case <-ctx.Done():
		return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "request cancelled before dispatch")
	}

	runCtx, cancel := context.WithTimeout(ctx, timeLimit)
	defer cancel()

	scheduler := NewAdaptiveScheduler(problem, registry, penalties, AdaptiveConfig{
		MaxGenerations: s.config.MaxGenerations,
		MaxRestarts:    s.config.MaxRestarts,
		TimeLimit:      timeLimit,
		Workers:        s.config.Workers,
		Seed:           seed,
	}, s.logger)

	taskID := uuid.NewString()
	s.logger.Info("scheduler run started",
		zap.String("task_id", taskID),
		zap.Int("courses", len(problem.Courses)),
		zap.Int("sessions", models.TotalSessions(problem.Courses)),
		zap.Duration("time_limit", timeLimit))

	outcome := scheduler.Run(runCtx)

	resp := &dto.ScheduleResponse{
		TaskID:       taskID,
		BestSchedule: outcome.BestSchedule,
		BestFitness:  outcome.BestFitness,
		TimeTaken:    outcome.Metrics.ExecutionSeconds,
		Report: &dto.ScheduleReport{
			Feasible:           outcome.BestReport.Feasible,
			HardViolationCount: outcome.BestReport.HardViolationCount,
			SoftPenaltyTotal:   outcome.BestReport.SoftPenaltyTotal,
			Violations:         renderViolations(outcome.BestReport.Violations, 0),
			FitnessVector:      outcome.BestReport.FitnessVector,
			RunMetrics:         outcome.Metrics,
		},
	}

	status := models.RunStatusCompleted
	if outcome.Metrics.StoppedByDeadline {
		status = models.RunStatusTimedOut
	}
	if ctx.Err() != nil {
		status = models.RunStatusCancelled
	}

	s.storeResult(ctx, taskID, resp)
	s.archiveRun(taskID, status, resp)
	if s.metrics != nil {
		s.metrics.ObserveRun(status, outcome.Metrics.ExecutionSeconds,
			outcome.Metrics.TotalGenerations, outcome.Metrics.PopulationRestarts)
	}

	s.logger.Info("scheduler run finished",
		zap.String("task_id", taskID),
		zap.String("status", status),
		zap.Bool("feasible", resp.Report.Feasible),
		zap.Float64("best_fitness", resp.BestFitness),
		zap.Int("generations", outcome.Metrics.TotalGenerations))

	return resp, nil
}

// Evaluate scores a caller-supplied schedule without searching.
func (s *SchedulerService) Evaluate(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	problem := buildProblem(req.Courses, req.Teachers, req.Rooms, req.StudentGroups, req.Timeslots)
	registry, err := NewConstraintRegistry(convertConstraints(req.Constraints))
	if err != nil {
		return nil, err
	}
	problem.Registry = registry

	penalties, err := NewPenaltyManager(len(problem.Courses), len(problem.Teachers), registry)
	if err != nil {
		return nil, err
	}

	chromosome := make(models.Chromosome, 0, len(req.Schedule))
	for _, item := range req.Schedule {
		chromosome = append(chromosome, models.ScheduledItem{
			CourseID:        item.CourseID,
			CourseName:      item.CourseName,
			SessionType:     models.RoomType(item.SessionType),
			TeacherID:       item.TeacherID,
			StudentGroupIDs: item.StudentGroupIDs,
			ClassroomID:     item.ClassroomID,
			TimeslotCode:    item.TimeslotCode,
			Day:             models.Day(item.Day),
		})
	}

	evaluator := NewFitnessEvaluator(problem, penalties, BuildValidators(registry))
	report := evaluator.Evaluate(chromosome)
	if s.metrics != nil {
		s.metrics.ObserveEvaluation()
	}

	categories := make(map[string]dto.CategoryBreakdown)
	for _, violation := range report.Violations {
		name := violation.Category.WireName()
		entry := categories[name]
		entry.Count++
		if !violation.Hard {
			entry.TotalPenalty += penalties.Penalty(violation.Category, violation.Count, violation.Severity)
		}
		if len(entry.Violations) < maxViolationSamples {
			entry.Violations = append(entry.Violations, renderViolation(violation))
		}
		categories[name] = entry
	}

	return &dto.EvaluateResponse{
		Summary: dto.EvaluationSummary{
			IsFeasible:          report.Feasible,
			TotalHardViolations: report.HardViolationCount,
			TotalSoftPenalty:    report.SoftPenaltyTotal,
			TotalViolations:     len(report.Violations),
			EvaluationTime:      report.EvalSeconds,
		},
		Violations:    renderViolations(report.Violations, 0),
		Categories:    categories,
		FitnessVector: report.FitnessVector,
	}, nil
}

// Task fetches a finished run's response by task id, from the cache
// first and the archive as fallback.
func (s *SchedulerService) Task(ctx context.Context, taskID string) (*dto.ScheduleResponse, error) {
	if s.results != nil {
		raw, err := s.results.Get(ctx, taskKeyPrefix+taskID).Result()
		if err == nil {
			var resp dto.ScheduleResponse
			if err := json.Unmarshal([]byte(raw), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	if s.archive != nil {
		run, err := s.archive.FindByID(ctx, taskID)
		if err == nil && run != nil {
			var resp dto.ScheduleResponse
			if err := json.Unmarshal(run.ResultJSON, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	return nil, appErrors.Clone(appErrors.ErrTaskNotReady, fmt.Sprintf("no result for task %s", taskID))
}

func (s *SchedulerService) storeResult(ctx context.Context, taskID string, resp *dto.ScheduleResponse) {
	if s.results == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("marshal task result", zap.String("task_id", taskID), zap.Error(err))
		return
	}
	if err := s.results.Set(ctx, taskKeyPrefix+taskID, payload, s.config.ResultTTL).Err(); err != nil {
		s.logger.Warn("cache task result", zap.String("task_id", taskID), zap.Error(err))
	}
}

func (s *SchedulerService) archiveRun(taskID, status string, resp *dto.ScheduleResponse) {
	if !s.config.ArchiveRuns || s.archive == nil || s.jobs == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("marshal run archive", zap.String("task_id", taskID), zap.Error(err))
		return
	}
	run := &models.SchedulerRun{
		ID:          taskID,
		Status:      status,
		Feasible:    resp.Report.Feasible,
		BestFitness: resp.BestFitness,
		Generations: resp.Report.RunMetrics.TotalGenerations,
		Restarts:    resp.Report.RunMetrics.PopulationRestarts,
		TimeTaken:   resp.TimeTaken,
		ResultJSON:  payload,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Enqueue(jobs.Job{ID: taskID, Type: "archive_run", Payload: run}); err != nil {
		s.logger.Warn("enqueue run archive", zap.String("task_id", taskID), zap.Error(err))
	}
}

// ArchiveHandler returns the jobs handler persisting finished runs.
func (s *SchedulerService) ArchiveHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		run, ok := job.Payload.(*models.SchedulerRun)
		if !ok {
			return fmt.Errorf("unexpected archive payload %T", job.Payload)
		}
		return s.archive.Create(ctx, run)
	}
}

func (s *SchedulerService) validateStruct(req interface{}) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	verr := &RequestValidationError{}
	if ok := asValidationErrors(err, &fieldErrs); ok {
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, dto.ValidationFieldError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q validation", fe.Tag()),
			})
		}
	} else {
		verr.Fields = append(verr.Fields, dto.ValidationFieldError{Field: "request", Message: err.Error()})
	}
	return verr
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok {
		*target = errs
		return true
	}
	return false
}

// validateScheduleRequest combines struct tags with semantic checks the
// tags cannot express: id uniqueness per collection.
func (s *SchedulerService) validateScheduleRequest(req dto.ScheduleRequest) error {
	if err := s.validateStruct(req); err != nil {
		return err
	}

	verr := &RequestValidationError{}
	checkDuplicates(verr, "courses", len(req.Courses), func(i int) string { return req.Courses[i].ID })
	checkDuplicates(verr, "teachers", len(req.Teachers), func(i int) string { return req.Teachers[i].ID })
	checkDuplicates(verr, "rooms", len(req.Rooms), func(i int) string { return req.Rooms[i].ID })
	checkDuplicates(verr, "studentGroups", len(req.StudentGroups), func(i int) string { return req.StudentGroups[i].ID })
	checkDuplicates(verr, "timeslots", len(req.Timeslots), func(i int) string { return req.Timeslots[i].Code })

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func checkDuplicates(verr *RequestValidationError, collection string, n int, id func(int) string) {
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if first, dup := seen[key]; dup {
			verr.Fields = append(verr.Fields, dto.ValidationFieldError{
				Field:   fmt.Sprintf("%s[%d].id", collection, i),
				Message: fmt.Sprintf("duplicate of %s[%d]", collection, first),
			})
			continue
		}
		seen[key] = i
	}
}

func buildProblem(
	courses []dto.CourseRequest,
	teachers []dto.TeacherRequest,
	rooms []dto.RoomRequest,
	groups []dto.StudentGroupRequest,
	timeslots []dto.TimeslotRequest,
) *Problem {
	p := &Problem{}
	for _, c := range courses {
		p.Courses = append(p.Courses, models.Course{
			ID:              c.ID,
			Name:            c.Name,
			ECTSCredits:     c.ECTSCredits,
			Department:      c.Department,
			TeacherID:       c.TeacherID,
			SessionType:     models.RoomType(c.SessionType),
			SessionsPerWeek: c.SessionsPerWeek,
			StudentGroupIDs: c.StudentGroupIDs,
		})
	}
	for _, t := range teachers {
		p.Teachers = append(p.Teachers, models.Teacher{
			ID:                  t.ID,
			Name:                t.Name,
			Email:               t.Email,
			Phone:               t.Phone,
			Department:          t.Department,
			NeedsAccessibleRoom: t.NeedsAccessibleRoom,
		})
	}
	for _, r := range rooms {
		p.Classrooms = append(p.Classrooms, models.Classroom{
			ID:                   r.ID,
			Name:                 r.Name,
			Capacity:             r.Capacity,
			Type:                 models.RoomType(r.Type),
			BuildingID:           r.BuildingID,
			Floor:                r.Floor,
			WheelchairAccessible: r.WheelchairAccessible,
		})
	}
	for _, g := range groups {
		p.StudentGroups = append(p.StudentGroups, models.StudentGroup{
			ID:                    g.ID,
			Name:                  g.Name,
			Size:                  g.Size,
			Department:            g.Department,
			AccessibilityRequired: g.AccessibilityRequired,
		})
	}
	for _, ts := range timeslots {
		p.Timeslots = append(p.Timeslots, models.Timeslot{
			ID:    ts.ID,
			Code:  ts.Code,
			Label: ts.Label,
			Start: ts.Start,
			End:   ts.End,
			Order: ts.Order,
		})
	}
	p.Index()
	return p
}

func convertConstraints(in []dto.ConstraintRequest) []models.Constraint {
	out := make([]models.Constraint, 0, len(in))
	for _, c := range in {
		out = append(out, models.Constraint{
			ID:        c.ID,
			Type:      c.Type,
			TeacherID: c.TeacherID,
			Value:     c.Value,
			Priority:  c.Priority,
		})
	}
	return out
}

// renderViolations formats violations for the wire; limit 0 means all.
func renderViolations(violations []models.ConstraintViolation, limit int) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, renderViolation(v))
	}
	return out
}

func renderViolation(v models.ConstraintViolation) string {
	hardness := "SOFT"
	if v.Hard {
		hardness = "HARD"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", hardness, v.Category, v.Description)
	return b.String()
}
