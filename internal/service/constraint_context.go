package service

import (
	"sort"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// Problem bundles the immutable reference data for one scheduling run.
type Problem struct {
	Courses       []models.Course
	Teachers      []models.Teacher
	Classrooms    []models.Classroom
	StudentGroups []models.StudentGroup
	Timeslots     []models.Timeslot
	Registry      *ConstraintRegistry

	coursesByID    map[string]models.Course
	teachersByID   map[string]models.Teacher
	roomsByID      map[string]models.Classroom
	groupsByID     map[string]models.StudentGroup
	slotsByCode    map[string]models.Timeslot
	ectsThreshold  int
	indexed        bool
}

// Index builds the lookup maps and derived thresholds. Idempotent.
func (p *Problem) Index() {
	if p.indexed {
		return
	}
	p.coursesByID = make(map[string]models.Course, len(p.Courses))
	for _, c := range p.Courses {
		p.coursesByID[c.ID] = c
	}
	p.teachersByID = make(map[string]models.Teacher, len(p.Teachers))
	for _, t := range p.Teachers {
		p.teachersByID[t.ID] = t
	}
	p.roomsByID = make(map[string]models.Classroom, len(p.Classrooms))
	for _, r := range p.Classrooms {
		p.roomsByID[r.ID] = r
	}
	p.groupsByID = make(map[string]models.StudentGroup, len(p.StudentGroups))
	for _, g := range p.StudentGroups {
		p.groupsByID[g.ID] = g
	}
	p.slotsByCode = make(map[string]models.Timeslot, len(p.Timeslots))
	for _, s := range p.Timeslots {
		p.slotsByCode[s.Code] = s
	}
	p.ectsThreshold = ectsPriorityThreshold(p.Courses)
	p.indexed = true
}

// Course resolves a course id, reporting whether it exists.
func (p *Problem) Course(id string) (models.Course, bool) {
	c, ok := p.coursesByID[id]
	return c, ok
}

// Teacher resolves a teacher id.
func (p *Problem) Teacher(id string) (models.Teacher, bool) {
	t, ok := p.teachersByID[id]
	return t, ok
}

// Classroom resolves a room id.
func (p *Problem) Classroom(id string) (models.Classroom, bool) {
	r, ok := p.roomsByID[id]
	return r, ok
}

// StudentGroup resolves a group id.
func (p *Problem) StudentGroup(id string) (models.StudentGroup, bool) {
	g, ok := p.groupsByID[id]
	return g, ok
}

// Timeslot resolves a timeslot code.
func (p *Problem) Timeslot(code string) (models.Timeslot, bool) {
	s, ok := p.slotsByCode[code]
	return s, ok
}

// TimeslotOrder returns the precedence order for a code, or -1.
func (p *Problem) TimeslotOrder(code string) int {
	if s, ok := p.slotsByCode[code]; ok {
		return s.Order
	}
	return -1
}

// ECTSThreshold is the credit floor above which courses demand early
// timeslots. 80th percentile of positive credit values.
func (p *Problem) ECTSThreshold() int { return p.ectsThreshold }

// GroupSizeSum totals the sizes of the referenced groups; unknown ids
// contribute nothing (missing data is reported elsewhere).
func (p *Problem) GroupSizeSum(groupIDs []string) int {
	total := 0
	for _, id := range groupIDs {
		if g, ok := p.groupsByID[id]; ok {
			total += g.Size
		}
	}
	return total
}

func ectsPriorityThreshold(courses []models.Course) int {
	credits := make([]int, 0, len(courses))
	for _, c := range courses {
		if c.ECTSCredits > 0 {
			credits = append(credits, c.ECTSCredits)
		}
	}
	if len(credits) == 0 {
		return 0
	}
	sort.Ints(credits)
	idx := int(float64(len(credits)) * 0.8)
	if idx >= len(credits) {
		idx = len(credits) - 1
	}
	return credits[idx]
}

// occupancyKey addresses one (resource, day, timeslot) cell.
type occupancyKey struct {
	resourceID   string
	day          models.Day
	timeslotCode string
}

// occupancyTracker records the first item to claim each cell. Later
// claimants are conflicts against that first occupant.
type occupancyTracker map[occupancyKey]*models.ScheduledItem

// Claim registers the item for a cell. When the cell is taken, the first
// occupant is returned and claimed is false.
func (t occupancyTracker) Claim(resourceID string, day models.Day, code string, item *models.ScheduledItem) (*models.ScheduledItem, bool) {
	key := occupancyKey{resourceID: resourceID, day: day, timeslotCode: code}
	if first, taken := t[key]; taken {
		return first, false
	}
	t[key] = item
	return nil, true
}

// EvalContext is the mutable state shared by validators within one
// evaluation. Reset between chromosomes, never shared across concurrent
// evaluations.
type EvalContext struct {
	Problem *Problem

	RoomOccupancy    occupancyTracker
	TeacherOccupancy occupancyTracker
	GroupOccupancy   occupancyTracker

	Item  *models.ScheduledItem
	Index int
}

// NewEvalContext builds a context bound to indexed problem data.
func NewEvalContext(p *Problem) *EvalContext {
	p.Index()
	return &EvalContext{
		Problem:          p,
		RoomOccupancy:    make(occupancyTracker),
		TeacherOccupancy: make(occupancyTracker),
		GroupOccupancy:   make(occupancyTracker),
	}
}

// Reset clears per-evaluation state so the context can be reused.
func (c *EvalContext) Reset() {
	clearTracker(c.RoomOccupancy)
	clearTracker(c.TeacherOccupancy)
	clearTracker(c.GroupOccupancy)
	c.Item = nil
	c.Index = 0
}

func clearTracker(t occupancyTracker) {
	for k := range t {
		delete(t, k)
	}
}
