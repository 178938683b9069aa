package service

import (
	"math/rand"
	"sort"

	"github.com/noah-isme/campus-scheduler-api/internal/models"
)

// GAParams are the exploration/exploitation knobs of the evolutionary
// core. The parameter manager adapts them between generations.
type GAParams struct {
	PopulationSize         int
	GeneMutationRate       float64
	ChromosomeMutationRate float64
	TournamentSize         int
	ElitismCount           int
	CrossoverRate          float64
	HeuristicProbability   float64
}

// GeneticScheduler owns the population operators: template construction,
// initialization, tournament selection, uniform crossover, mutation and
// elitism. All randomness flows through one seeded source owned by the
// coordinator.
type GeneticScheduler struct {
	problem  *Problem
	rng      *rand.Rand
	params   GAParams
	template models.Chromosome

	roomsByType map[models.RoomType][]models.Classroom
	allRooms    []models.Classroom
	slotCodes   []string
}

// NewGeneticScheduler builds the operator state for a run. The template
// chromosome fixes gene identity: index i is always the same (course,
// session instance) pair.
func NewGeneticScheduler(problem *Problem, params GAParams, rng *rand.Rand) *GeneticScheduler {
	problem.Index()

	g := &GeneticScheduler{
		problem:     problem,
		rng:         rng,
		params:      params,
		roomsByType: make(map[models.RoomType][]models.Classroom),
	}
	for _, room := range problem.Classrooms {
		g.roomsByType[room.Type] = append(g.roomsByType[room.Type], room)
		g.allRooms = append(g.allRooms, room)
	}
	for _, slot := range problem.Timeslots {
		g.slotCodes = append(g.slotCodes, slot.Code)
	}

	for _, course := range problem.Courses {
		for instance := 0; instance < course.SessionsPerWeek; instance++ {
			g.template = append(g.template, models.ScheduledItem{
				CourseID:        course.ID,
				CourseName:      course.Name,
				SessionType:     course.SessionType,
				TeacherID:       course.TeacherID,
				StudentGroupIDs: append([]string(nil), course.StudentGroupIDs...),
			})
		}
	}

	return g
}

// Params returns the current operator parameters.
func (g *GeneticScheduler) Params() GAParams { return g.params }

// SetParams swaps the operator parameters between generations.
func (g *GeneticScheduler) SetParams(p GAParams) { g.params = p }

// ChromosomeLength is the number of required session instances.
func (g *GeneticScheduler) ChromosomeLength() int { return len(g.template) }

// NewIndividual clones the template and gives every gene a type-matched
// room baseline with random time and day.
func (g *GeneticScheduler) NewIndividual() models.Chromosome {
	individual := g.template.Clone()
	for i := range individual {
		g.placeRandom(&individual[i], true)
	}
	return individual
}

// InitPopulation seeds size fresh individuals.
func (g *GeneticScheduler) InitPopulation(size int) []models.Chromosome {
	population := make([]models.Chromosome, size)
	for i := range population {
		population[i] = g.NewIndividual()
	}
	return population
}

func (g *GeneticScheduler) placeRandom(item *models.ScheduledItem, typeMatched bool) {
	pool := g.allRooms
	if typeMatched {
		if typed := g.roomsByType[item.SessionType]; len(typed) > 0 {
			pool = typed
		}
	}
	if len(pool) > 0 {
		item.ClassroomID = pool[g.rng.Intn(len(pool))].ID
	}
	if len(g.slotCodes) > 0 {
		item.TimeslotCode = g.slotCodes[g.rng.Intn(len(g.slotCodes))]
	}
	item.Day = models.Weekdays[g.rng.Intn(len(models.Weekdays))]
}

// Evolve produces the next generation: elites are carried verbatim, the
// rest come from tournament-selected parents via crossover and mutation.
// Chromosome length is invariant.
func (g *GeneticScheduler) Evolve(population []models.Chromosome, fitnesses []float64) []models.Chromosome {
	size := g.params.PopulationSize
	if size <= 0 {
		size = len(population)
	}

	next := make([]models.Chromosome, 0, size)
	for _, idx := range g.eliteIndices(fitnesses) {
		if len(next) >= size {
			break
		}
		next = append(next, population[idx].Clone())
	}

	for len(next) < size {
		p1 := g.tournament(population, fitnesses)
		p2 := g.tournament(population, fitnesses)

		c1, c2 := g.crossover(p1, p2)
		g.mutate(c1)
		g.mutate(c2)

		next = append(next, c1)
		if len(next) < size {
			next = append(next, c2)
		}
	}

	return next
}

// eliteIndices returns the ElitismCount best indices by ascending
// fitness.
func (g *GeneticScheduler) eliteIndices(fitnesses []float64) []int {
	count := g.params.ElitismCount
	if count <= 0 || count > len(fitnesses) {
		count = min(1, len(fitnesses))
	}
	indices := make([]int, len(fitnesses))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return fitnesses[indices[a]] < fitnesses[indices[b]]
	})
	return indices[:count]
}

// tournament draws TournamentSize distinct candidates and returns the
// fittest.
func (g *GeneticScheduler) tournament(population []models.Chromosome, fitnesses []float64) models.Chromosome {
	size := g.params.TournamentSize
	if size < 2 {
		size = 2
	}
	if size > len(population) {
		size = len(population)
	}

	drawn := g.rng.Perm(len(population))[:size]
	best := drawn[0]
	for _, idx := range drawn[1:] {
		if fitnesses[idx] < fitnesses[best] {
			best = idx
		}
	}
	return population[best]
}

// crossover mixes two parents uniformly: each gene of child one comes
// from either parent with equal probability, child two gets the mirror.
func (g *GeneticScheduler) crossover(p1, p2 models.Chromosome) (models.Chromosome, models.Chromosome) {
	c1 := p1.Clone()
	c2 := p2.Clone()
	if g.params.CrossoverRate > 0 && g.rng.Float64() > g.params.CrossoverRate {
		return c1, c2
	}

	for i := range c1 {
		if g.rng.Float64() < 0.5 {
			c1[i], c2[i] = c2[i], c1[i]
		}
	}
	return c1, c2
}

type mutationKind int

const (
	mutateRoom mutationKind = iota
	mutateTime
	mutateDay
	mutateAll
)

// mutate rewrites placement fields in place. Heuristic submode exploits
// capacity-compatible rooms; random submode explores the full pools.
func (g *GeneticScheduler) mutate(chromosome models.Chromosome) {
	if g.rng.Float64() >= g.params.ChromosomeMutationRate {
		return
	}
	for i := range chromosome {
		if g.rng.Float64() >= g.params.GeneMutationRate {
			continue
		}
		kind := mutationKind(g.rng.Intn(4))
		heuristic := g.rng.Float64() < g.params.HeuristicProbability

		switch kind {
		case mutateRoom:
			g.mutateRoom(&chromosome[i], heuristic)
		case mutateTime:
			g.mutateTime(&chromosome[i])
		case mutateDay:
			g.mutateDay(&chromosome[i])
		case mutateAll:
			g.mutateRoom(&chromosome[i], heuristic)
			g.mutateTime(&chromosome[i])
			g.mutateDay(&chromosome[i])
		}
	}
}

func (g *GeneticScheduler) mutateRoom(item *models.ScheduledItem, heuristic bool) {
	pool := g.allRooms
	if heuristic {
		required := g.problem.GroupSizeSum(item.StudentGroupIDs)
		fitting := make([]models.Classroom, 0, len(g.allRooms))
		for _, room := range g.allRooms {
			if room.Capacity >= required {
				fitting = append(fitting, room)
			}
		}
		if len(fitting) > 0 {
			pool = fitting
		}
	}
	if len(pool) > 0 {
		item.ClassroomID = pool[g.rng.Intn(len(pool))].ID
	}
}

func (g *GeneticScheduler) mutateTime(item *models.ScheduledItem) {
	if len(g.slotCodes) > 0 {
		item.TimeslotCode = g.slotCodes[g.rng.Intn(len(g.slotCodes))]
	}
}

func (g *GeneticScheduler) mutateDay(item *models.ScheduledItem) {
	item.Day = models.Weekdays[g.rng.Intn(len(models.Weekdays))]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
