package automata

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"exlife/src/grid"
)

//StepStats describes the last generation computed by an Automata
type StepStats struct {
	Generation   int
	Chunks       int
	Materialized int
	Duration     time.Duration
}

type config struct {
	workers int
	log     *logrus.Entry
}

//Option configures an Automata
type Option func(*config)

//WithWorkers simulates the cells of each new chunk on up to n goroutines.
//Chunks are still created one at a time, only Simulate calls run concurrently,
//so Simulate and EmptyCell must be safe for concurrent use when n > 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

//WithLogger replaces the default logger
func WithLogger(log *logrus.Entry) Option {
	return func(c *config) { c.log = log }
}

//Automata advances a chunked grid one generation at a time according to its rules
type Automata[T any] struct {
	rules      Rules[T]
	state      *grid.Grid[T]
	workers    int
	log        *logrus.Entry
	generation int
	last       StepStats
}

//New creates an automaton over the given initial state
func New[T any](rules Rules[T], state *grid.Grid[T], opts ...Option) *Automata[T] {
	if state == nil {
		panic("automata: nil state")
	}
	cfg := config{workers: 1, log: logrus.WithField("component", "automata")}
	for _, o := range opts {
		o(&cfg)
	}
	return &Automata[T]{rules: rules, state: state, workers: cfg.workers, log: cfg.log}
}

//Rules returns the rule object
func (a *Automata[T]) Rules() Rules[T] { return a.rules }

//State returns the current generation
func (a *Automata[T]) State() *grid.Grid[T] { return a.state }

//SetState replaces the current generation
func (a *Automata[T]) SetState(state *grid.Grid[T]) {
	if state == nil {
		panic("automata: nil state")
	}
	a.state = state
}

//Generation returns the number of steps taken so far
func (a *Automata[T]) Generation() int { return a.generation }

//LastStep returns the statistics of the most recent step
func (a *Automata[T]) LastStep() StepStats { return a.last }

//Step advances the automaton by one generation into a newly allocated grid with the same chunk size and hasher
func (a *Automata[T]) Step() {
	a.step(grid.New[T](a.state.ChunkSize(), grid.WithHasher(a.state.Hasher())))
}

//StepScratch advances the automaton by one generation using scratch as the buffer for the
//next generation. scratch is cleared first and must not be the current state.
//The previous generation is returned so it can serve as the next scratch.
func (a *Automata[T]) StepScratch(scratch *grid.Grid[T]) *grid.Grid[T] {
	if scratch == a.state {
		panic("automata: scratch grid aliases the live grid")
	}
	if scratch.ChunkSize() != a.state.ChunkSize() {
		panic(fmt.Sprintf("automata: scratch chunk size %d, state chunk size %d", scratch.ChunkSize(), a.state.ChunkSize()))
	}
	scratch.Clear()
	return a.step(scratch)
}

//step fills next from the current generation then swaps it in
func (a *Automata[T]) step(next *grid.Grid[T]) *grid.Grid[T] {
	start := time.Now()
	prev := a.state
	size := prev.ChunkSize()
	materialized := 0
	for pos, chunk := range prev.Chunks() {
		var expansion Expansion = Expansion8{}
		if e := a.rules.Expansion(chunk); e != nil {
			expansion = e
		}
		expansion.ApplyWithCenter(pos, func(target grid.ChunkPos) {
			entry := next.ChunkEntry(target)
			if !entry.Vacant() {
				return
			}
			entry.Insert(a.simulateChunk(prev, target, size))
			materialized++
		})
	}

	a.state = next
	a.generation++
	a.last = StepStats{
		Generation:   a.generation,
		Chunks:       next.Len(),
		Materialized: materialized,
		Duration:     time.Since(start),
	}
	if sc, ok := a.rules.(StepCompleter[T]); ok {
		sc.StepCompleted(a.state)
	}
	a.log.WithFields(logrus.Fields{
		"generation":   a.last.Generation,
		"chunks":       a.last.Chunks,
		"materialized": a.last.Materialized,
		"duration":     a.last.Duration,
	}).Debug("step completed")
	return prev
}

func (a *Automata[T]) simulateChunk(prev *grid.Grid[T], pos grid.ChunkPos, size int) *grid.Chunk[T] {
	c := grid.NewChunk[T](size)
	simulate := func(local grid.LocalPos) T {
		return a.rules.Simulate(grid.Compose(size, pos, local), prev)
	}
	if a.workers > 1 {
		c.FillParallel(a.workers, simulate)
	} else {
		c.Fill(simulate)
	}
	return c
}

//CleanUp removes every chunk whose cells are all empty according to the rules and
//returns how many were removed. It is never called by Step.
func (a *Automata[T]) CleanUp() int {
	if _, ok := a.rules.(EmptyCeller[T]); !ok {
		return 0
	}
	empty := emptyCell(a.rules)
	var mu sync.Mutex
	var exhausted []grid.ChunkPos
	grid.ParallelChunks(a.state, a.workers, func(pos grid.ChunkPos, c *grid.Chunk[T]) {
		for v := range c.All() {
			if !empty(v) {
				return
			}
		}
		mu.Lock()
		exhausted = append(exhausted, pos)
		mu.Unlock()
	})
	for _, pos := range exhausted {
		a.state.RemoveChunk(pos)
	}
	if len(exhausted) > 0 {
		a.log.WithField("removed", len(exhausted)).Debug("exhausted chunks removed")
	}
	return len(exhausted)
}
