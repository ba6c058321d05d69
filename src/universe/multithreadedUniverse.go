package universe

import (
	"sync"

	"exlife/src/grid"
	"exlife/src/rules"
)

/*
	Universe implementation with multithreaded computation algorithm
	the rows of every new chunk are splitted into bands each of which is computed by individual goroutine
*/

const (
	DefWorkers = 10 //default workers
)

type MultithreadedUniverse struct {
	*BaseUniverse
	workers int
	tmpBuff *grid.Grid[uint8]
}

func NewMultithreadedUniverse(o *Options, stateCh chan Status) Universe {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.Workers <= 1 {
		opts.Workers = DefWorkers
	}
	mu := MultithreadedUniverse{BaseUniverse: newBaseUniverse(&opts, stateCh)}
	//redefine the nextIteration
	mu.BaseUniverse.nextIteration = mu.nextIteration

	mu.workers = mu.options.Workers
	rowsPerWorker := max((mu.options.ChunkSize+mu.workers-1)/mu.workers, grid.MinRowsPerWorker)
	mu.tmpBuff = grid.New[uint8](mu.options.ChunkSize)
	mu.options.Advanced["engine"] = "multithreaded"
	mu.options.Advanced["Workers"] = mu.workers
	mu.options.Advanced["Rows per worker"] = rowsPerWorker
	go mu.mainLoop()
	return &mu
}

//nextIteration calcualtes next state for the universe
//the automata runs the workers for every new chunk, then the workers count the new generation chunk by chunk
func (mu *MultithreadedUniverse) nextIteration() (hasLiveEntities bool, changed bool) {
	mu.world.Lock()
	defer mu.world.Unlock()
	prev := mu.stepInto(&mu.tmpBuff)
	next := mu.world.automata.State()
	liveCells, changed := countParallel(prev, next, mu.workers)
	return mu.updateStats(next, liveCells, changed)
}

//countParallel counts the live cells of next and reports whether any cell differs from prev
func countParallel(prev, next *grid.Grid[uint8], workers int) (liveCells int, changed bool) {
	var m sync.Mutex
	grid.ParallelChunks(next, workers, func(pos grid.ChunkPos, c *grid.Chunk[uint8]) {
		old, hasOld := prev.Chunk(pos)
		live, diff := 0, false
		for local, v := range c.Cells() {
			if Cell(v).Live() {
				live++
			}
			if !diff {
				if hasOld {
					diff = old.Get(local) != v
				} else {
					diff = v != rules.Dead
				}
			}
		}
		m.Lock()
		liveCells += live
		changed = changed || diff
		m.Unlock()
	})
	return
}
