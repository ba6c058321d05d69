package grid

import "sync"

//MinRowsPerWorker is the smallest band of rows FillParallel hands to one goroutine
const MinRowsPerWorker = 4

//ParallelChunks calls fn for every chunk of g, spreading the chunks over at most workers goroutines.
//fn may write inside the chunk it is given but must not add or remove chunks.
func ParallelChunks[T any](g *Grid[T], workers int, fn func(ChunkPos, *Chunk[T])) {
	slots := make([]chunkSlot[*Chunk[T]], 0, g.chunks.len())
	for pos, c := range g.chunks.all() {
		slots = append(slots, chunkSlot[*Chunk[T]]{pos: pos, chunk: c})
	}
	if workers < 1 {
		workers = 1
	}
	perWorker := (len(slots) + workers - 1) / workers
	var waitGroup sync.WaitGroup
	for start := 0; start < len(slots); start += perWorker {
		batch := slots[start:min(start+perWorker, len(slots))]
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for _, s := range batch {
				fn(s.pos, s.chunk)
			}
		}()
	}
	waitGroup.Wait()
}

//FillParallel is Fill with the rows split into bands computed by separate goroutines.
//f must be safe to call concurrently.
func (c *Chunk[T]) FillParallel(workers int, f func(LocalPos) T) {
	rowsPerWorker := c.size
	if workers > 1 {
		rowsPerWorker = max((c.size+workers-1)/workers, MinRowsPerWorker)
	}
	if rowsPerWorker >= c.size {
		c.Fill(f)
		return
	}
	var waitGroup sync.WaitGroup
	for y1 := 0; y1 < c.size; y1 += rowsPerWorker {
		y2 := min(y1+rowsPerWorker, c.size)
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for i := y1 * c.size; i < y2*c.size; i++ {
				c.cells[i] = f(c.local(i))
			}
		}()
	}
	waitGroup.Wait()
}
