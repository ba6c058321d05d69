package grid

import (
	"fmt"
	"iter"
)

//SparseGrid is an unbounded grid whose cells may be vacant even inside allocated chunks
type SparseGrid[T any] struct {
	size   int
	chunks chunkTable[*ChunkSparse[T]]
}

//NewSparse creates an empty sparse grid whose chunks are size x size
func NewSparse[T any](size int, opts ...Option) *SparseGrid[T] {
	assertSize(size)
	return &SparseGrid[T]{size: size, chunks: newChunkTable[*ChunkSparse[T]](newConfig(opts).hash)}
}

//Hasher returns the hasher of the chunk table, nil for the built-in map
func (g *SparseGrid[T]) Hasher() Hasher { return g.chunks.hash }

//ChunkSize returns the extent of every chunk in the grid
func (g *SparseGrid[T]) ChunkSize() int { return g.size }

//Len returns the number of allocated chunks
func (g *SparseGrid[T]) Len() int { return g.chunks.len() }

//Clear drops every chunk
func (g *SparseGrid[T]) Clear() { g.chunks.clear() }

//CleanUp drops the chunks in which every cell is vacant
func (g *SparseGrid[T]) CleanUp() {
	g.Retain(func(_ ChunkPos, c *ChunkSparse[T]) bool { return !c.IsAllVacant() })
}

//Retain keeps only the chunks for which f returns true
func (g *SparseGrid[T]) Retain(f func(ChunkPos, *ChunkSparse[T]) bool) {
	g.chunks.deleteFunc(func(pos ChunkPos, c *ChunkSparse[T]) bool { return !f(pos, c) })
}

//IsAllVacant reports whether the grid holds no value at all
func (g *SparseGrid[T]) IsAllVacant() bool {
	for _, c := range g.chunks.all() {
		if !c.IsAllVacant() {
			return false
		}
	}
	return true
}

//IsAllOccupied reports whether there is at least one chunk and every cell of every chunk holds a value
func (g *SparseGrid[T]) IsAllOccupied() bool {
	if g.chunks.len() == 0 {
		return false
	}
	for _, c := range g.chunks.all() {
		if !c.IsAllOccupied() {
			return false
		}
	}
	return true
}

//Get returns the cell value, false if its chunk is missing or the cell is vacant
func (g *SparseGrid[T]) Get(pos GlobalPos) (T, bool) {
	chunk, local := Decompose(g.size, pos)
	c, ok := g.chunks.get(chunk)
	if !ok {
		var zero T
		return zero, false
	}
	return c.Get(local)
}

//Ptr returns a pointer to an occupied cell or nil
func (g *SparseGrid[T]) Ptr(pos GlobalPos) *T {
	chunk, local := Decompose(g.size, pos)
	c, ok := g.chunks.get(chunk)
	if !ok {
		return nil
	}
	return c.Ptr(local)
}

//Insert stores v, allocating the chunk if necessary, and returns the previous value if any
func (g *SparseGrid[T]) Insert(pos GlobalPos, v T) (T, bool) {
	chunk, local := Decompose(g.size, pos)
	return g.ChunkDefault(chunk).Set(local, v)
}

//Remove vacates the cell and returns what it held. The chunk is kept, see CleanUp.
func (g *SparseGrid[T]) Remove(pos GlobalPos) (T, bool) {
	chunk, local := Decompose(g.size, pos)
	c, ok := g.chunks.get(chunk)
	if !ok {
		var zero T
		return zero, false
	}
	return c.Vacate(local)
}

//Entry returns a handle on the cell at pos
func (g *SparseGrid[T]) Entry(pos GlobalPos) SparseEntry[T] {
	chunk, local := Decompose(g.size, pos)
	return SparseEntry[T]{grid: g, chunk: chunk, local: local}
}

//Chunk returns the chunk at the chunk position if it exists
func (g *SparseGrid[T]) Chunk(pos ChunkPos) (*ChunkSparse[T], bool) {
	c, ok := g.chunks.get(pos)
	return c, ok
}

//ChunkDefault returns the chunk at pos, allocating an all vacant one if it does not exist
func (g *SparseGrid[T]) ChunkDefault(pos ChunkPos) *ChunkSparse[T] {
	c, ok := g.chunks.get(pos)
	if !ok {
		c = NewChunkSparse[T](g.size)
		g.chunks.set(pos, c)
	}
	return c
}

//InsertChunk stores c at pos and returns the chunk it replaced
func (g *SparseGrid[T]) InsertChunk(pos ChunkPos, c *ChunkSparse[T]) (*ChunkSparse[T], bool) {
	if c.Size() != g.size {
		panic(fmt.Sprintf("grid: chunk of size %d does not fit a grid of chunk size %d", c.Size(), g.size))
	}
	return g.chunks.set(pos, c)
}

//RemoveChunk deletes the chunk at pos and returns it
func (g *SparseGrid[T]) RemoveChunk(pos ChunkPos) (*ChunkSparse[T], bool) {
	return g.chunks.remove(pos)
}

//ChunksBounds returns the smallest box of chunk positions containing every chunk
func (g *SparseGrid[T]) ChunksBounds() (min, max ChunkPos, ok bool) {
	return chunksBounds(g.chunks.all())
}

//NaiveBounds returns a box of cells containing every allocated chunk.
//It may overestimate since vacant border cells are not inspected.
func (g *SparseGrid[T]) NaiveBounds() (min, max GlobalPos, ok bool) {
	cmin, cmax, ok := g.ChunksBounds()
	if !ok {
		return
	}
	min, max = cellBounds(g.size, cmin, cmax)
	return
}

//TrySample interpolates between the four cells around (x, y), failing if any of them is vacant
func (g *SparseGrid[T]) TrySample(x, y float64, lerp LerpFunc[T]) (T, bool) {
	return sampleWith(x, y, lerp, g.Get)
}

//All yields every occupied cell value
func (g *SparseGrid[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, c := range g.chunks.all() {
			for v := range c.All() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

//Cells yields every occupied cell with its global position
func (g *SparseGrid[T]) Cells() iter.Seq2[GlobalPos, T] {
	return func(yield func(GlobalPos, T) bool) {
		for pos, c := range g.chunks.all() {
			for local, v := range c.Cells() {
				if !yield(Compose(g.size, pos, local), v) {
					return
				}
			}
		}
	}
}

//Chunks yields every chunk with its position
func (g *SparseGrid[T]) Chunks() iter.Seq2[ChunkPos, *ChunkSparse[T]] {
	return func(yield func(ChunkPos, *ChunkSparse[T]) bool) {
		for pos, c := range g.chunks.all() {
			if !yield(pos, c) {
				return
			}
		}
	}
}

//Clone returns a deep copy of the grid
func (g *SparseGrid[T]) Clone() *SparseGrid[T] {
	n := NewSparse[T](g.size, WithHasher(g.chunks.hash))
	for pos, c := range g.chunks.all() {
		n.chunks.set(pos, c.Clone())
	}
	return n
}
