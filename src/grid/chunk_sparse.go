package grid

import (
	"iter"
)

//ChunkSparse is a size x size tile whose cells may be vacant
type ChunkSparse[T any] struct {
	values   *Chunk[T]
	occupied *Chunk[bool]
}

//NewChunkSparse allocates a chunk with every cell vacant
func NewChunkSparse[T any](size int) *ChunkSparse[T] {
	return &ChunkSparse[T]{values: NewChunk[T](size), occupied: NewChunk[bool](size)}
}

//InitChunkSparse fills the chunk from f; a false second result leaves the cell vacant
func InitChunkSparse[T any](size int, f func(LocalPos) (T, bool)) *ChunkSparse[T] {
	c := NewChunkSparse[T](size)
	for i := range c.values.cells {
		if v, ok := f(c.values.local(i)); ok {
			c.values.cells[i] = v
			c.occupied.cells[i] = true
		}
	}
	return c
}

//Size returns the extent of the chunk on each axis
func (c *ChunkSparse[T]) Size() int { return c.values.size }

//Get returns the cell value and whether the cell is occupied
func (c *ChunkSparse[T]) Get(pos LocalPos) (T, bool) {
	i := c.values.index(pos)
	if !c.occupied.cells[i] {
		var zero T
		return zero, false
	}
	return c.values.cells[i], true
}

//Occupied reports whether the cell holds a value
func (c *ChunkSparse[T]) Occupied(pos LocalPos) bool {
	return c.occupied.cells[c.values.index(pos)]
}

//Ptr returns a pointer to an occupied cell or nil for a vacant one
func (c *ChunkSparse[T]) Ptr(pos LocalPos) *T {
	i := c.values.index(pos)
	if !c.occupied.cells[i] {
		return nil
	}
	return &c.values.cells[i]
}

//Set stores v and returns the previous value if there was one
func (c *ChunkSparse[T]) Set(pos LocalPos, v T) (T, bool) {
	i := c.values.index(pos)
	prev, had := c.values.cells[i], c.occupied.cells[i]
	c.values.cells[i] = v
	c.occupied.cells[i] = true
	if !had {
		var zero T
		prev = zero
	}
	return prev, had
}

//Vacate empties the cell and returns what it held
func (c *ChunkSparse[T]) Vacate(pos LocalPos) (T, bool) {
	i := c.values.index(pos)
	prev, had := c.values.cells[i], c.occupied.cells[i]
	var zero T
	c.values.cells[i] = zero
	c.occupied.cells[i] = false
	if !had {
		return zero, false
	}
	return prev, true
}

//IsAllVacant reports whether no cell holds a value
func (c *ChunkSparse[T]) IsAllVacant() bool {
	for _, ok := range c.occupied.cells {
		if ok {
			return false
		}
	}
	return true
}

//IsAllOccupied reports whether every cell holds a value
func (c *ChunkSparse[T]) IsAllOccupied() bool {
	for _, ok := range c.occupied.cells {
		if !ok {
			return false
		}
	}
	return true
}

//Row returns the values and presence flags of the horizontal slice at y
func (c *ChunkSparse[T]) Row(y int) ([]T, []bool) {
	return c.values.Row(y), c.occupied.Row(y)
}

//Column returns the values and presence flags of the vertical slice at x
func (c *ChunkSparse[T]) Column(x int) ([]T, []bool) {
	return c.values.Column(x), c.occupied.Column(x)
}

//Clone returns a copy of the chunk
func (c *ChunkSparse[T]) Clone() *ChunkSparse[T] {
	return &ChunkSparse[T]{values: c.values.Clone(), occupied: c.occupied.Clone()}
}

//All yields the occupied values in row-major order
func (c *ChunkSparse[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i, v := range c.values.cells {
			if c.occupied.cells[i] && !yield(v) {
				return
			}
		}
	}
}

//Cells yields the occupied cells with their local positions in row-major order
func (c *ChunkSparse[T]) Cells() iter.Seq2[LocalPos, T] {
	return func(yield func(LocalPos, T) bool) {
		for i, v := range c.values.cells {
			if c.occupied.cells[i] && !yield(c.values.local(i), v) {
				return
			}
		}
	}
}

//TrySample interpolates like Chunk.Sample but fails when any surrounding cell is vacant
func (c *ChunkSparse[T]) TrySample(x, y float64, lerp LerpFunc[T]) (T, bool) {
	size := c.values.size
	assertSampleBounds(size, x, y)
	sp := newSamplePoint(x, y).clamp(size)
	var corners [4]T
	for i, p := range [4][2]int64{{sp.x0, sp.y0}, {sp.x1, sp.y0}, {sp.x0, sp.y1}, {sp.x1, sp.y1}} {
		v, ok := c.Get(LocalPos{int(p[0]), int(p[1])})
		if !ok {
			var zero T
			return zero, false
		}
		corners[i] = v
	}
	return bilinear(sp, corners[0], corners[1], corners[2], corners[3], lerp), true
}
