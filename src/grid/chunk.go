package grid

import (
	"fmt"
	"iter"
)

//Chunk is a dense size x size tile of cells stored row-major in a single buffer
type Chunk[T any] struct {
	size  int
	cells []T
}

//NewChunk allocates a chunk with every cell set to the zero value of T
func NewChunk[T any](size int) *Chunk[T] {
	assertSize(size)
	return &Chunk[T]{size: size, cells: make([]T, size*size)}
}

//InitChunk allocates a chunk filling every cell from f, row by row
func InitChunk[T any](size int, f func(LocalPos) T) *Chunk[T] {
	c := NewChunk[T](size)
	c.Fill(f)
	return c
}

//Size returns the extent of the chunk on each axis
func (c *Chunk[T]) Size() int { return c.size }

//Len returns the number of cells, size*size
func (c *Chunk[T]) Len() int { return len(c.cells) }

//Get returns the cell at the local position
func (c *Chunk[T]) Get(pos LocalPos) T {
	return c.cells[c.index(pos)]
}

//Set replaces the cell at the local position and returns the previous value
func (c *Chunk[T]) Set(pos LocalPos, v T) T {
	i := c.index(pos)
	prev := c.cells[i]
	c.cells[i] = v
	return prev
}

//Ptr returns a pointer to the cell, valid while the chunk is alive
func (c *Chunk[T]) Ptr(pos LocalPos) *T {
	return &c.cells[c.index(pos)]
}

//Fill overwrites every cell with the value produced by f for its position
func (c *Chunk[T]) Fill(f func(LocalPos) T) {
	for i := range c.cells {
		c.cells[i] = f(c.local(i))
	}
}

//Row returns a copy of the horizontal slice at y
func (c *Chunk[T]) Row(y int) []T {
	c.assertAxis("y", y)
	row := make([]T, c.size)
	copy(row, c.cells[y*c.size:(y+1)*c.size])
	return row
}

//Column returns a copy of the vertical slice at x
func (c *Chunk[T]) Column(x int) []T {
	c.assertAxis("x", x)
	col := make([]T, c.size)
	for y := range col {
		col[y] = c.cells[y*c.size+x]
	}
	return col
}

//Values exposes the backing row-major buffer
func (c *Chunk[T]) Values() []T { return c.cells }

//Clone returns a copy of the chunk
func (c *Chunk[T]) Clone() *Chunk[T] {
	cells := make([]T, len(c.cells))
	copy(cells, c.cells)
	return &Chunk[T]{size: c.size, cells: cells}
}

//All yields every cell value in row-major order
func (c *Chunk[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range c.cells {
			if !yield(v) {
				return
			}
		}
	}
}

//Cells yields every local position with its value in row-major order
func (c *Chunk[T]) Cells() iter.Seq2[LocalPos, T] {
	return func(yield func(LocalPos, T) bool) {
		for i, v := range c.cells {
			if !yield(c.local(i), v) {
				return
			}
		}
	}
}

//Sample bilinearly interpolates between the cells surrounding the fractional position (x, y).
//Both coordinates must lie in [0, size).
func (c *Chunk[T]) Sample(x, y float64, lerp LerpFunc[T]) T {
	assertSampleBounds(c.size, x, y)
	sp := newSamplePoint(x, y).clamp(c.size)
	at := func(x, y int64) T { return c.cells[int(y)*c.size+int(x)] }
	return bilinear(sp, at(sp.x0, sp.y0), at(sp.x1, sp.y0), at(sp.x0, sp.y1), at(sp.x1, sp.y1), lerp)
}

//index is the only place a local position is turned into a buffer offset
func (c *Chunk[T]) index(pos LocalPos) int {
	if pos[0] < 0 || pos[1] < 0 || pos[0] >= c.size || pos[1] >= c.size {
		panic(fmt.Sprintf("grid: index out of bounds: the size is %d but the position is %v", c.size, pos))
	}
	return pos[1]*c.size + pos[0]
}

func (c *Chunk[T]) local(i int) LocalPos {
	return LocalPos{i % c.size, i / c.size}
}

func (c *Chunk[T]) assertAxis(axis string, v int) {
	if v < 0 || v >= c.size {
		panic(fmt.Sprintf("grid: index out of bounds: the size is %d but the %s-index is %d", c.size, axis, v))
	}
}
