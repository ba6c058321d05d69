package grid

import (
	"fmt"
	"iter"
)

//Grid is an unbounded dense grid backed by a table of fixed size chunks keyed by chunk position.
//Cells of chunks that were never written read as the zero value of T.
//A Grid is owned by one goroutine at a time.
type Grid[T any] struct {
	size   int
	chunks chunkTable[*Chunk[T]]
}

//New creates an empty grid whose chunks are size x size
func New[T any](size int, opts ...Option) *Grid[T] {
	assertSize(size)
	return &Grid[T]{size: size, chunks: newChunkTable[*Chunk[T]](newConfig(opts).hash)}
}

//Hasher returns the hasher of the chunk table, nil for the built-in map
func (g *Grid[T]) Hasher() Hasher { return g.chunks.hash }

//ChunkSize returns the extent of every chunk in the grid
func (g *Grid[T]) ChunkSize() int { return g.size }

//Len returns the number of allocated chunks
func (g *Grid[T]) Len() int { return g.chunks.len() }

//Clear drops every chunk
func (g *Grid[T]) Clear() { g.chunks.clear() }

//Retain keeps only the chunks for which f returns true
func (g *Grid[T]) Retain(f func(ChunkPos, *Chunk[T]) bool) {
	g.chunks.deleteFunc(func(pos ChunkPos, c *Chunk[T]) bool { return !f(pos, c) })
}

//Get returns the cell at pos. When its chunk does not exist the zero value and false are returned
//and nothing is allocated.
func (g *Grid[T]) Get(pos GlobalPos) (T, bool) {
	chunk, local := Decompose(g.size, pos)
	c, ok := g.chunks.get(chunk)
	if !ok {
		var zero T
		return zero, false
	}
	return c.Get(local), true
}

//Ptr returns a pointer to the cell or nil if its chunk does not exist
func (g *Grid[T]) Ptr(pos GlobalPos) *T {
	chunk, local := Decompose(g.size, pos)
	c, ok := g.chunks.get(chunk)
	if !ok {
		return nil
	}
	return c.Ptr(local)
}

//PtrDefault returns a pointer to the cell, allocating its chunk if necessary
func (g *Grid[T]) PtrDefault(pos GlobalPos) *T {
	chunk, local := Decompose(g.size, pos)
	return g.ChunkDefault(chunk).Ptr(local)
}

//Insert sets the cell, allocating its chunk if necessary, and returns the previous value
func (g *Grid[T]) Insert(pos GlobalPos, v T) T {
	chunk, local := Decompose(g.size, pos)
	return g.ChunkDefault(chunk).Set(local, v)
}

//Entry returns a handle on the cell at pos that allocates only when a value is committed
func (g *Grid[T]) Entry(pos GlobalPos) Entry[T] {
	chunk, local := Decompose(g.size, pos)
	return Entry[T]{grid: g, chunk: chunk, local: local}
}

//Chunk returns the chunk at the chunk position if it exists
func (g *Grid[T]) Chunk(pos ChunkPos) (*Chunk[T], bool) {
	c, ok := g.chunks.get(pos)
	return c, ok
}

//ChunkDefault returns the chunk at pos, allocating a zeroed one if it does not exist
func (g *Grid[T]) ChunkDefault(pos ChunkPos) *Chunk[T] {
	return g.ChunkEntry(pos).OrDefault()
}

//ChunkEntry returns a handle on the chunk slot at pos
func (g *Grid[T]) ChunkEntry(pos ChunkPos) ChunkEntry[T] {
	return ChunkEntry[T]{grid: g, pos: pos}
}

//RemoveChunk deletes the chunk at pos and returns it
func (g *Grid[T]) RemoveChunk(pos ChunkPos) (*Chunk[T], bool) {
	return g.chunks.remove(pos)
}

//ChunksBounds returns the smallest box of chunk positions containing every chunk
func (g *Grid[T]) ChunksBounds() (min, max ChunkPos, ok bool) {
	return chunksBounds(g.chunks.all())
}

//Bounds returns the smallest box of cells containing every allocated chunk
func (g *Grid[T]) Bounds() (min, max GlobalPos, ok bool) {
	cmin, cmax, ok := g.ChunksBounds()
	if !ok {
		return
	}
	min, max = cellBounds(g.size, cmin, cmax)
	return
}

//TrySample interpolates between the four cells around (x, y), reading across chunk borders.
//It fails if any of those cells lies in a missing chunk.
func (g *Grid[T]) TrySample(x, y float64, lerp LerpFunc[T]) (T, bool) {
	return sampleWith(x, y, lerp, func(pos GlobalPos) (T, bool) { return g.Get(pos) })
}

//SampleOrDefault interpolates treating missing chunks as zero valued cells
func (g *Grid[T]) SampleOrDefault(x, y float64, lerp LerpFunc[T]) T {
	v, _ := sampleWith(x, y, lerp, func(pos GlobalPos) (T, bool) {
		v, _ := g.Get(pos)
		return v, true
	})
	return v
}

//SampleInsertDefault interpolates allocating any missing chunk it touches
func (g *Grid[T]) SampleInsertDefault(x, y float64, lerp LerpFunc[T]) T {
	v, _ := sampleWith(x, y, lerp, func(pos GlobalPos) (T, bool) {
		return *g.PtrDefault(pos), true
	})
	return v
}

//All yields every cell value of every allocated chunk
func (g *Grid[T]) All() iter.Seq[T] {
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

//Cells yields every cell of every allocated chunk with its global position.
//Chunk order follows the chunk table and is only stable with a Hasher.
func (g *Grid[T]) Cells() iter.Seq2[GlobalPos, T] {
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
func (g *Grid[T]) Chunks() iter.Seq2[ChunkPos, *Chunk[T]] {
	return func(yield func(ChunkPos, *Chunk[T]) bool) {
		for pos, c := range g.chunks.all() {
			if !yield(pos, c) {
				return
			}
		}
	}
}

//Clone returns a deep copy of the grid
func (g *Grid[T]) Clone() *Grid[T] {
	n := New[T](g.size, WithHasher(g.chunks.hash))
	for pos, c := range g.chunks.all() {
		n.chunks.set(pos, c.Clone())
	}
	return n
}

func (g *Grid[T]) assertChunk(c *Chunk[T]) {
	if c.size != g.size {
		panic(fmt.Sprintf("grid: chunk of size %d does not fit a grid of chunk size %d", c.size, g.size))
	}
}

//sampleWith gathers the four corners of (x, y) through get and blends them
func sampleWith[T any](x, y float64, lerp LerpFunc[T], get func(GlobalPos) (T, bool)) (T, bool) {
	sp := newSamplePoint(x, y)
	var corners [4]T
	for i, p := range [4]GlobalPos{{sp.x0, sp.y0}, {sp.x1, sp.y0}, {sp.x0, sp.y1}, {sp.x1, sp.y1}} {
		v, ok := get(p)
		if !ok {
			var zero T
			return zero, false
		}
		corners[i] = v
	}
	return bilinear(sp, corners[0], corners[1], corners[2], corners[3], lerp), true
}
