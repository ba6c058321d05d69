package grid

//Entry is a handle on one cell of a Grid. Reading through it never allocates,
//the owning chunk is created only when a value is committed.
type Entry[T any] struct {
	grid  *Grid[T]
	chunk ChunkPos
	local LocalPos
}

//Pos returns the global position of the cell
func (e Entry[T]) Pos() GlobalPos {
	return Compose(e.grid.size, e.chunk, e.local)
}

//Get reads the cell, false if its chunk does not exist yet
func (e Entry[T]) Get() (T, bool) {
	c, ok := e.grid.chunks.get(e.chunk)
	if !ok {
		var zero T
		return zero, false
	}
	return c.Get(e.local), true
}

//Set commits v and returns the previous value
func (e Entry[T]) Set(v T) T {
	return e.grid.ChunkDefault(e.chunk).Set(e.local, v)
}

//Update commits f applied to the current value and returns the new value
func (e Entry[T]) Update(f func(T) T) T {
	p := e.grid.ChunkDefault(e.chunk).Ptr(e.local)
	*p = f(*p)
	return *p
}

//ChunkEntry is a handle on one chunk slot of a Grid
type ChunkEntry[T any] struct {
	grid *Grid[T]
	pos  ChunkPos
}

//Pos returns the chunk position of the slot
func (e ChunkEntry[T]) Pos() ChunkPos { return e.pos }

//Vacant reports whether no chunk is stored at the slot
func (e ChunkEntry[T]) Vacant() bool {
	return !e.grid.chunks.has(e.pos)
}

//Get returns the stored chunk
func (e ChunkEntry[T]) Get() (*Chunk[T], bool) {
	return e.grid.chunks.get(e.pos)
}

//Insert stores c at the slot replacing any previous chunk
func (e ChunkEntry[T]) Insert(c *Chunk[T]) *Chunk[T] {
	e.grid.assertChunk(c)
	e.grid.chunks.set(e.pos, c)
	return c
}

//OrDefault returns the stored chunk, storing a zeroed one first if the slot is vacant
func (e ChunkEntry[T]) OrDefault() *Chunk[T] {
	return e.OrInsertWith(func() *Chunk[T] { return NewChunk[T](e.grid.size) })
}

//OrInsertWith returns the stored chunk, storing the result of f first if the slot is vacant
func (e ChunkEntry[T]) OrInsertWith(f func() *Chunk[T]) *Chunk[T] {
	if c, ok := e.grid.chunks.get(e.pos); ok {
		return c
	}
	return e.Insert(f())
}

//SparseEntry is a handle on one cell of a SparseGrid
type SparseEntry[T any] struct {
	grid  *SparseGrid[T]
	chunk ChunkPos
	local LocalPos
}

//Pos returns the global position of the cell
func (e SparseEntry[T]) Pos() GlobalPos {
	return Compose(e.grid.size, e.chunk, e.local)
}

//Get reads the cell, false if the chunk is missing or the cell is vacant
func (e SparseEntry[T]) Get() (T, bool) {
	c, ok := e.grid.chunks.get(e.chunk)
	if !ok {
		var zero T
		return zero, false
	}
	return c.Get(e.local)
}

//Set commits v and returns the previous value if there was one
func (e SparseEntry[T]) Set(v T) (T, bool) {
	return e.grid.ChunkDefault(e.chunk).Set(e.local, v)
}

//OrInsert returns the current value, committing v first if the cell is vacant
func (e SparseEntry[T]) OrInsert(v T) T {
	if cur, ok := e.Get(); ok {
		return cur
	}
	e.Set(v)
	return v
}
