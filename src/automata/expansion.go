package automata

import "exlife/src/grid"

//Expansion is a set of neighbor directions whose chunks must exist after a step
type Expansion interface {
	//Apply calls fn with the position of every flagged neighbor of origin
	Apply(origin grid.ChunkPos, fn func(grid.ChunkPos))
	//ApplyWithCenter calls fn with origin first, then as Apply does
	ApplyWithCenter(origin grid.ChunkPos, fn func(grid.ChunkPos))
}

//Expansion4 flags the four cardinal neighbors. North is {0, -1}, east is {1, 0}.
type Expansion4 struct {
	North bool
	South bool
	East  bool
	West  bool
}

//Expansion8 flags the cardinal and diagonal neighbors
type Expansion8 struct {
	NN bool // {0, -1}
	NE bool // {1, -1}
	EE bool // {1, 0}
	SE bool // {1, 1}
	SS bool // {0, 1}
	SW bool // {-1, 1}
	WW bool // {-1, 0}
	NW bool // {-1, -1}
}

//ExpandAll requests every neighbor
var ExpandAll = Expansion8{true, true, true, true, true, true, true, true}

//Expansion8 upgrades the set: cardinals are kept and a diagonal is set when both adjacent cardinals are
func (e Expansion4) Expansion8() Expansion8 {
	return Expansion8{
		NN: e.North,
		SS: e.South,
		EE: e.East,
		WW: e.West,
		NE: e.North && e.East,
		SE: e.South && e.East,
		SW: e.South && e.West,
		NW: e.North && e.West,
	}
}

func (e Expansion4) Apply(origin grid.ChunkPos, fn func(grid.ChunkPos)) {
	applyFlags(origin, fn, []bool{e.North, e.East, e.South, e.West}, cardinals)
}

func (e Expansion4) ApplyWithCenter(origin grid.ChunkPos, fn func(grid.ChunkPos)) {
	fn(origin)
	e.Apply(origin, fn)
}

//Count returns the number of flagged directions
func (e Expansion4) Count() int {
	return countFlags(e.North, e.East, e.South, e.West)
}

func (e Expansion8) Apply(origin grid.ChunkPos, fn func(grid.ChunkPos)) {
	applyFlags(origin, fn, []bool{e.NN, e.NE, e.EE, e.SE, e.SS, e.SW, e.WW, e.NW}, compass)
}

func (e Expansion8) ApplyWithCenter(origin grid.ChunkPos, fn func(grid.ChunkPos)) {
	fn(origin)
	e.Apply(origin, fn)
}

//Count returns the number of flagged directions
func (e Expansion8) Count() int {
	return countFlags(e.NN, e.NE, e.EE, e.SE, e.SS, e.SW, e.WW, e.NW)
}

var (
	cardinals = [][2]int32{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	compass   = [][2]int32{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

func applyFlags(origin grid.ChunkPos, fn func(grid.ChunkPos), flags []bool, vectors [][2]int32) {
	for i, set := range flags {
		if set {
			fn(origin.Add(vectors[i]))
		}
	}
}

func countFlags(flags ...bool) (n int) {
	for _, f := range flags {
		if f {
			n++
		}
	}
	return
}

//BorderExpansion4 flags every edge of the chunk holding at least one cell that is not empty
func BorderExpansion4[T any](c *grid.Chunk[T], empty func(T) bool) Expansion4 {
	last := c.Size() - 1
	occupied := func(cells []T) bool {
		for _, v := range cells {
			if !empty(v) {
				return true
			}
		}
		return false
	}
	return Expansion4{
		North: occupied(c.Row(0)),
		South: occupied(c.Row(last)),
		West:  occupied(c.Column(0)),
		East:  occupied(c.Column(last)),
	}
}

//BorderExpansion is BorderExpansion4 upgraded to the eight neighbor set.
//This is the usual growth policy for rules whose cells only see their immediate neighbors.
func BorderExpansion[T any](c *grid.Chunk[T], empty func(T) bool) Expansion8 {
	return BorderExpansion4(c, empty).Expansion8()
}
