package automata

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exlife/src/grid"
)

//copyRules reproduces the previous generation under a fixed expansion policy
type copyRules struct {
	expansion Expansion
	completed int
}

func (r *copyRules) Expansion(*grid.Chunk[int]) Expansion { return r.expansion }

func (r *copyRules) Simulate(pos grid.GlobalPos, prev *grid.Grid[int]) int {
	v, _ := prev.Get(pos)
	return v
}

func (r *copyRules) StepCompleted(*grid.Grid[int]) { r.completed++ }

//shiftRules moves every cell one step north and treats zero as empty
type shiftRules struct{}

func (shiftRules) Expansion(c *grid.Chunk[int]) Expansion {
	return BorderExpansion(c, shiftRules{}.EmptyCell)
}

func (shiftRules) Simulate(pos grid.GlobalPos, prev *grid.Grid[int]) int {
	v, _ := prev.Get(pos.Add(0, 1))
	return v
}

func (shiftRules) EmptyCell(v int) bool { return v == 0 }

func populated(t *testing.T, size int) *grid.Grid[int] {
	t.Helper()
	r := rand.New(rand.NewPCG(7, 8))
	g := grid.New[int](size)
	for i := 0; i < 64; i++ {
		g.Insert(grid.GlobalPos{r.Int64N(64) - 32, r.Int64N(64) - 32}, r.IntN(100)+1)
	}
	return g
}

func cellsOf(g *grid.Grid[int]) map[grid.GlobalPos]int {
	cells := map[grid.GlobalPos]int{}
	for p, v := range g.Cells() {
		if v != 0 {
			cells[p] = v
		}
	}
	return cells
}

func TestCopyRuleKeepsGrid(t *testing.T) {
	for name, expansion := range map[string]Expansion{
		"none":  Expansion8{},
		"four":  Expansion4{North: true, West: true},
		"all":   ExpandAll,
		"south": Expansion8{SS: true},
	} {
		t.Run(name, func(t *testing.T) {
			state := populated(t, 8)
			want := cellsOf(state)
			rules := &copyRules{expansion: expansion}
			a := New[int](rules, state.Clone())
			a.Step()
			a.Step()
			assert.Equal(t, want, cellsOf(a.State()))
			assert.Equal(t, 2, rules.completed)
			assert.Equal(t, 2, a.Generation())
		})
	}
}

func TestCopyRuleParallelWorkers(t *testing.T) {
	state := populated(t, 16)
	want := cellsOf(state)
	a := New[int](&copyRules{expansion: ExpandAll}, state, WithWorkers(4))
	a.Step()
	assert.Equal(t, want, cellsOf(a.State()))
}

func TestStepMaterializesEachChunkOnce(t *testing.T) {
	g := grid.New[int](4)
	g.Insert(grid.GlobalPos{0, 0}, 1)
	g.Insert(grid.GlobalPos{4, 0}, 1)
	a := New[int](&copyRules{expansion: ExpandAll}, g)
	a.Step()
	// two adjacent chunks with all neighbors: a 4x3 block of chunks
	assert.Equal(t, 12, a.State().Len())
	assert.Equal(t, 12, a.LastStep().Materialized)
	assert.Equal(t, 12, a.LastStep().Chunks)
}

func TestExpansionGrowsNorth(t *testing.T) {
	g := grid.New[int](4)
	g.Insert(grid.GlobalPos{1, 0}, 5)
	a := New[int](shiftRules{}, g)
	a.Step()

	_, ok := a.State().Chunk(grid.ChunkPos{0, -1})
	require.True(t, ok, "north neighbor should be materialized")
	v, ok := a.State().Get(grid.GlobalPos{1, -1})
	require.True(t, ok)
	assert.Equal(t, 5, v)
	_, ok = a.State().Chunk(grid.ChunkPos{1, 0})
	assert.False(t, ok)
}

func TestNoExpansionTruncatesAtChunkBorder(t *testing.T) {
	g := grid.New[int](4)
	g.Insert(grid.GlobalPos{1, 0}, 5)
	a := New[int](&copyRules{expansion: Expansion8{}}, g)
	a.Step()
	assert.Equal(t, 1, a.State().Len())
}

func TestStepScratch(t *testing.T) {
	state := populated(t, 8)
	want := cellsOf(state)
	a := New[int](&copyRules{expansion: Expansion8{}}, state)

	scratch := grid.New[int](8)
	scratch.Insert(grid.GlobalPos{1000, 1000}, 9)
	prev := a.StepScratch(scratch)
	assert.Same(t, state, prev)
	assert.Same(t, scratch, a.State())
	assert.Equal(t, want, cellsOf(a.State()))

	prev = a.StepScratch(prev)
	assert.Same(t, scratch, prev)
	assert.Equal(t, want, cellsOf(a.State()))

	assert.Panics(t, func() { a.StepScratch(a.State()) })
	assert.Panics(t, func() { a.StepScratch(grid.New[int](4)) })
}

func TestCleanUp(t *testing.T) {
	g := grid.New[int](4)
	g.Insert(grid.GlobalPos{1, 1}, 5)
	g.ChunkDefault(grid.ChunkPos{3, 3})
	g.ChunkDefault(grid.ChunkPos{-2, 0})

	keep := New[int](&copyRules{}, g.Clone())
	assert.Equal(t, 0, keep.CleanUp())
	assert.Equal(t, 3, keep.State().Len())

	a := New[int](shiftRules{}, g, WithWorkers(2))
	assert.Equal(t, 2, a.CleanUp())
	assert.Equal(t, 1, a.State().Len())
	_, ok := a.State().Chunk(grid.ChunkPos{0, 0})
	assert.True(t, ok)
}

func TestStepKeepsHasher(t *testing.T) {
	g := grid.New[int](4, grid.WithHasher(grid.FNVHasher))
	g.Insert(grid.GlobalPos{1, 1}, 5)
	a := New[int](&copyRules{expansion: ExpandAll}, g)
	a.Step()
	assert.NotNil(t, a.State().Hasher())
	assert.Equal(t, 9, a.State().Len())
	v, _ := a.State().Get(grid.GlobalPos{1, 1})
	assert.Equal(t, 5, v)
}

func TestNilStatePanics(t *testing.T) {
	assert.Panics(t, func() { New[int](&copyRules{}, nil) })
}
