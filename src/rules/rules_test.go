package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exlife/src/automata"
	"exlife/src/grid"
)

func seed(size int, state uint8, cells ...grid.GlobalPos) *grid.Grid[uint8] {
	g := grid.New[uint8](size)
	for _, p := range cells {
		g.Insert(p, state)
	}
	return g
}

func live(g *grid.Grid[uint8], state uint8) map[grid.GlobalPos]bool {
	cells := map[grid.GlobalPos]bool{}
	for p, v := range g.Cells() {
		if v == state {
			cells[p] = true
		}
	}
	return cells
}

func set(cells ...grid.GlobalPos) map[grid.GlobalPos]bool {
	m := map[grid.GlobalPos]bool{}
	for _, p := range cells {
		m[p] = true
	}
	return m
}

func TestBlinkerAcrossChunks(t *testing.T) {
	vertical := []grid.GlobalPos{{4, -1}, {4, 0}, {4, 1}}
	horizontal := []grid.GlobalPos{{3, 0}, {4, 0}, {5, 0}}
	a := automata.New[uint8](Life(), seed(4, Alive, vertical...))

	a.Step()
	assert.Equal(t, set(horizontal...), live(a.State(), Alive))
	a.Step()
	assert.Equal(t, set(vertical...), live(a.State(), Alive))
}

func TestGliderLeavesItsChunk(t *testing.T) {
	glider := []grid.GlobalPos{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	a := automata.New[uint8](Life(), seed(4, Alive, glider...))
	scratch := grid.New[uint8](4)
	for i := 0; i < 40; i++ {
		scratch = a.StepScratch(scratch)
		a.CleanUp()
	}
	want := map[grid.GlobalPos]bool{}
	for _, p := range glider {
		want[p.Add(10, 10)] = true
	}
	assert.Equal(t, want, live(a.State(), Alive))
	assert.LessOrEqual(t, a.State().Len(), 9)
	_, ok := a.State().Chunk(grid.ChunkPos{0, 0})
	assert.False(t, ok, "the starting chunk should have been cleaned up")
}

func TestBlockIsStill(t *testing.T) {
	block := []grid.GlobalPos{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}}
	a := automata.New[uint8](Life(), seed(8, Alive, block...), automata.WithWorkers(3))
	for i := 0; i < 3; i++ {
		a.Step()
	}
	assert.Equal(t, set(block...), live(a.State(), Alive))
}

func TestBriansBrain(t *testing.T) {
	a := automata.New[uint8](BriansBrain{}, seed(4, Alive, grid.GlobalPos{0, 0}, grid.GlobalPos{0, 1}))
	a.Step()
	assert.Equal(t, set(grid.GlobalPos{-1, 0}, grid.GlobalPos{-1, 1}, grid.GlobalPos{1, 0}, grid.GlobalPos{1, 1}), live(a.State(), Alive))
	assert.Equal(t, set(grid.GlobalPos{0, 0}, grid.GlobalPos{0, 1}), live(a.State(), Dying))
}

func TestParseLifeLike(t *testing.T) {
	for rule, want := range map[string]string{
		"B3/S23":        "B3/S23",
		"b36/s23":       "B36/S23",
		"23/3":          "B3/S23",
		"S23/B3":        "B3/S23",
		"B2/S":          "B2/S",
		"B/S":           "B/S",
		" B3678/S34678": "B3678/S34678",
	} {
		l, err := ParseLifeLike(rule)
		require.NoError(t, err, rule)
		assert.Equal(t, want, l.String())
	}
	for _, rule := range []string{"", "B3", "B9/S23", "Bx/S1", "B3/S2/S3", "/", " / "} {
		_, err := ParseLifeLike(rule)
		assert.ErrorIs(t, err, ErrBadRulestring, rule)
	}
}

func TestParsePresets(t *testing.T) {
	for _, name := range Names() {
		r, err := Parse(name)
		require.NoError(t, err, name)
		assert.NotNil(t, r)
	}
	r, err := Parse("Life")
	require.NoError(t, err)
	assert.Equal(t, "B3/S23", r.String())
	r, err = Parse("B36/S23")
	require.NoError(t, err)
	assert.Equal(t, "B36/S23", r.String())
	_, err = Parse("nope")
	assert.ErrorIs(t, err, ErrUnknownRule)
}
