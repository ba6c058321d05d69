package universe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-billy.v4/memfs"
	"gopkg.in/src-d/go-billy.v4/util"

	"exlife/src/grid"
	"exlife/src/rules"
)

func smallOptions() *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = 10
	o.Height = 10
	o.ChunkSize = 4
	return &o
}

//waitFor reads the statuses until the universe reports the running mode
func waitFor(t *testing.T, ch chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			require.FailNow(t, "timed out waiting for the running mode", "mode %v", mode)
		}
	}
}

func liveCells(a Area) [][]int {
	var cells [][]int
	for y, row := range a.Entities {
		for x, c := range row {
			if c.Live() {
				cells = append(cells, []int{x, y})
			}
		}
	}
	return cells
}

func TestEnginesBlinker(t *testing.T) {
	for _, e := range engineNames() {
		t.Run(e, func(t *testing.T) {
			ch := newStateCh()
			u := engines[e](smallOptions(), ch)
			defer u.Close()

			u.Settle([][]int{{4, 5}, {5, 5}, {6, 5}})
			assert.Equal(t, 3, u.Status().LiveCells)

			u.Step()
			st := waitFor(t, ch, RunningStateManual)
			assert.Equal(t, 1, st.IterationNum)
			assert.Equal(t, 3, st.LiveCells)
			assert.ElementsMatch(t, [][]int{{5, 4}, {5, 5}, {5, 6}}, liveCells(u.Area()))

			u.Step()
			waitFor(t, ch, RunningStateManual)
			assert.ElementsMatch(t, [][]int{{4, 5}, {5, 5}, {6, 5}}, liveCells(u.Area()))
		})
	}
}

func TestStillLifeFinishes(t *testing.T) {
	for _, e := range engineNames() {
		t.Run(e, func(t *testing.T) {
			ch := newStateCh()
			u := engines[e](smallOptions(), ch)
			defer u.Close()

			u.Settle([][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
			u.Step()
			st := waitFor(t, ch, RunningStateFinished)
			assert.Equal(t, 4, st.LiveCells)
		})
	}
}

func TestRunStopsAtMaxSteps(t *testing.T) {
	o := smallOptions()
	o.MaxSteps = 5
	ch := newStateCh()
	u := NewSimpleUniverse(o, ch)
	defer u.Close()

	u.Settle([][]int{{4, 5}, {5, 5}, {6, 5}})
	u.Run()
	st := waitFor(t, ch, RunningStateFinished)
	assert.Equal(t, 5, st.IterationNum)
}

func TestGliderLeavesTheView(t *testing.T) {
	o := smallOptions()
	o.MaxSteps = 0
	ch := newStateCh()
	u := NewMultithreadedUniverse(o, ch)
	defer u.Close()

	u.Settle([][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}})
	for i := 0; i < 40; i++ {
		u.Step()
		waitFor(t, ch, RunningStateManual)
	}
	assert.Empty(t, liveCells(u.Area()))
	st := u.Status()
	assert.Equal(t, 5, st.LiveCells)

	u.Pan(10, 10)
	assert.ElementsMatch(t, [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}, liveCells(u.Area()))
}

func TestClear(t *testing.T) {
	ch := newStateCh()
	u := NewBaseUniverse(smallOptions(), ch)
	defer u.Close()

	u.Settle([][]int{{1, 1}, {2, 2}})
	u.Clear()
	st := waitFor(t, ch, RunningStateManual)
	assert.Equal(t, 0, st.LiveCells)
	assert.Equal(t, 0, st.Chunks)
	assert.Equal(t, 0, u.Grid().Len())
}

func TestInverseCellAndPan(t *testing.T) {
	u := NewBaseUniverse(smallOptions(), nil)
	defer u.Close()

	u.InverseCell(0, 0)
	assert.True(t, u.Area().Entities[0][0].Live())
	assert.Equal(t, 1, u.Status().LiveCells)

	u.Pan(1, 0)
	a := u.Area()
	assert.False(t, a.Entities[0][0].Live())
	assert.Equal(t, int64(-4), a.X)

	u.Pan(-1, 0)
	u.InverseCell(0, 0)
	assert.False(t, u.Area().Entities[0][0].Live())
	assert.Equal(t, 0, u.Status().LiveCells)

	u.InverseCell(-1, 0)
	u.InverseCell(0, 10)
	assert.Equal(t, 0, u.Status().LiveCells)
}

func TestTemplates(t *testing.T) {
	u := NewBaseUniverse(smallOptions(), nil)
	defer u.Close()

	u.AddTemplate(testTemplate)
	u.SettleTemplate("ts1")
	assert.ElementsMatch(t, testTemplate.Coordinates, liveCells(u.Area()))

	u.SettleTemplate("unknown")
	assert.Equal(t, len(testTemplate.Coordinates), u.Status().LiveCells)
}

func TestLoad(t *testing.T) {
	ch := newStateCh()
	u := NewSimpleUniverse(smallOptions(), ch)
	defer u.Close()

	g := grid.New[uint8](8)
	for _, p := range []grid.GlobalPos{{-1, 0}, {0, 0}, {1, 0}} {
		g.Insert(p, rules.Alive)
	}
	u.Load(g)
	st := waitFor(t, ch, RunningStateManual)
	assert.Equal(t, 3, st.LiveCells)
	assert.Equal(t, 8, u.Options().ChunkSize)

	u.Step()
	st = waitFor(t, ch, RunningStateManual)
	assert.Equal(t, 1, st.IterationNum)
	v, _ := u.Grid().Get(grid.GlobalPos{0, -1})
	assert.Equal(t, rules.Alive, v)
}

func TestSettleWithNoise(t *testing.T) {
	settle := func(seed int64) Area {
		ch := newStateCh()
		u := NewBaseUniverse(smallOptions(), ch)
		defer u.Close()
		u.SettleWithNoise(seed)
		waitFor(t, ch, RunningStateManual)
		waitFor(t, ch, RunningStateManual)
		return u.Area()
	}
	a := settle(42)
	assert.Equal(t, a, settle(42))
	assert.NotEmpty(t, liveCells(a))
}

func TestSettleWithRandomData(t *testing.T) {
	ch := newStateCh()
	u := NewBaseUniverse(smallOptions(), ch)
	defer u.Close()

	u.SettleWithRandomData()
	waitFor(t, ch, RunningStateManual)
	waitFor(t, ch, RunningStateManual)
	n := len(liveCells(u.Area()))
	assert.Greater(t, n, 0)
	assert.Equal(t, n, u.Status().LiveCells)
}

func TestUnknownRuleFallsBack(t *testing.T) {
	o := smallOptions()
	o.Rule = "nonsense"
	u := NewBaseUniverse(o, nil)
	defer u.Close()
	assert.Equal(t, rules.Life().String(), u.Options().Rule)
}

func TestLoadTemplates(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "tmpl.yaml", []byte(`
- name: blinker
  descr: period 2 oscillator
  coordinates: [[0, 1], [1, 1], [2, 1]]
- name: block
  coordinates: [[0, 0], [0, 1], [1, 0], [1, 1]]
`), 0644))
	tmpls, err := LoadTemplates(fs, "tmpl.yaml")
	require.NoError(t, err)
	require.Len(t, tmpls, 2)
	assert.Equal(t, "blinker", tmpls[0].Name)
	assert.Equal(t, "period 2 oscillator", tmpls[0].Descr)
	assert.Equal(t, [][]int{{0, 1}, {1, 1}, {2, 1}}, tmpls[0].Coordinates)

	require.NoError(t, util.WriteFile(fs, "bad.yaml", []byte("- name: x\n  coordinates: [[1]]\n"), 0644))
	_, err = LoadTemplates(fs, "bad.yaml")
	assert.ErrorIs(t, err, ErrBadTemplate)

	require.NoError(t, util.WriteFile(fs, "noname.yaml", []byte("- coordinates: [[1, 1]]\n"), 0644))
	_, err = LoadTemplates(fs, "noname.yaml")
	assert.ErrorIs(t, err, ErrBadTemplate)

	require.NoError(t, util.WriteFile(fs, "unknown.yaml", []byte("- name: x\n  coords: [[1, 1]]\n"), 0644))
	_, err = LoadTemplates(fs, "unknown.yaml")
	assert.Error(t, err)

	_, err = LoadTemplates(fs, "missing.yaml")
	assert.Error(t, err)
}

func TestLoadOptions(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "exlife.yaml", []byte(`
width: 60
interval: 50ms
rule: highlife
chunk_size: 32
`), 0644))
	o, err := LoadOptions(fs, "exlife.yaml")
	require.NoError(t, err)
	assert.Equal(t, 60, o.Width)
	assert.Equal(t, DefHeight, o.Height)
	assert.Equal(t, 50*time.Millisecond, o.Interval)
	assert.Equal(t, "highlife", o.Rule)
	assert.Equal(t, 32, o.ChunkSize)
	assert.Equal(t, DefMaxSteps, o.MaxSteps)

	require.NoError(t, util.WriteFile(fs, "typo.yaml", []byte("widht: 60\n"), 0644))
	_, err = LoadOptions(fs, "typo.yaml")
	assert.Error(t, err)

	require.NoError(t, util.WriteFile(fs, "zero.yaml", []byte("width: 0\n"), 0644))
	_, err = LoadOptions(fs, "zero.yaml")
	assert.Error(t, err)
}

func TestChunksCountedAfterCleanUp(t *testing.T) {
	for _, e := range engineNames() {
		t.Run(e, func(t *testing.T) {
			o := smallOptions()
			o.CleanUpEvery = 1
			ch := newStateCh()
			u := engines[e](o, ch)
			defer u.Close()

			u.Settle([][]int{{4, 5}, {5, 5}, {6, 5}})
			u.Step()
			st := waitFor(t, ch, RunningStateManual)
			assert.Equal(t, 2, st.Chunks)
			assert.Equal(t, u.Grid().Len(), st.Chunks)
		})
	}
}

func TestCountParallelMatchesSerial(t *testing.T) {
	prev := grid.New[uint8](4)
	next := grid.New[uint8](4)
	for _, p := range []grid.GlobalPos{{0, 0}, {1, 0}, {-3, 7}, {12, -9}} {
		prev.Insert(p, rules.Alive)
		next.Insert(p, rules.Alive)
	}
	next.ChunkDefault(grid.ChunkPos{5, 5})

	for _, workers := range []int{1, 3, 8} {
		live, changed := countParallel(prev, next, workers)
		assert.Equal(t, 4, live)
		assert.False(t, changed, "workers %d", workers)
	}

	next.Insert(grid.GlobalPos{21, 21}, rules.Dying)
	live, changed := countParallel(prev, next, 3)
	assert.Equal(t, 4, live)
	assert.True(t, changed)

	next.Insert(grid.GlobalPos{21, 21}, rules.Dead)
	next.Insert(grid.GlobalPos{1, 0}, rules.Dead)
	live, changed = countParallel(prev, next, 3)
	assert.Equal(t, 3, live)
	assert.True(t, changed)
}
