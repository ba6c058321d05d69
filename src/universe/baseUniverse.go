package universe

import (
	"maps"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ojrac/opensimplex-go"
	"github.com/sirupsen/logrus"

	"exlife/src/automata"
	"exlife/src/grid"
	"exlife/src/rules"
)

//Cell is the state of one cell as seen by viewers
type Cell uint8

//Live reports whether the cell is firing
func (c Cell) Live() bool { return uint8(c) == rules.Alive }

//Area is a rectangular window on the infinite field, X and Y is the global position of its top left cell
type Area struct {
	X        int64
	Y        int64
	Width    int
	Height   int
	Entities [][]Cell
}

//Options represents the Universe's configurable options
type Options struct {
	Width           int                    `yaml:"width"`
	Height          int                    `yaml:"height"`
	ChunkSize       int                    `yaml:"chunk_size"`
	Rule            string                 `yaml:"rule"`
	Interval        time.Duration          `yaml:"interval"`
	MaxSteps        int                    `yaml:"max_steps"`
	MaxSkippedTicks int                    `yaml:"max_skipped_ticks"`
	CleanUpEvery    int                    `yaml:"clean_up_every"`
	Workers         int                    `yaml:"workers"`
	Advanced        map[string]interface{} `yaml:"-"` //advanced options (engine specific)
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	Chunks        int
	IterationTime time.Duration
	Details       map[string]interface{} //advanced details (engine specific)
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u *BaseUniverse)
	Start()
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  `yaml:"name"`        //template name
	Descr       string  `yaml:"descr"`       //template descr
	Coordinates [][]int `yaml:"coordinates"` //array of [x,y] coordinates relative to the view
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 40
	DefHeight             = 15
	DefMaxSkippedTicks    = 5
	DefChunkSize          = 16
	DefRule               = "life"
	DefCleanUpEvery       = 10
	DefNoiseScale         = 1.0 / 6
	DefNoiseThreshold     = 0.25
)

const (
	RunningStateManual   = 0x0
	RunningStateStep     = 0x1
	RunningStateRun      = 0x2
	RunningStateFinished = 0x3
)

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	ChunkSize:       DefChunkSize,
	Rule:            DefRule,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	CleanUpEvery:    DefCleanUpEvery,
	Workers:         1,
}

//BaseUniverse is the base universe's engine
//implements Universe interface
//the field is an infinite chunked grid advanced by an automata, viewers look at it through a movable window
//can be used to create different implementations by redefining nextIteration func
type BaseUniverse struct {
	options Options
	rule    rules.Rule
	state   struct {
		Status
		sync.Mutex
	}
	world struct {
		automata *automata.Automata[uint8]
		origin   grid.GlobalPos
		sync.Mutex
	}
	stateCh       chan Status
	views         []Viewer
	templates     map[string]Template
	controlCh     chan func()
	closeCh       chan bool
	log           *logrus.Entry
	nextIteration func() (hasLiveEnitities bool, changed bool)
}

//NewBaseUniverse creates the BaseUniverse instance
func NewBaseUniverse(o *Options, stateCh chan Status) *BaseUniverse {
	u := newBaseUniverse(o, stateCh)
	go u.mainLoop()
	return u
}

//newBaseUniverse builds the universe without starting the main loop so successors can adjust it first
func newBaseUniverse(o *Options, stateCh chan Status) *BaseUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefChunkSize
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	opts.Advanced = map[string]interface{}{"engine": "base"}

	u := BaseUniverse{
		options:   opts,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
		templates: map[string]Template{},
		log:       logrus.WithField("component", "universe"),
	}
	rule, err := rules.Parse(opts.Rule)
	if err != nil {
		u.log.WithError(err).Warnf("falling back to %s", DefRule)
		rule, _ = rules.Parse(DefRule)
	}
	u.rule = rule
	u.options.Rule = rule.String()
	u.options.Advanced["rule"] = rule.String()
	u.options.Advanced["chunk size"] = opts.ChunkSize

	//nextIteration can be implemented by successor
	u.nextIteration = u._nextIteration
	u.state.Details = make(map[string]interface{})

	u.world.automata = u.newAutomata(grid.New[uint8](opts.ChunkSize))
	u.world.origin = grid.GlobalPos{-int64(opts.Width / 2), -int64(opts.Height / 2)}
	u.refreshView()
	return &u
}

func (u *BaseUniverse) newAutomata(g *grid.Grid[uint8]) *automata.Automata[uint8] {
	return automata.New[uint8](u.rule, g, automata.WithWorkers(u.options.Workers))
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.templates[tmpl.Name] = tmpl
}

//Settle settles the universe with data
//vc - array of x,y coordinates relative to the top left corner of the view
func (u *BaseUniverse) Settle(vc [][]int) {
	u.world.Lock()
	u.settle(vc, Cell(rules.Alive))
	u.world.Unlock()
	u.updateLiveCells()
	u.refreshView()
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) {
	tmpl, ok := u.templates[name]
	if !ok {
		u.log.WithField("template", name).Warn("unknown template")
		return
	}
	u.world.Lock()
	u.settle(tmpl.Coordinates, Cell(rules.Alive))
	u.world.Unlock()
	u.updateLiveCells()
	u.refreshView()
}

//SettleWithRandomData populates the visible part of the universe with random data
func (u *BaseUniverse) SettleWithRandomData() {
	if rm := u.runningMode(); rm == RunningStateManual || rm == RunningStateFinished {
		u.controlCh <- u.clear
		u.controlCh <- func() {
			w, h := u.options.Width, u.options.Height
			u.world.Lock()
			for i := 0; i < w*h; i++ {
				u.settle([][]int{{rand.IntN(w), rand.IntN(h)}}, Cell(rules.Alive))
			}
			u.world.Unlock()
			u.updateLiveCells()
			u.switchRunningState(RunningStateManual)
			u.refreshView()
		}
	}
}

//SettleWithNoise replaces the field with opensimplex noise covering every chunk under the view
func (u *BaseUniverse) SettleWithNoise(seed int64) {
	if rm := u.runningMode(); rm == RunningStateManual || rm == RunningStateFinished {
		u.controlCh <- u.clear
		u.controlCh <- func() {
			u.world.Lock()
			g := u.world.automata.State()
			seedNoise(g, opensimplex.New(seed), u.world.origin, u.options.Width, u.options.Height)
			u.world.Unlock()
			u.updateLiveCells()
			u.switchRunningState(RunningStateManual)
			u.refreshView()
		}
	}
}

//seedNoise creates the chunks under the window with cells alive wherever the noise is above the threshold
func seedNoise(g *grid.Grid[uint8], noise opensimplex.Noise, origin grid.GlobalPos, w, h int) {
	size := g.ChunkSize()
	cmin, _ := grid.Decompose(size, origin)
	cmax, _ := grid.Decompose(size, origin.Add(int64(w-1), int64(h-1)))
	for cy := cmin[1]; cy <= cmax[1]; cy++ {
		for cx := cmin[0]; cx <= cmax[0]; cx++ {
			pos := grid.ChunkPos{cx, cy}
			g.ChunkEntry(pos).Insert(grid.InitChunk(size, func(local grid.LocalPos) uint8 {
				p := grid.Compose(size, pos, local)
				if noise.Eval2(float64(p[0])*DefNoiseScale, float64(p[1])*DefNoiseScale) > DefNoiseThreshold {
					return rules.Alive
				}
				return rules.Dead
			}))
		}
	}
}

//InverseCell inverses the cell state at point x, y of the view
func (u *BaseUniverse) InverseCell(x int, y int) {
	if x < 0 || y < 0 || x >= u.options.Width || y >= u.options.Height {
		return
	}
	u.world.Lock()
	u.world.automata.State().Entry(u.world.origin.Add(int64(x), int64(y))).Update(func(v uint8) uint8 {
		if v == rules.Dead {
			return rules.Alive
		}
		return rules.Dead
	})
	u.world.Unlock()
	u.updateLiveCells()
	u.refreshView()
}

//Pan moves the view over the field
func (u *BaseUniverse) Pan(dx int, dy int) {
	u.world.Lock()
	u.world.origin = u.world.origin.Add(int64(dx), int64(dy))
	u.world.Unlock()
	u.refreshView()
}

//Load replaces the field with g, returns immediately
func (u *BaseUniverse) Load(g *grid.Grid[uint8]) {
	u.controlCh <- func() {
		u.state.Lock()
		u.world.Lock()
		u.options.ChunkSize = g.ChunkSize()
		u.options.Advanced["chunk size"] = g.ChunkSize()
		u.world.automata = u.newAutomata(g)
		u.state.IterationNum = 0
		u.state.RunningMode = RunningStateManual
		u.world.Unlock()
		u.state.Unlock()
		u.updateLiveCells()
		u.switchRunningState(RunningStateManual)
		u.refreshView()
	}
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.views = append(u.views, v)
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.status()
}

//status copies the status so the details can be read outside of the lock, the state lock must be held
func (u *BaseUniverse) status() Status {
	st := u.state.Status
	st.Details = maps.Clone(st.Details)
	return st
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Area returns the part of the field under the view
func (u *BaseUniverse) Area() Area {
	u.world.Lock()
	defer u.world.Unlock()
	a := createArea(u.options.Width, u.options.Height)
	a.X, a.Y = u.world.origin[0], u.world.origin[1]
	g := u.world.automata.State()
	for y := range a.Entities {
		for x := range a.Entities[y] {
			v, _ := g.Get(u.world.origin.Add(int64(x), int64(y)))
			a.Entities[y][x] = Cell(v)
		}
	}
	return a
}

//Grid returns a copy of the whole field
func (u *BaseUniverse) Grid() *grid.Grid[uint8] {
	u.world.Lock()
	defer u.world.Unlock()
	return u.world.automata.State().Clone()
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.controlCh <- u.run
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.controlCh <- u.stop
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.controlCh <- u.step
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.controlCh <- u.clear
}

//Close stops the main loop, close the channels, returns immediately
func (u *BaseUniverse) Close() {
	u.closeCh <- true
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case c = <-u.closeCh:

		}
	}
}

//settle places the Cell at the view relative positions, the field has no border so nothing is clipped
func (u *BaseUniverse) settle(vc [][]int, entity Cell) {
	g := u.world.automata.State()
	for _, v := range vc {
		if len(v) < 2 {
			continue
		}
		g.Insert(u.world.origin.Add(int64(v[0]), int64(v[1])), uint8(entity))
	}
}

//updateLiveCells recalculates the count of live cells and chunks
func (u *BaseUniverse) updateLiveCells() {
	u.world.Lock()
	g := u.world.automata.State()
	liveCells := 0
	for v := range g.All() {
		if Cell(v).Live() {
			liveCells++
		}
	}
	chunks := g.Len()
	u.world.Unlock()

	u.state.Lock()
	u.state.LiveCells = liveCells
	u.state.Chunks = chunks
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.status()
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

func (u *BaseUniverse) runningMode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	go func() {
		u.switchRunningState(RunningStateRun)
		skipped := 0
		done := make(chan bool)
		defer close(done)
		for {
			mode := u.runningMode()
			if mode != RunningStateRun && mode != RunningStateStep {
				break
			}
			if skipped > u.options.MaxSkippedTicks {
				u.log.WithField("skipped", skipped).Warn("the simulation can't keep up with the interval, finishing")
				u.switchRunningState(RunningStateFinished)
				break
			}
			//skip the tick if the universe is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				u.controlCh <- func() {
					u.step()
					done <- true
				}
				<-done
			} else {
				skipped++
			}
			if u.options.Interval > 0 {
				time.Sleep(u.options.Interval)
			}
		}

	}()
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.runningMode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
func (u *BaseUniverse) step() {

	finished := false
	rm := u.runningMode()
	maxIter := u.options.MaxSteps
	u.state.Lock()
	u.state.IterationNum++
	iteration := u.state.IterationNum
	u.state.Unlock()
	defer func() {
		if finished {
			u.switchRunningState(RunningStateFinished)
		} else {
			u.switchRunningState(rm)
		}
		u.refreshView()
	}()

	if maxIter != 0 && iteration >= maxIter {
		finished = true
		return
	}
	u.switchRunningState(RunningStateStep)
	isAlive, changed := u.nextIteration()
	if u.options.CleanUpEvery > 0 && iteration%u.options.CleanUpEvery == 0 {
		u.world.Lock()
		u.world.automata.CleanUp()
		chunks := u.world.automata.State().Len()
		u.world.Unlock()
		u.state.Lock()
		u.state.Chunks = chunks
		u.state.Unlock()
	}
	if !isAlive || !changed {
		finished = true
	}
}

//clear clears the unvierse data, reset all counters
func (u *BaseUniverse) clear() {
	u.state.Lock()
	u.world.Lock()

	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.Chunks = 0
	u.world.automata = u.newAutomata(grid.New[uint8](u.options.ChunkSize))
	u.state.RunningMode = RunningStateManual
	u.world.Unlock()
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()

}

//_nextIteration does one simulation cycle
//the simplest implementation: the automata builds the next generation into a fresh grid on each call
//and the new grid replaces the old one
func (u *BaseUniverse) _nextIteration() (hasLiveEnitities bool, changed bool) {
	u.world.Lock()
	defer u.world.Unlock()
	prev := u.world.automata.State()
	u.world.automata.Step()
	return u.collectStats(prev, u.world.automata.State())
}

//stepInto advances the automata using *buf as the buffer for the next generation and leaves the previous
//generation in *buf, the world lock must be held
func (u *BaseUniverse) stepInto(buf **grid.Grid[uint8]) (prev *grid.Grid[uint8]) {
	state := u.world.automata.State()
	//the field could be replaced by Load or Clear since the last step
	if *buf == nil || *buf == state || (*buf).ChunkSize() != state.ChunkSize() {
		*buf = grid.New[uint8](state.ChunkSize())
	}
	*buf = u.world.automata.StepScratch(*buf)
	return *buf
}

//collectStats compares two generations and updates the status, the world lock must be held
func (u *BaseUniverse) collectStats(prev, next *grid.Grid[uint8]) (hasLiveEnitities bool, changed bool) {
	liveCells := 0
	for pos, v := range next.Cells() {
		if Cell(v).Live() {
			liveCells++
		}
		if !changed {
			old, _ := prev.Get(pos)
			changed = old != v
		}
	}
	return u.updateStats(next, liveCells, changed)
}

func (u *BaseUniverse) updateStats(next *grid.Grid[uint8], liveCells int, changed bool) (hasLiveEnitities bool, _ bool) {
	st := u.world.automata.LastStep()
	u.state.Lock()
	u.state.LiveCells = liveCells
	u.state.Chunks = next.Len()
	u.state.IterationTime = st.Duration
	u.state.Details["materialized chunks"] = st.Materialized
	u.state.Unlock()
	//a dying cell still counts as activity
	return liveCells > 0 || changed, changed
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	for _, v := range u.views {
		v.Refresh()
	}
}

//createArea allocate the new area and return the pointer
func createArea(width int, height int) Area {

	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}
