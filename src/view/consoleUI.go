package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"exlife/src/rules"
	"exlife/src/universe"
)

//panStep is the number of cells the view moves on one arrow key press
const panStep = 5

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	u           universe.Universe
	g           *gocui.Gui
	k           []keyBindings
	liveFiller  string
	dyingFiller string
	deadFiller  string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

func NewViewTerminal() *ConsoleUI {

	var err error
	t := ConsoleUI{
		liveFiller:  aurora.Green("█").BgBrightGreen().String(),
		dyingFiller: aurora.Yellow("▓").String(),
		deadFiller:  "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{'o', "O", "Settle with noise", t.cmdSettleWithNoise, ""},
		{gocui.KeyArrowLeft, "←", "", t.cmdPan(-panStep, 0), ""},
		{gocui.KeyArrowRight, "→", "", t.cmdPan(panStep, 0), ""},
		{gocui.KeyArrowUp, "↑", "", t.cmdPan(0, -panStep), ""},
		{gocui.KeyArrowDown, "↓", "Pan", t.cmdPan(0, panStep), ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u *universe.BaseUniverse) {
	t.u = u
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

func (t *ConsoleUI) Refresh() {
	t.renderField(t.u.Area())
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField(a universe.Area) {

	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		//the entire field is redrawing at once now
		//this terminal driver allows to redraw only changed chars
		//there is an opportunity to speed up with a selective redraw
		v.Clear()
		v.Title = fmt.Sprintf("Battle Field [%d, %d]", a.X, a.Y)
		maxW, maxH := v.Size()
		_, _ = fmt.Fprint(v, fieldString(a, maxW, maxH, t.liveFiller, t.dyingFiller, t.deadFiller))
		return nil
	})
}

//fieldString draws the area cropped to maxW x maxH
func fieldString(a universe.Area, maxW, maxH int, live, dying, dead string) string {
	crop := a.Width > maxW || a.Height > maxH
	var b bytes.Buffer

	for i, l := range a.Entities {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j, e := range l {
			if j >= maxW {
				break
			}
			switch uint8(e) {
			case rules.Alive:
				b.WriteString(live)
			case rules.Dying:
				b.WriteString(dying)
			default:
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus() {
	s := t.u.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := t.g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Chunks", "%v", s.Chunks))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Rule", "%v", c.Rule))
			_, _ = fmt.Fprintln(v, t.renderProp("Chunk size", "%v", c.ChunkSize))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil

	} else {
		if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation on an endless field"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	t.renderField(t.u.Area())

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, helpString(t.k))
	}

	return nil
}

//helpString lists the key bindings, the keys with an empty description share the next one
func helpString(k []keyBindings) string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, kb := range k {
		b.WriteString(aurora.Green(kb.name).String())
		if kb.descr == "" {
			b.WriteString("/")
			continue
		}
		b.WriteString(": ")
		b.WriteString(kb.descr)
		if i != len(k)-1 {
			b.WriteString(", ")
		}
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			panic(fmt.Sprintf("Terminal width is too small: %v", maxX))
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdSettleWithNoise(_ *gocui.View) error {
	t.u.SettleWithNoise(time.Now().UnixNano())
	return nil
}

func (t *ConsoleUI) cmdPan(dx int, dy int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.u.Pan(dx, dy)
		return nil
	}
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.u.InverseCell(cx, cy)
	return nil
}
