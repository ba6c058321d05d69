package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"exlife/src/universe"
)

//ConsoleOut prints the progress of a non interactive simulation
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	startTime time.Time
}

func NewConsoleOut() *ConsoleOut {
	return &ConsoleOut{w: os.Stdout}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
			"Chunks":         st.Chunks,
		}
		_, _ = fmt.Fprintln(c.w, aurora.Red("\nFinished:"))
		c.printHashData(resultData)
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%10 == 0 {
			_, _ = fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v, chunks: %v\n", st.IterationNum, st.LiveCells, st.Chunks)
		}
	}
}

func (c *ConsoleOut) Register(u *universe.BaseUniverse) {
	c.u = u
	o := c.u.Options()
	_, _ = fmt.Fprintln(c.w, aurora.Green("Running configuration:"))
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
