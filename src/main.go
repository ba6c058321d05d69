package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"exlife/src/rules"
	"exlife/src/snapshot"
	"exlife/src/universe"
	"exlife/src/view"
)

var (
	testSample = [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}

	engines = map[string]func(o *universe.Options, stateCh chan universe.Status) universe.Universe{
		"base": func(o *universe.Options, stateCh chan universe.Status) universe.Universe {
			return universe.NewBaseUniverse(o, stateCh)
		},
		"simple":        universe.NewSimpleUniverse,
		"multithreaded": universe.NewMultithreadedUniverse,
	}
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	noise       bool
	engine      string
	templates   string
	template    string
	load        string
	save        string
	config      string
	verbose     bool
}

func main() {
	eo, uo := initOptions()
	fs := osfs.New("")

	var stateCh chan universe.Status

	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u := engines[eo.engine](uo, stateCh)

	u.AddTemplate(
		universe.Template{
			Name:        "testSample1",
			Descr:       "the test sample with 3 stable patterns",
			Coordinates: testSample,
		})
	if eo.templates != "" {
		tmpls, err := universe.LoadTemplates(fs, eo.templates)
		if err != nil {
			logrus.Fatalf("Failed to load templates: %v", err)
		}
		for _, t := range tmpls {
			u.AddTemplate(t)
		}
	}

	switch {
	case eo.load != "":
		g, err := snapshot.Load(fs, eo.load)
		if err != nil {
			logrus.Fatalf("Failed to load the snapshot: %v", err)
		}
		u.Load(g)
		if stateCh != nil {
			<-stateCh //wait for the field
		}
	case eo.noise:
		u.SettleWithNoise(time.Now().UnixNano())
		if stateCh != nil {
			<-stateCh //cleared
			<-stateCh //settled
		}
	case eo.randomData:
		u.SettleWithRandomData()
		if stateCh != nil {
			<-stateCh //cleared
			<-stateCh //settled
		}
	default:
		u.SettleTemplate(eo.template)
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
	} else {
		v := view.NewConsoleOut()
		u.RegisterViewer(v)
		v.Start()
		u.Run()
		for {
			st := <-stateCh
			if st.RunningMode == universe.RunningStateFinished {
				break
			}
		}
	}

	if eo.save != "" {
		if err := snapshot.Save(fs, eo.save, u.Grid()); err != nil {
			logrus.Errorf("Failed to save the snapshot: %v", err)
		} else {
			logrus.Infof("Snapshot saved to %s", eo.save)
		}
	}
	u.Close()
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	//flags override the options file, zero values mean the flag is not set
	flags := universe.Options{}
	engineNames := make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	eo = &EnvOptions{engine: "base", template: "testSample1"}
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&flags.Width, "x", "width", "Width of a simulation view")
	flaggy.Int(&flags.Height, "y", "height", "Height of a simulation view")
	flaggy.Duration(&flags.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&flags.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.String(&flags.Rule, "u", "rule", "Rule to use ["+strings.Join(rules.Names(), "|")+"] or a rulestring like B36/S23")
	flaggy.Int(&flags.ChunkSize, "k", "chunk", "Chunk size of the field")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Bool(&eo.noise, "", "noise", "Settle with opensimplex noise")
	flaggy.String(&eo.engine, "e", "engine", "Engine to use ["+strings.Join(engineNames, "|")+"]")
	flaggy.String(&eo.templates, "t", "templates", "YAML file with the seeding templates")
	flaggy.String(&eo.template, "", "template", "Template to settle the field with")
	flaggy.String(&eo.load, "", "load", "Load the field from the snapshot file")
	flaggy.String(&eo.save, "", "save", "Save the field to the snapshot file on exit")
	flaggy.String(&eo.config, "c", "config", "YAML file with the universe options")
	flaggy.Bool(&eo.verbose, "v", "verbose", "Log the engine details")

	flaggy.Parse()

	if eo.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	_, ok := engines[eo.engine]
	if !ok {
		flaggy.ShowHelpAndExit("unknown engine")
	}
	if flags.Rule != "" {
		if _, err := rules.Parse(flags.Rule); err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
	}

	o := universe.DefaultUniverseOptions
	if eo.config != "" {
		var err error
		o, err = universe.LoadOptions(osfs.New(""), eo.config)
		if err != nil {
			logrus.Fatalf("Failed to load options: %v", err)
		}
	}
	overrideOptions(&o, flags)
	uo = &o

	if !eo.interactive {
		flaggy.ShowHelp("")
		fmt.Printf("\"The Life\" game simulation, rule %s\n", uo.Rule)
	}

	return
}

//overrideOptions copies the set flags over the options
func overrideOptions(o *universe.Options, flags universe.Options) {
	if flags.Width != 0 {
		o.Width = flags.Width
	}
	if flags.Height != 0 {
		o.Height = flags.Height
	}
	if flags.Interval != 0 {
		o.Interval = flags.Interval
	}
	if flags.MaxSteps != 0 {
		o.MaxSteps = flags.MaxSteps
	}
	if flags.Rule != "" {
		o.Rule = flags.Rule
	}
	if flags.ChunkSize != 0 {
		o.ChunkSize = flags.ChunkSize
	}
}
