package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"exlife/src/universe"
)

func TestOverrideOptions(t *testing.T) {
	o := universe.DefaultUniverseOptions
	o.Rule = "highlife"
	overrideOptions(&o, universe.Options{Width: 80, Interval: 20 * time.Millisecond})
	assert.Equal(t, 80, o.Width)
	assert.Equal(t, universe.DefHeight, o.Height)
	assert.Equal(t, 20*time.Millisecond, o.Interval)
	assert.Equal(t, "highlife", o.Rule)

	overrideOptions(&o, universe.Options{Rule: "seeds", ChunkSize: 32, MaxSteps: 7})
	assert.Equal(t, "seeds", o.Rule)
	assert.Equal(t, 32, o.ChunkSize)
	assert.Equal(t, 7, o.MaxSteps)
}

func TestEnginesAreKnown(t *testing.T) {
	for name, e := range engines {
		u := e(&universe.DefaultUniverseOptions, nil)
		assert.Equal(t, name, u.Options().Advanced["engine"])
		u.Close()
	}
}
