package rules

import (
	"exlife/src/automata"
	"exlife/src/grid"
)

//Dying is the refractory state of Brian's Brain, On cells use Alive
const Dying uint8 = 2

//BriansBrain fires dead cells with exactly two firing neighbors; firing cells always start dying
type BriansBrain struct{}

func (BriansBrain) String() string { return "briansbrain" }

func (b BriansBrain) Expansion(c *grid.Chunk[uint8]) automata.Expansion {
	return automata.BorderExpansion(c, b.EmptyCell)
}

func (BriansBrain) Simulate(pos grid.GlobalPos, prev *grid.Grid[uint8]) uint8 {
	cur, _ := prev.Get(pos)
	switch cur {
	case Alive:
		return Dying
	case Dying:
		return Dead
	}
	if countNeighbors(pos, prev, Alive) == 2 {
		return Alive
	}
	return Dead
}

func (BriansBrain) EmptyCell(v uint8) bool { return v == Dead }
