package automata

import "exlife/src/grid"

//Rules decides how an automaton grows and what every cell becomes in the next generation
type Rules[T any] interface {
	//Expansion returns the neighbors of a live chunk that must exist in the next generation,
	//otherwise activity could never reach unallocated space
	Expansion(c *grid.Chunk[T]) Expansion
	//Simulate returns the next value of the cell at pos. prev is the whole previous generation
	//and must be the only state the result depends on.
	Simulate(pos grid.GlobalPos, prev *grid.Grid[T]) T
}

//EmptyCeller is implemented by rules that let CleanUp drop chunks.
//Rules without it never consider a cell empty.
type EmptyCeller[T any] interface {
	EmptyCell(cell T) bool
}

//StepCompleter is implemented by rules that keep bookkeeping across generations.
//StepCompleted is called once after every step with the new generation.
type StepCompleter[T any] interface {
	StepCompleted(g *grid.Grid[T])
}

//emptyCell applies the rule's emptiness predicate, false when the rule has none
func emptyCell[T any](r Rules[T]) func(T) bool {
	if ec, ok := r.(EmptyCeller[T]); ok {
		return ec.EmptyCell
	}
	return func(T) bool { return false }
}
