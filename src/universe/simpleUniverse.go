package universe

import "exlife/src/grid"

/*
	Simple Universe implementation with two buffers
	All cells state is calculated to the spare buffer, then the buffers are swapped and the old one becomes the spare buffer for the next step
*/
type SimpleUniverse struct {
	*BaseUniverse
	tmpBuff *grid.Grid[uint8]
}

func NewSimpleUniverse(o *Options, stateCh chan Status) Universe {
	su := SimpleUniverse{BaseUniverse: newBaseUniverse(o, stateCh)}
	//redefine the nextIteration
	su.BaseUniverse.nextIteration = su.nextIteration
	su.tmpBuff = grid.New[uint8](su.options.ChunkSize)
	su.options.Advanced["engine"] = "simple"
	go su.mainLoop()
	return &su
}

func (su *SimpleUniverse) nextIteration() (hasLiveEnitities bool, changed bool) {
	su.world.Lock()
	defer su.world.Unlock()
	prev := su.stepInto(&su.tmpBuff)
	return su.collectStats(prev, su.world.automata.State())
}
