package universe

import "exlife/src/grid"

type Universe interface {
	Status() Status
	Options() Options
	Area() Area
	Grid() *grid.Grid[uint8]
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string)
	SettleWithRandomData()
	SettleWithNoise(seed int64)
	Settle(vc [][]int)
	InverseCell(x int, y int)
	Pan(dx int, dy int)
	Load(g *grid.Grid[uint8])
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
