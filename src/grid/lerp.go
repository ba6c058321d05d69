package grid

import (
	"fmt"
	"math"
)

//LerpFunc blends two cell values, factor 0 yields from and factor 1 yields to
type LerpFunc[T any] func(from, to T, factor float64) T

//Float is satisfied by the floating point cell types Lerp can blend
type Float interface {
	~float32 | ~float64
}

//Lerp is the linear interpolation for floating point cells
func Lerp[F Float](from, to F, factor float64) F {
	return F(float64(from)*(1-factor) + float64(to)*factor)
}

//samplePoint holds the four integer corners around a fractional position and the blend factors
type samplePoint struct {
	x0, y0, x1, y1 int64
	tx, ty         float64
}

func newSamplePoint(x, y float64) samplePoint {
	fx, fy := math.Floor(x), math.Floor(y)
	x0, y0 := int64(fx), int64(fy)
	return samplePoint{x0, y0, x0 + 1, y0 + 1, x - fx, y - fy}
}

//clamp pins the upper corner to the last cell of a chunk
func (sp samplePoint) clamp(size int) samplePoint {
	last := int64(size - 1)
	if sp.x1 > last {
		sp.x1 = last
	}
	if sp.y1 > last {
		sp.y1 = last
	}
	return sp
}

func bilinear[T any](sp samplePoint, v00, v10, v01, v11 T, lerp LerpFunc[T]) T {
	return lerp(lerp(v00, v10, sp.tx), lerp(v01, v11, sp.tx), sp.ty)
}

func assertSampleBounds(size int, x, y float64) {
	s := float64(size)
	if !(x >= 0 && y >= 0 && x < s && y < s) {
		panic(fmt.Sprintf("grid: position out of bounds: the size is %d but the position is %v, %v", size, x, y))
	}
}
