package grid

import (
	"fmt"
	"math"
)

//ChunkPos identifies one chunk in the tiling
type ChunkPos [2]int32

//LocalPos is an offset inside a chunk, [0, size) on every axis
type LocalPos [2]int

//GlobalPos addresses one cell of the infinite plane
type GlobalPos [2]int64

//Add returns the chunk position shifted by the vector d
func (c ChunkPos) Add(d [2]int32) ChunkPos {
	return ChunkPos{c[0] + d[0], c[1] + d[1]}
}

//Add returns the global position shifted by dx, dy
func (p GlobalPos) Add(dx, dy int64) GlobalPos {
	return GlobalPos{p[0] + dx, p[1] + dy}
}

func (c ChunkPos) String() string {
	return fmt.Sprintf("[%d %d]", c[0], c[1])
}

//Decompose converts a global position into the chunk holding it and the offset inside that chunk.
//Division is Euclidean so negative coordinates tile without gaps.
//It panics when the chunk index does not fit in a ChunkPos.
func Decompose(size int, pos GlobalPos) (ChunkPos, LocalPos) {
	assertSize(size)
	s := int64(size)
	var chunk ChunkPos
	var local LocalPos
	for i, p := range pos {
		q, r := divEuclid(p, s)
		if q < math.MinInt32 || q > math.MaxInt32 {
			panic(fmt.Sprintf("grid: position %v is out of range for chunks of size %d", pos, size))
		}
		chunk[i] = int32(q)
		local[i] = int(r)
	}
	return chunk, local
}

//Compose is the inverse of Decompose
func Compose(size int, chunk ChunkPos, local LocalPos) GlobalPos {
	assertSize(size)
	s := int64(size)
	return GlobalPos{
		int64(chunk[0])*s + int64(local[0]),
		int64(chunk[1])*s + int64(local[1]),
	}
}

func divEuclid(a, b int64) (q, r int64) {
	q, r = a/b, a%b
	if r < 0 {
		q--
		r += b
	}
	return
}

func assertSize(size int) {
	if size <= 0 {
		panic(fmt.Sprintf("grid: cannot index into a grid or chunk of size %d", size))
	}
}
