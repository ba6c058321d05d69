package grid

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelChunksVisitsEveryChunk(t *testing.T) {
	g := New[int](4)
	for x := int64(-20); x < 20; x += 4 {
		g.Insert(GlobalPos{x, x}, 1)
	}
	var visited atomic.Int32
	ParallelChunks(g, 3, func(_ ChunkPos, c *Chunk[int]) {
		visited.Add(1)
		c.Fill(func(LocalPos) int { return 2 })
	})
	assert.Equal(t, int32(g.Len()), visited.Load())
	for v := range g.All() {
		assert.Equal(t, 2, v)
	}
}

func TestFillParallelMatchesFill(t *testing.T) {
	f := func(p LocalPos) int { return p[0]*100 + p[1] }
	want := InitChunk(16, f)
	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		got := NewChunk[int](16)
		got.FillParallel(workers, f)
		assert.Equal(t, want.Values(), got.Values(), "workers %d", workers)
	}
}
