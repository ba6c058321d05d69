package grid

import (
	"encoding/binary"
	"hash/fnv"
	"iter"
	"maps"
	"slices"
)

//Hasher picks the bucket of a chunk position in the chunk table of a grid
type Hasher func(ChunkPos) uint64

//FNVHasher hashes chunk positions with FNV-1a.
//It is the same on every run, so a grid using it enumerates its chunks in a reproducible order.
func FNVHasher(pos ChunkPos) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(pos[0]))
	binary.LittleEndian.PutUint32(buf[4:], uint32(pos[1]))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

//Option configures a Grid or a SparseGrid
type Option func(*config)

type config struct {
	hash Hasher
}

//WithHasher stores the chunks in buckets chosen by h instead of the built-in map.
//Chunks are then enumerated in ascending hash order, insertion order within a bucket.
//A nil h keeps the built-in map.
func WithHasher(h Hasher) Option {
	return func(c *config) { c.hash = h }
}

func newConfig(opts []Option) config {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

type chunkSlot[C any] struct {
	pos   ChunkPos
	chunk C
}

//chunkTable maps chunk positions to chunks, through the built-in map unless a Hasher is set
type chunkTable[C any] struct {
	hash    Hasher
	native  map[ChunkPos]C
	buckets map[uint64][]chunkSlot[C]
	n       int
}

func newChunkTable[C any](hash Hasher) chunkTable[C] {
	if hash == nil {
		return chunkTable[C]{native: map[ChunkPos]C{}}
	}
	return chunkTable[C]{hash: hash, buckets: map[uint64][]chunkSlot[C]{}}
}

func (t *chunkTable[C]) get(pos ChunkPos) (C, bool) {
	if t.hash == nil {
		c, ok := t.native[pos]
		return c, ok
	}
	for _, s := range t.buckets[t.hash(pos)] {
		if s.pos == pos {
			return s.chunk, true
		}
	}
	var zero C
	return zero, false
}

func (t *chunkTable[C]) has(pos ChunkPos) bool {
	_, ok := t.get(pos)
	return ok
}

//set stores c at pos and returns the chunk it replaced
func (t *chunkTable[C]) set(pos ChunkPos, c C) (C, bool) {
	if t.hash == nil {
		prev, ok := t.native[pos]
		t.native[pos] = c
		return prev, ok
	}
	h := t.hash(pos)
	bucket := t.buckets[h]
	for i := range bucket {
		if bucket[i].pos == pos {
			prev := bucket[i].chunk
			bucket[i].chunk = c
			return prev, true
		}
	}
	t.buckets[h] = append(bucket, chunkSlot[C]{pos: pos, chunk: c})
	t.n++
	var zero C
	return zero, false
}

func (t *chunkTable[C]) remove(pos ChunkPos) (C, bool) {
	if t.hash == nil {
		c, ok := t.native[pos]
		delete(t.native, pos)
		return c, ok
	}
	h := t.hash(pos)
	bucket := t.buckets[h]
	for i, s := range bucket {
		if s.pos == pos {
			t.putBucket(h, slices.Delete(bucket, i, i+1))
			t.n--
			return s.chunk, true
		}
	}
	var zero C
	return zero, false
}

func (t *chunkTable[C]) putBucket(h uint64, bucket []chunkSlot[C]) {
	if len(bucket) == 0 {
		delete(t.buckets, h)
		return
	}
	t.buckets[h] = bucket
}

func (t *chunkTable[C]) len() int {
	if t.hash == nil {
		return len(t.native)
	}
	return t.n
}

func (t *chunkTable[C]) clear() {
	clear(t.native)
	clear(t.buckets)
	t.n = 0
}

//deleteFunc removes every chunk for which del returns true
func (t *chunkTable[C]) deleteFunc(del func(ChunkPos, C) bool) {
	if t.hash == nil {
		maps.DeleteFunc(t.native, del)
		return
	}
	for h, bucket := range t.buckets {
		n := len(bucket)
		bucket = slices.DeleteFunc(bucket, func(s chunkSlot[C]) bool { return del(s.pos, s.chunk) })
		t.n -= n - len(bucket)
		t.putBucket(h, bucket)
	}
}

func (t *chunkTable[C]) all() iter.Seq2[ChunkPos, C] {
	return func(yield func(ChunkPos, C) bool) {
		if t.hash == nil {
			for pos, c := range t.native {
				if !yield(pos, c) {
					return
				}
			}
			return
		}
		for _, h := range slices.Sorted(maps.Keys(t.buckets)) {
			for _, s := range t.buckets[h] {
				if !yield(s.pos, s.chunk) {
					return
				}
			}
		}
	}
}
