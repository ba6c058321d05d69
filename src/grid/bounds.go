package grid

import "iter"

//chunksBounds folds the chunk positions into a min/max box
func chunksBounds[C any](chunks iter.Seq2[ChunkPos, C]) (min, max ChunkPos, ok bool) {
	for pos := range chunks {
		if !ok {
			min, max, ok = pos, pos, true
			continue
		}
		for i := range pos {
			if pos[i] < min[i] {
				min[i] = pos[i]
			}
			if pos[i] > max[i] {
				max[i] = pos[i]
			}
		}
	}
	return
}

//cellBounds widens a chunk box to the first and last cell it covers
func cellBounds(size int, min, max ChunkPos) (GlobalPos, GlobalPos) {
	return Compose(size, min, LocalPos{0, 0}), Compose(size, max, LocalPos{size - 1, size - 1})
}
