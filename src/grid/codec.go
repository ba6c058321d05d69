package grid

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

//ErrMalformed is returned when a decoded document does not describe a valid chunk or grid
var ErrMalformed = errors.New("grid: malformed document")

type chunkDoc[T any] struct {
	Size  int `yaml:"size"`
	Cells []T `yaml:"cells,flow"`
}

type chunkRecord[C any] struct {
	Pos   ChunkPos `yaml:"pos,flow"`
	Chunk C        `yaml:"chunk"`
}

type gridDoc[C any] struct {
	ChunkSize int              `yaml:"chunk_size"`
	Chunks    []chunkRecord[C] `yaml:"chunks"`
}

//MarshalYAML encodes the chunk as its size and the row-major cell sequence
func (c *Chunk[T]) MarshalYAML() (interface{}, error) {
	return chunkDoc[T]{Size: c.size, Cells: c.cells}, nil
}

func (c *Chunk[T]) UnmarshalYAML(value *yaml.Node) error {
	var doc chunkDoc[T]
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("decoding chunk: %w", err)
	}
	if err := checkCells(doc.Size, len(doc.Cells)); err != nil {
		return err
	}
	c.size, c.cells = doc.Size, doc.Cells
	return nil
}

//MarshalYAML encodes the sparse chunk with vacant cells as null
func (c *ChunkSparse[T]) MarshalYAML() (interface{}, error) {
	cells := make([]*T, len(c.values.cells))
	for i := range cells {
		if c.occupied.cells[i] {
			cells[i] = &c.values.cells[i]
		}
	}
	return chunkDoc[*T]{Size: c.values.size, Cells: cells}, nil
}

func (c *ChunkSparse[T]) UnmarshalYAML(value *yaml.Node) error {
	var doc chunkDoc[*T]
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("decoding sparse chunk: %w", err)
	}
	if err := checkCells(doc.Size, len(doc.Cells)); err != nil {
		return err
	}
	*c = *NewChunkSparse[T](doc.Size)
	for i, v := range doc.Cells {
		if v != nil {
			c.values.cells[i] = *v
			c.occupied.cells[i] = true
		}
	}
	return nil
}

//MarshalYAML encodes the grid as its chunk size and the list of chunks sorted by position
func (g *Grid[T]) MarshalYAML() (interface{}, error) {
	return gridDoc[*Chunk[T]]{ChunkSize: g.size, Chunks: sortedRecords(g.chunks.all(), g.chunks.len())}, nil
}

func (g *Grid[T]) UnmarshalYAML(value *yaml.Node) error {
	var doc gridDoc[*Chunk[T]]
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("decoding grid: %w", err)
	}
	chunks, err := collectRecords(doc, (*Chunk[T]).Size, g.chunks.hash)
	if err != nil {
		return err
	}
	g.size, g.chunks = doc.ChunkSize, chunks
	return nil
}

//MarshalYAML encodes the grid as its chunk size and the list of chunks sorted by position
func (g *SparseGrid[T]) MarshalYAML() (interface{}, error) {
	return gridDoc[*ChunkSparse[T]]{ChunkSize: g.size, Chunks: sortedRecords(g.chunks.all(), g.chunks.len())}, nil
}

func (g *SparseGrid[T]) UnmarshalYAML(value *yaml.Node) error {
	var doc gridDoc[*ChunkSparse[T]]
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("decoding sparse grid: %w", err)
	}
	chunks, err := collectRecords(doc, (*ChunkSparse[T]).Size, g.chunks.hash)
	if err != nil {
		return err
	}
	g.size, g.chunks = doc.ChunkSize, chunks
	return nil
}

func sortedRecords[C any](chunks iter.Seq2[ChunkPos, C], n int) []chunkRecord[C] {
	records := make([]chunkRecord[C], 0, n)
	for pos, c := range chunks {
		records = append(records, chunkRecord[C]{Pos: pos, Chunk: c})
	}
	slices.SortFunc(records, func(a, b chunkRecord[C]) int {
		return cmp.Or(cmp.Compare(a.Pos[1], b.Pos[1]), cmp.Compare(a.Pos[0], b.Pos[0]))
	})
	return records
}

//collectRecords validates the records and stores them in a table using hash
func collectRecords[C comparable](doc gridDoc[C], size func(C) int, hash Hasher) (chunkTable[C], error) {
	if doc.ChunkSize <= 0 {
		return chunkTable[C]{}, fmt.Errorf("%w: chunk size %d", ErrMalformed, doc.ChunkSize)
	}
	var zero C
	chunks := newChunkTable[C](hash)
	for _, r := range doc.Chunks {
		if r.Chunk == zero {
			return chunkTable[C]{}, fmt.Errorf("%w: chunk %v has no cells", ErrMalformed, r.Pos)
		}
		if s := size(r.Chunk); s != doc.ChunkSize {
			return chunkTable[C]{}, fmt.Errorf("%w: chunk %v has size %d, grid expects %d", ErrMalformed, r.Pos, s, doc.ChunkSize)
		}
		if _, dup := chunks.set(r.Pos, r.Chunk); dup {
			return chunkTable[C]{}, fmt.Errorf("%w: duplicate chunk %v", ErrMalformed, r.Pos)
		}
	}
	return chunks, nil
}

func checkCells(size, n int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size %d", ErrMalformed, size)
	}
	if n != size*size {
		return fmt.Errorf("%w: %d cells for a chunk of size %d", ErrMalformed, n, size)
	}
	return nil
}
