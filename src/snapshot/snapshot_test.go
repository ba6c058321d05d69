package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-billy.v4/memfs"
	"gopkg.in/src-d/go-billy.v4/util"

	"exlife/src/grid"
)

func TestSaveLoad(t *testing.T) {
	fs := memfs.New()
	g := grid.New[uint8](8)
	g.Insert(grid.GlobalPos{-1, -1}, 1)
	g.Insert(grid.GlobalPos{20, 3}, 2)
	g.Insert(grid.GlobalPos{0, 0}, 1)

	require.NoError(t, Save(fs, "saves/field.yaml", g))

	files, err := fs.ReadDir("saves")
	require.NoError(t, err)
	require.Len(t, files, 1, "the temporary file should be renamed")
	assert.Equal(t, "field.yaml", files[0].Name())

	back, err := Load(fs, "saves/field.yaml")
	require.NoError(t, err)
	assert.Equal(t, 8, back.ChunkSize())
	require.Equal(t, g.Len(), back.Len())
	for pos, v := range g.Cells() {
		got, ok := back.Get(pos)
		require.True(t, ok, "cell %v", pos)
		assert.Equal(t, v, got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	fs := memfs.New()
	g := grid.New[uint8](4)
	g.Insert(grid.GlobalPos{1, 1}, 1)
	require.NoError(t, Save(fs, "field.yaml", g))

	g = grid.New[uint8](4)
	require.NoError(t, Save(fs, "field.yaml", g))

	back, err := Load(fs, "field.yaml")
	require.NoError(t, err)
	assert.Equal(t, 0, back.Len())
}

func TestLoadErrors(t *testing.T) {
	fs := memfs.New()
	_, err := Load(fs, "missing.yaml")
	assert.Error(t, err)

	require.NoError(t, util.WriteFile(fs, "bad.yaml", []byte("chunk_size: 0\nchunks: []\n"), 0644))
	_, err = Load(fs, "bad.yaml")
	assert.ErrorIs(t, err, grid.ErrMalformed)
}
