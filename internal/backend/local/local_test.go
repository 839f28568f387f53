package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skyline93/cgrep/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommit(t *testing.T) {
	dir := t.TempDir()
	h := backend.Handle{Type: backend.ContainerFile, Name: filepath.Join(dir, "data.cz")}

	f, err := Create(h, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte("payload"))
	require.NoError(t, err)

	_, err = os.Stat(h.Name)
	assert.True(t, os.IsNotExist(err), "file must not appear before commit")

	require.NoError(t, f.Commit())

	data, err := os.ReadFile(h.Name)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	rd, err := Open(h)
	require.NoError(t, err)
	require.NoError(t, rd.Close())
}

func TestCreateReplaces(t *testing.T) {
	h := backend.Handle{Type: backend.IndexFile, Name: filepath.Join(t.TempDir(), "index.dat")}
	require.NoError(t, os.WriteFile(h.Name, []byte("a much longer old index"), 0600))

	f, err := Create(h, 0600)
	require.NoError(t, err)
	_, err = f.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, f.Commit())

	data, err := os.ReadFile(h.Name)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestAbort(t *testing.T) {
	dir := t.TempDir()
	h := backend.Handle{Type: backend.ContainerFile, Name: filepath.Join(dir, "data.cz")}

	f, err := Create(h, 0600)
	require.NoError(t, err)
	require.NoError(t, f.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(backend.Handle{Type: backend.IndexFile, Name: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig(t *testing.T) {
	cfg := NewConfig("data.cz")
	assert.Equal(t, DefaultIndex, cfg.Index)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, backend.ContainerFile, cfg.ContainerHandle().Type)
	assert.Equal(t, backend.IndexFile, cfg.IndexHandle().Type)

	assert.Error(t, Config{Index: "i"}.Validate())
	assert.Error(t, Config{Container: "c"}.Validate())
	assert.Error(t, Config{Container: "./same", Index: "same"}.Validate())
}
