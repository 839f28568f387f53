package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveIfExists(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	assert.NoError(t, RemoveIfExists(name))

	require.NoError(t, os.WriteFile(name, []byte("x"), 0600))
	assert.NoError(t, RemoveIfExists(name))
	_, err := Stat(name)
	assert.True(t, os.IsNotExist(err))
}

func TestTempFileRename(t *testing.T) {
	dir := t.TempDir()
	f, err := TempFile(dir, "tmp-")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	target := filepath.Join(dir, "target")
	require.NoError(t, Rename(f.Name(), target))
	_, err = Stat(target)
	assert.NoError(t, err)
}

func TestAdvise(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(name, []byte("some data"), 0600))

	f, err := Open(name)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	AdviseSequential(f)
	AdviseRandom(f)

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 5)
	require.NoError(t, err)
	assert.Equal(t, "data", string(buf[:n]))
}

func TestXattr(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(name, nil, 0600))

	v, err := GetXattr(name, "user.cgrep.test")
	require.NoError(t, err)
	assert.Nil(t, v)

	if err := SetXattr(name, "user.cgrep.test", []byte("value")); err != nil {
		t.Skipf("extended attributes not usable here: %v", err)
	}

	v, err = GetXattr(name, "user.cgrep.test")
	require.NoError(t, err)
	// tmpfs without user xattrs reports ENOTSUP, which reads back as nil
	if v != nil {
		assert.Equal(t, []byte("value"), v)
	}
}
