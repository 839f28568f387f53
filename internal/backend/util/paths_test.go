package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveModesFromFileInfo(t *testing.T) {
	dir := t.TempDir()
	for _, test := range []struct {
		mode os.FileMode
		want Modes
	}{
		{0600, Modes{Dir: 0700, File: 0600}},
		{0640, Modes{Dir: 0750, File: 0640}},
		{0644, Modes{Dir: 0755, File: 0644}},
		{0604, Modes{Dir: 0705, File: 0604}},
	} {
		name := filepath.Join(dir, test.mode.String())
		require.NoError(t, os.WriteFile(name, nil, 0600))
		require.NoError(t, os.Chmod(name, test.mode))

		assert.Equal(t, test.want, DeriveModesFromFileInfo(os.Stat(name)), "mode %v", test.mode)
	}

	assert.Equal(t, DefaultModes, DeriveModesFromFileInfo(nil, errors.New("stat failed")))
}
