package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFatal(t *testing.T) {
	for _, v := range []struct {
		err      error
		expected bool
	}{
		{Fatal("broken"), true},
		{Fatalf("broken %d", 42), true},
		{Wrap(Fatal("broken"), "wrapped"), true},
		{New("error"), false},
		{nil, false},
	} {
		assert.Equal(t, v.expected, IsFatal(v.err), "IsFatal for %q", v.err)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrapf(io.ErrUnexpectedEOF, "read %v", "container")
	require.Error(t, err)
	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, io.ErrUnexpectedEOF, Cause(err))
	assert.Contains(t, err.Error(), "read container")
}
