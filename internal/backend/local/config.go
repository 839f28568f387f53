package local

import (
	"path/filepath"

	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/errors"
)

// DefaultIndex is the index file name used when none is configured.
const DefaultIndex = "index.dat"

// Config holds the locations of a container and its index.
type Config struct {
	Container string
	Index     string
}

// NewConfig returns a new config with default options applied.
func NewConfig(container string) Config {
	return Config{
		Container: container,
		Index:     DefaultIndex,
	}
}

// Validate checks that both paths are set and distinct.
func (cfg Config) Validate() error {
	if cfg.Container == "" {
		return errors.New("container path is empty")
	}
	if cfg.Index == "" {
		return errors.New("index path is empty")
	}
	if filepath.Clean(cfg.Container) == filepath.Clean(cfg.Index) {
		return errors.Errorf("container and index must be different files, both are %q", cfg.Container)
	}
	return nil
}

// ContainerHandle returns the handle of the container file.
func (cfg Config) ContainerHandle() backend.Handle {
	return backend.Handle{Type: backend.ContainerFile, Name: cfg.Container}
}

// IndexHandle returns the handle of the index file.
func (cfg Config) IndexHandle() backend.Handle {
	return backend.Handle{Type: backend.IndexFile, Name: cfg.Index}
}
