package backend

import "fmt"

// FileType is the kind of file a handle refers to.
type FileType uint8

const (
	ContainerFile FileType = 1 + iota
	IndexFile
	SourceFile
)

func (t FileType) String() string {
	s := "invalid"
	switch t {
	case ContainerFile:
		s = "container"
	case IndexFile:
		s = "index"
	case SourceFile:
		s = "source"
	}
	return s
}

// Handle names a file taking part in an operation.
type Handle struct {
	Type FileType
	Name string
}

func (h Handle) String() string {
	return fmt.Sprintf("<%s/%s>", h.Type, h.Name)
}
