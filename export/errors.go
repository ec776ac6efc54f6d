package export

import (
	"errors"
	"fmt"
)

var (
	// ErrExport matches every export failure via errors.Is.
	ErrExport = errors.New("export failed")

	ErrEmptyPath       = errors.New("empty destination path")
	ErrEmptyFilename   = errors.New("empty output filename")
	ErrInvalidFilename = errors.New("output filename must not contain a directory")
)

// ExportError reports an I/O failure while producing the results document.
type ExportError struct {
	Op   string // resolve, mkdir, create, write, sync, close, chmod, rename
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Is(target error) bool {
	return target == ErrExport
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
