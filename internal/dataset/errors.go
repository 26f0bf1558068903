package dataset

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates a recognized but unimplemented format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// FileLoadError indicates a dataset could not be read or parsed.
type FileLoadError struct {
	Path string
	Err  error
}

func (e *FileLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *FileLoadError) Unwrap() error { return e.Err }

// FileEmptyError indicates the file contained no usable rows.
type FileEmptyError struct {
	Path string
}

func (e *FileEmptyError) Error() string {
	return fmt.Sprintf("dataset %s is empty", e.Path)
}
