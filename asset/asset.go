package asset

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrMaxSizeExceeded      = errors.New("file too large")
	ErrUnsupportedTableType = errors.New("unsupported table file type")
	ErrUnsupportedFileType  = errors.New("unsupported file type for category")
	ErrFileNotFound         = errors.New("file not found")
)

// Asset is the content of one input file.
type Asset interface {
	zerolog.LogObjectMarshaler
	Path() string
	Name() string // base name of the file
	Size() int64  // length in bytes
	ModTime() time.Time
	Open() (io.ReadCloser, error)
}
