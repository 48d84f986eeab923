package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const fourGiB = 2 << 31

// Open returns the asset of the regular file at path.
func Open(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return NewFromFS(path, info)
}

func NewFromFS(path string, info fs.FileInfo) (Asset, error) {
	mode := info.Mode()
	if !mode.IsRegular() {
		return nil, errors.New("not a regular file")
	}

	if info.Size() > fourGiB {
		return nil, fmt.Errorf("%w: current size %d, maximum %d", ErrMaxSizeExceeded, info.Size(), fourGiB)
	}

	return &fsAsset{
		path: path,
		info: info,
	}, nil
}

type fsAsset struct {
	path string
	info fs.FileInfo
}

// Name implements Asset.
func (a *fsAsset) Name() string {
	return a.info.Name()
}

// Size implements Asset.
func (a *fsAsset) Size() int64 {
	return a.info.Size()
}

// ModTime implements Asset.
func (a *fsAsset) ModTime() time.Time {
	return a.info.ModTime()
}

// Open implements Asset.
func (a *fsAsset) Open() (io.ReadCloser, error) {
	return os.Open(a.path)
}

// MarshalZerologObject implements Asset.
func (a *fsAsset) MarshalZerologObject(e *zerolog.Event) {
	e.Str("path", a.path)
	e.Str("name", a.info.Name())
	e.Int64("size", a.info.Size())
}

// Path implements Asset.
func (a *fsAsset) Path() string {
	return a.path
}
