package fileutils

import (
	"errors"
	"io/fs"
	"os"
)

// Exists reports whether something exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
