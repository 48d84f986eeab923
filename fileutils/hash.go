package fileutils

import (
	"errors"
	"io"
	"os"

	"github.com/cespare/xxhash"
)

// CopyHashed copies r into w and returns the number of bytes copied and their
// xxhash64. Package entries and installed files are compared by this hash.
func CopyHashed(w io.Writer, r io.Reader) (int64, uint64, error) {
	hash := xxhash.New()
	n, err := io.Copy(io.MultiWriter(w, hash), r)
	if err != nil {
		return n, 0, err
	}
	return n, hash.Sum64(), nil
}

// ComputeHash reads r to the end and returns its hash. It does not close r.
func ComputeHash(r io.Reader) (uint64, error) {
	_, hash, err := CopyHashed(io.Discard, r)
	return hash, err
}

func ComputeFileHash(path string) (hash uint64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	return ComputeHash(file)
}
