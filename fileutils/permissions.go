package fileutils

import (
	"fmt"
	"os"
)

// Returns nil if dirPath is a directory and is writable.
func VerifyWritable(dirPath string) error {
	fil, err := os.CreateTemp(dirPath, ".probe-")
	if err != nil {
		return err
	}
	err = fil.Close()
	if err != nil {
		return err
	}
	err = os.Remove(fil.Name())
	if err != nil {
		return err
	}
	return nil
}

// EnsureOutputDir creates dirPath when missing and checks that packages can be written to it.
func EnsureOutputDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := VerifyWritable(dirPath); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	return nil
}
