package ziparchiver

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/fileutils"
)

var (
	ErrUnsafeEntryPath = errors.New("entry path escapes the destination")

	errSkippedSameFile = errors.New("skipped same file")
	errSkippedModified = errors.New("skipped modified file")
)

// ReadEntries lists the entries of the package at archivePath in archive order.
// Every entry is read to compute its hash.
func ReadEntries(ctx context.Context, archivePath string) ([]Entry, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	entries := make([]Entry, 0, len(reader.File))
	for _, f := range reader.File {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if f.FileInfo().IsDir() {
			continue
		}

		hash, err := hashZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{
			Path:           f.Name,
			Source:         path.Base(f.Name),
			Size:           int64(f.UncompressedSize64),
			CompressedSize: int64(f.CompressedSize64),
			Hash:           hash,
			Method:         f.Method,
			ModTime:        f.Modified,
		})
	}
	return entries, nil
}

// InstallResult counts what Install did with each entry.
type InstallResult struct {
	Installed int
	Identical int
	Modified  int
	Failed    int
}

func (r InstallResult) MarshalZerologObject(e *zerolog.Event) {
	e.Int("installed", r.Installed)
	e.Int("identical", r.Identical)
	e.Int("modified", r.Modified)
	e.Int("failed", r.Failed)
}

// Install extracts the package at archivePath below destDir, such as the root of
// a frontend installation. Files already present with the same content are left
// alone, files with different content are only replaced with WithInstallOverwrite.
func Install(ctx context.Context, archivePath string, destDir string, logger zerolog.Logger, opts ...InstallOption) (InstallResult, error) {
	o := installOptions{}
	for _, applyOpts := range opts {
		applyOpts(&o)
	}

	logger = logger.With().Str("package", archivePath).Str("dest", destDir).Logger()
	logger.Info().Msg("installing package")

	var result InstallResult
	startTime := time.Now()
	defer func() {
		if ctx.Err() != nil {
			logger.Info().Object("result", result).Msg("cancelled install")
		} else if result.Installed == 0 {
			logger.Info().Object("result", result).Msg("no files installed")
		} else {
			logger.Info().
				Object("result", result).
				Float64("seconds", time.Since(startTime).Seconds()).
				Msg("done installing package")
		}
	}()

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return result, err
	}
	defer reader.Close()

	for _, f := range reader.File {
		if ctx.Err() != nil {
			return result, nil
		}
		if f.FileInfo().IsDir() {
			continue
		}

		fileLogger := logger.With().Str("entry", f.Name).Logger()
		target, err := installPath(destDir, f.Name)
		if err != nil {
			fileLogger.Warn().Err(err).Msg("could not install file")
			result.Failed++
			continue
		}

		size, err := installFile(f, target, fileLogger, o.overwrite, o.dryRun)
		switch {
		case errors.Is(err, errSkippedSameFile):
			fileLogger.Info().Msg("file already present, skipping")
			result.Identical++
		case errors.Is(err, errSkippedModified):
			fileLogger.Info().Msg("found existing file. The file has been modified, skipping")
			result.Modified++
		case err != nil:
			fileLogger.Warn().Err(err).Msg("could not install file")
			result.Failed++
		default:
			fileLogger.Debug().Int64("bytes", size).Msg("installed file")
			result.Installed++
		}
	}

	return result, nil
}

func installPath(destDir string, name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntryPath, name)
	}
	return filepath.Join(destDir, local), nil
}

func installFile(f *zip.File, target string, logger zerolog.Logger, overwrite bool, dryRun bool) (int64, error) {
	info, err := os.Stat(target)
	if err == nil {
		if info.IsDir() {
			return 0, fmt.Errorf("a directory exists at %s", target)
		}
		logger.Debug().Str("path", target).Msg("found existing file")

		installedHash, err := fileutils.ComputeFileHash(target)
		if err != nil {
			return 0, err
		}
		packagedHash, err := hashZipFile(f)
		if err != nil {
			return 0, err
		}
		if installedHash == packagedHash {
			return 0, errSkippedSameFile
		}
		if !overwrite {
			return 0, errSkippedModified
		}

		logger.Info().Str("path", target).Msg("found existing file, overwriting")
		if dryRun {
			return 0, nil
		}
		return extractFile(f, target)
	} else if os.IsNotExist(err) {
		logger.Debug().Str("path", target).Msg("file not found, creating")
		if dryRun {
			return 0, nil
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return 0, err
		}
		return extractFile(f, target)
	} else {
		return 0, err
	}
}

func extractFile(f *zip.File, target string) (n int64, err error) {
	r, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer r.Close()

	w, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	n, err = io.Copy(w, r)
	if err != nil {
		return n, err
	}
	if !f.Modified.IsZero() {
		_ = os.Chtimes(target, f.Modified, f.Modified)
	}
	return n, nil
}

func hashZipFile(f *zip.File) (uint64, error) {
	r, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return fileutils.ComputeHash(r)
}
