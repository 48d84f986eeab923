package ziparchiver_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/fileutils"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/ziparchiver"
)

func writeTestPackage(t *testing.T) (string, *ziparchiver.Result) {
	files := []asset.AdditionalFile{
		additional("cover.png", settings.CategoryCover, "cover content"),
		additional("theme.mp3", settings.CategoryMusic, "music content"),
	}
	result, err := ziparchiver.GenerateToDir(context.Background(), t.TempDir(), tableFile(t, "T.vpx", "table content"), files, testSettings(), zerolog.Nop())
	require.NoError(t, err)
	return result.Path, result
}

func TestReadEntries(t *testing.T) {
	path, result := writeTestPackage(t)

	entries, err := ziparchiver.ReadEntries(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, entries, len(result.Entries))
	for i, e := range entries {
		assert.Equal(t, result.Entries[i].Path, e.Path)
		assert.Equal(t, result.Entries[i].Hash, e.Hash)
		assert.Equal(t, result.Entries[i].Size, e.Size)
		assert.Equal(t, result.Entries[i].CompressedSize, e.CompressedSize)
		assert.Equal(t, result.Entries[i].Method, e.Method)
	}
	assert.Equal(t, "T.vpx", entries[0].Source)
}

func TestReadEntries_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

	_, err := ziparchiver.ReadEntries(context.Background(), path)
	assert.Error(t, err)
}

func TestInstall(t *testing.T) {
	path, result := writeTestPackage(t)
	dest := t.TempDir()

	installed, err := ziparchiver.Install(context.Background(), path, dest, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ziparchiver.InstallResult{Installed: 3}, installed)

	for _, e := range result.Entries {
		hash, err := fileutils.ComputeFileHash(filepath.Join(dest, filepath.FromSlash(e.Path)))
		require.NoError(t, err)
		assert.Equal(t, e.Hash, hash, e.Path)
	}

	// Installing again finds every file in place.
	installed, err = ziparchiver.Install(context.Background(), path, dest, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ziparchiver.InstallResult{Identical: 3}, installed)
}

func TestInstall_ModifiedFiles(t *testing.T) {
	path, _ := writeTestPackage(t)
	dest := t.TempDir()

	tablePath := filepath.Join(dest, "Collection", "Visual Pinball X", "Tables", "T.vpx")
	require.NoError(t, os.MkdirAll(filepath.Dir(tablePath), 0o755))
	require.NoError(t, os.WriteFile(tablePath, []byte("locally edited"), 0o600))

	installed, err := ziparchiver.Install(context.Background(), path, dest, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ziparchiver.InstallResult{Installed: 2, Modified: 1}, installed)

	content, err := os.ReadFile(tablePath)
	require.NoError(t, err)
	assert.Equal(t, "locally edited", string(content))

	installed, err = ziparchiver.Install(context.Background(), path, dest, zerolog.Nop(),
		ziparchiver.WithInstallOverwrite(true),
	)
	require.NoError(t, err)
	assert.Equal(t, ziparchiver.InstallResult{Installed: 1, Identical: 2}, installed)

	content, err = os.ReadFile(tablePath)
	require.NoError(t, err)
	assert.Equal(t, "table content", string(content))
}

func TestInstall_DryRun(t *testing.T) {
	path, _ := writeTestPackage(t)
	dest := t.TempDir()

	installed, err := ziparchiver.Install(context.Background(), path, dest, zerolog.Nop(),
		ziparchiver.WithInstallDryRun(true),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, installed.Installed)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInstall_RejectsEscapingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for _, name := range []string{"../outside.txt", "inside.txt"} {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(t.TempDir(), "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	installed, err := ziparchiver.Install(context.Background(), path, dest, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ziparchiver.InstallResult{Installed: 1, Failed: 1}, installed)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "outside.txt"))
	assert.FileExists(t, filepath.Join(dest, "inside.txt"))
}
