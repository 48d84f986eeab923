package packagejob_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/packagejob"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/ziparchiver"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func entryPaths(entries []ziparchiver.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

func setupTestDB(t *testing.T) *database.Database {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(database.Models()...))

	return &database.Database{
		Lock:   sync.Mutex{},
		Cli:    gormDB,
		Logger: zerolog.Nop(),
	}
}

func TestBuild(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "packages")
	db := setupTestDB(t)

	params := packagejob.Params{
		TablePath: writeFile(t, src, "Attack.vpx", "table"),
		Inputs: []packagejob.Input{
			{Category: settings.CategoryCover, Path: writeFile(t, src, "front.png", "cover")},
			{Category: settings.CategoryCustom, Path: writeFile(t, src, "readme.txt", "notes"), Location: `Docs`},
		},
		Settings:  settings.Defaults(),
		OutputDir: out,
		DB:        db,
		Logger:    zerolog.Nop(),
	}

	var progress []float64
	outcome, err := packagejob.Build(context.Background(), params,
		packagejob.WithProgress(func(percent float64) { progress = append(progress, percent) }),
	)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "Attack_Package.zip"), outcome.Path)
	assert.FileExists(t, outcome.Path)
	assert.Empty(t, outcome.URL)
	assert.Equal(t, []string{
		"Collection/Visual Pinball X/Tables/Attack.vpx",
		"Collection/Visual Pinball X/media/covers/Attack.png",
		"Docs/readme.txt",
	}, entryPaths(outcome.Entries))
	require.NotEmpty(t, progress)
	assert.Equal(t, 100.0, progress[len(progress)-1])

	packages := slices.Collect(db.FindPackages(context.Background()))
	require.Len(t, packages, 1)
	assert.Equal(t, outcome.Path, packages[0].Path)
	assert.Equal(t, 3, packages[0].EntryCount)
}

func TestBuild_TableNameOverride(t *testing.T) {
	src := t.TempDir()
	params := packagejob.Params{
		TablePath: writeFile(t, src, "attack_v1.2.vpx", "table"),
		TableName: "Attack From Mars",
		Inputs: []packagejob.Input{
			{Category: settings.CategoryCover, Path: writeFile(t, src, "front.png", "cover")},
		},
		Settings:  settings.Defaults(),
		OutputDir: t.TempDir(),
		Logger:    zerolog.Nop(),
	}

	outcome, err := packagejob.Build(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "Attack From Mars", outcome.TableName)
	assert.Equal(t, "Attack_From_Mars_Package.zip", filepath.Base(outcome.Path))
	assert.Equal(t, "Collection/Visual Pinball X/Tables/attack_v1.2.vpx", outcome.Entries[0].Path)
	assert.Equal(t, "Collection/Visual Pinball X/media/covers/Attack_From_Mars.png", outcome.Entries[1].Path)
}

func TestBuild_DryRun(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "missing")
	db := setupTestDB(t)

	params := packagejob.Params{
		TablePath: writeFile(t, src, "T.vpx", "table"),
		Settings:  settings.Defaults(),
		OutputDir: out,
		DB:        db,
		Logger:    zerolog.Nop(),
	}

	outcome, err := packagejob.Build(context.Background(), params, packagejob.WithDryRun(true))
	require.NoError(t, err)

	assert.Empty(t, outcome.Path)
	assert.Len(t, outcome.Entries, 1)
	assert.NoDirExists(t, out)
	assert.Empty(t, slices.Collect(db.FindPackages(context.Background())))
}

func TestBuild_Overwrite(t *testing.T) {
	src := t.TempDir()
	params := packagejob.Params{
		TablePath: writeFile(t, src, "T.vpx", "table"),
		Settings:  settings.Defaults(),
		OutputDir: t.TempDir(),
		Logger:    zerolog.Nop(),
	}

	_, err := packagejob.Build(context.Background(), params)
	require.NoError(t, err)

	_, err = packagejob.Build(context.Background(), params)
	assert.Error(t, err)

	_, err = packagejob.Build(context.Background(), params, packagejob.WithOverwrite(true))
	assert.NoError(t, err)
}

func TestBuild_StorePatterns(t *testing.T) {
	src := t.TempDir()
	params := packagejob.Params{
		TablePath: writeFile(t, src, "T.vpx", strings.Repeat("table ", 100)),
		Inputs: []packagejob.Input{
			{Category: settings.CategoryScripts, Path: writeFile(t, src, "T.vbs", strings.Repeat("script ", 100))},
		},
		Settings:  settings.Defaults(),
		OutputDir: t.TempDir(),
		Logger:    zerolog.Nop(),
	}

	outcome, err := packagejob.Build(context.Background(), params, packagejob.WithStorePatterns([]string{"*.vbs"}))
	require.NoError(t, err)

	require.Len(t, outcome.Entries, 2)
	assert.False(t, outcome.Entries[0].Stored())
	assert.True(t, outcome.Entries[1].Stored())
}

func TestBuild_InvalidInputs(t *testing.T) {
	src := t.TempDir()
	tablePath := writeFile(t, src, "T.vpx", "table")

	t.Run("unsupported table", func(t *testing.T) {
		_, err := packagejob.Build(context.Background(), packagejob.Params{
			TablePath: writeFile(t, src, "T.zip", "zip"),
			Settings:  settings.Defaults(),
			OutputDir: t.TempDir(),
			Logger:    zerolog.Nop(),
		})
		assert.ErrorIs(t, err, asset.ErrUnsupportedTableType)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := packagejob.Build(context.Background(), packagejob.Params{
			TablePath: filepath.Join(src, "nope.vpx"),
			Settings:  settings.Defaults(),
			OutputDir: t.TempDir(),
			Logger:    zerolog.Nop(),
		})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("every bad input is reported", func(t *testing.T) {
		out := t.TempDir()
		_, err := packagejob.Build(context.Background(), packagejob.Params{
			TablePath: tablePath,
			Inputs: []packagejob.Input{
				{Category: settings.CategoryCover, Path: filepath.Join(src, "missing.png")},
				{Category: settings.CategoryMusic, Path: writeFile(t, src, "big.mp3", "0123456789")},
			},
			Settings:  settings.Defaults(),
			OutputDir: out,
			Logger:    zerolog.Nop(),
		}, packagejob.WithMaxSize(8))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.ErrorIs(t, err, asset.ErrMaxSizeExceeded)

		entries, err := os.ReadDir(out)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestLoadWorkingSet_UnexpectedTypeIsKept(t *testing.T) {
	src := t.TempDir()
	ws, err := packagejob.LoadWorkingSet(packagejob.Params{
		TablePath: writeFile(t, src, "T.vpx", "table"),
		Inputs: []packagejob.Input{
			{Category: settings.CategoryCover, Path: writeFile(t, src, "cover.gif", "gif")},
		},
	}, 0, zerolog.Nop())
	require.NoError(t, err)

	files := ws.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "cover.gif", files[0].OriginalName)
}
