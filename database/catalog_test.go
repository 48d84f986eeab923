package database_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/ziparchiver"
)

func testPackage(path string, table string, sizes ...int64) *ziparchiver.Result {
	pkg := &ziparchiver.Result{
		Path:      path,
		TableName: table,
		GameType:  pathbuilder.GameTypeVPX,
	}
	for i, size := range sizes {
		e := ziparchiver.Entry{
			Path:           table + "/file" + string(rune('a'+i)),
			Source:         "file",
			Size:           size,
			CompressedSize: size / 2,
			Hash:           uint64(1000 + i),
			ModTime:        time.Now(),
		}
		if i == 0 {
			e.Table = true
		} else {
			e.Category = settings.CategoryCover
		}
		pkg.Entries = append(pkg.Entries, e)
	}
	return pkg
}

func TestDatabase_RegisterPackage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RegisterPackage(ctx, testPackage("out/T_Package.zip", "T", 100, 200)))

	entries, err := db.FindEntries(ctx, "out/T_Package.zip")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "T/filea", entries[0].Path)
	assert.Equal(t, int64(1000), entries[0].Hash)
	assert.Equal(t, string(settings.CategoryCover), entries[1].Category)

	packages := slices.Collect(db.FindPackages(ctx))
	require.Len(t, packages, 1)
	assert.Equal(t, database.PackageSummary{
		Path:           "out/T_Package.zip",
		TableName:      "T",
		GameType:       "vpx",
		CreatedAt:      packages[0].CreatedAt,
		Size:           300,
		CompressedSize: 150,
		EntryCount:     2,
	}, packages[0])
}

func TestDatabase_RegisterPackage_Replaces(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RegisterPackage(ctx, testPackage("out/T_Package.zip", "T", 100, 200, 300)))
	require.NoError(t, db.RegisterPackage(ctx, testPackage("out/T_Package.zip", "T", 50)))

	entries, err := db.FindEntries(ctx, "out/T_Package.zip")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	packages := slices.Collect(db.FindPackages(ctx))
	require.Len(t, packages, 1)
	assert.Equal(t, int64(50), packages[0].Size)
}

func TestDatabase_RegisterPackage_DryRun(t *testing.T) {
	db := setupTestDB(t)
	db.DryRun = true
	ctx := context.Background()

	require.NoError(t, db.RegisterPackage(ctx, testPackage("out/T_Package.zip", "T", 100)))
	assert.Empty(t, slices.Collect(db.FindPackages(ctx)))
}

func TestDatabase_FindPackages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RegisterPackage(ctx, testPackage("a.zip", "A", 3000)))
	require.NoError(t, db.RegisterPackage(ctx, testPackage("b.zip", "B", 1000)))
	require.NoError(t, db.RegisterPackage(ctx, testPackage("c.zip", "A", 2000)))

	bySize := slices.Collect(db.FindPackages(ctx, database.WithFindPackagesOrderBy(database.FindPackagesOrderBySize)))
	require.Len(t, bySize, 3)
	assert.Equal(t, []string{"b.zip", "c.zip", "a.zip"}, []string{bySize[0].Path, bySize[1].Path, bySize[2].Path})

	limited := slices.Collect(db.FindPackages(ctx, database.WithFindPackagesLimit(2)))
	assert.Len(t, limited, 2)

	tableA := slices.Collect(db.FindPackages(ctx, database.WithFindPackagesTableName("A")))
	require.Len(t, tableA, 2)
	for _, p := range tableA {
		assert.Equal(t, "A", p.TableName)
	}
}

func TestDatabase_ForgetPackages(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RegisterPackage(ctx, testPackage("a.zip", "A", 1, 2)))
	require.NoError(t, db.RegisterPackage(ctx, testPackage("b.zip", "B", 3)))

	require.NoError(t, db.ForgetPackages(ctx, []string{"a.zip"}))

	packages := slices.Collect(db.FindPackages(ctx))
	require.Len(t, packages, 1)
	assert.Equal(t, "b.zip", packages[0].Path)

	entries, err := db.FindEntries(ctx, "a.zip")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, db.ForgetPackages(ctx, nil))
}
