package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stupid-simple/pinpack/settings"
)

func TestCompressionLevel(t *testing.T) {
	tests := []struct {
		level settings.CompressionLevel
		store bool
		flate int
	}{
		{settings.CompressionNone, true, 0},
		{settings.CompressionLow, true, 0},
		{settings.CompressionFast, false, 1},
		{settings.CompressionNormal, false, 6},
		{settings.CompressionMaximum, false, 9},
		{"", false, 6},
		{"turbo", false, 6},
	}
	for _, tc := range tests {
		t.Run(string(tc.level), func(t *testing.T) {
			assert.Equal(t, tc.store, tc.level.Store())
			assert.Equal(t, tc.flate, tc.level.DeflateLevel())
		})
	}
}

func TestWithFileSettings_DoesNotMutate(t *testing.T) {
	s := settings.Defaults()
	before := s.Rule(settings.CategoryCover)

	updated := s.WithFileSettings(settings.CategoryCover, settings.FileLocationPatch{
		Location: ptr(""),
	})

	assert.Equal(t, before, s.Rule(settings.CategoryCover))
	assert.Empty(t, updated.Rule(settings.CategoryCover).Location)
	assert.Equal(t, before.UseTableName, updated.Rule(settings.CategoryCover).UseTableName)
}

func TestWithTableFileSettings(t *testing.T) {
	s := settings.Defaults()
	updated := s.WithTableFileSettings(settings.FileLocationPatch{UseTableName: ptr(true), Suffix: ptr("_x")})

	assert.False(t, s.TableFileSettings.UseTableName)
	assert.True(t, updated.TableFileSettings.UseTableName)
	assert.Equal(t, "_x", updated.TableFileSettings.Suffix)
	assert.Equal(t, s.TableFileSettings.Location, updated.TableFileSettings.Location)
}

func TestParseCategory(t *testing.T) {
	c, err := settings.ParseCategory("tableVideo")
	assert.NoError(t, err)
	assert.Equal(t, settings.CategoryTableVideo, c)

	c, err = settings.ParseCategory("custom")
	assert.NoError(t, err)
	assert.Equal(t, settings.CategoryCustom, c)

	_, err = settings.ParseCategory("wheel")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	store := settings.NewStore(settings.Defaults())

	got := store.Get()
	got.FileSettings[settings.CategoryCover] = settings.FileLocationSettings{}
	assert.NotEmpty(t, store.Get().Rule(settings.CategoryCover).Location, "Get must return a copy")

	updated := store.Update(func(s settings.PackageSettings) settings.PackageSettings {
		s.ConvertImages = true
		return s
	})
	assert.True(t, updated.ConvertImages)
	assert.True(t, store.Get().ConvertImages)

	store.Replace(settings.PackageSettings{})
	assert.False(t, store.Get().ConvertImages)
}
