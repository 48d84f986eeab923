package settings_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stupid-simple/pinpack/settings"
)

func TestExportImport_RoundTrip(t *testing.T) {
	s := settings.Defaults()
	s.ConvertImages = true
	s.CompressionLevel = settings.CompressionMaximum
	s.ImageCompression = settings.MediaCompressionMedium
	s.IncludeTableFile = false
	s = s.WithFileSettings(settings.CategoryMusic, settings.FileLocationPatch{
		Prefix: ptr("pre_"),
		Suffix: ptr("_suf"),
	})

	buf := &bytes.Buffer{}
	require.NoError(t, settings.ExportJSON(buf, s))

	imported, err := settings.ImportJSON(buf)
	require.NoError(t, err)

	expected := s.Clone()
	expected.BaseDirectory = ""
	expected.MediaFolder = ""
	assert.Equal(t, expected, imported)
}

func TestExport_Shape(t *testing.T) {
	raw, err := settings.MarshalExport(settings.Defaults())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "Custom", doc["templateName"])
	assert.NotContains(t, doc, "baseDirectory")
	assert.NotContains(t, doc, "mediaFolder")
	assert.NotContains(t, doc, "tableFileSettings")

	fileSettings, ok := doc["fileSettings"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fileSettings, "tableFileSettings")
	for _, c := range settings.Categories() {
		assert.Contains(t, fileSettings, string(c))
	}
}

func TestImport_MissingFileSettings(t *testing.T) {
	for name, doc := range map[string]string{
		"absent":   `{"convertImages": true}`,
		"null":     `{"fileSettings": null}`,
		"array":    `{"fileSettings": []}`,
		"bad json": `{"fileSettings": {`,
		"not obj":  `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := settings.ImportJSON(strings.NewReader(doc))
			assert.True(t, errors.Is(err, settings.ErrInvalidSettings), "got %v", err)
		})
	}
}

func TestImport_FlatShapeReplacesFileSettings(t *testing.T) {
	doc := `{
		"convertImages": true,
		"fileSettings": {
			"cover": {"useTableName": false, "prefix": "a", "suffix": "b", "location": "Art"}
		}
	}`

	s, err := settings.ImportJSON(strings.NewReader(doc))
	require.NoError(t, err)

	assert.True(t, s.ConvertImages)
	assert.True(t, s.PreserveExtensions)
	assert.Equal(t, settings.CompressionNormal, s.CompressionLevel)
	assert.Equal(t, settings.FileLocationSettings{
		UseTableName: true,
		Location:     `Collection\Visual Pinball X\Tables`,
	}, s.TableFileSettings)
	assert.Equal(t, settings.FileLocationSettings{Prefix: "a", Suffix: "b", Location: "Art"}, s.Rule(settings.CategoryCover))
	for _, c := range settings.Categories() {
		assert.Contains(t, s.FileSettings, c)
	}
	assert.Empty(t, s.Rule(settings.CategoryMusic).Location)
	assert.Empty(t, s.Rule(settings.CategoryTableVideo).Location)
}

func TestImport_FlatShapeTableRuleReplacedWhole(t *testing.T) {
	doc := `{
		"tableFileSettings": {"location": "T"},
		"fileSettings": {"music": {"useTableName": true, "location": "M"}}
	}`

	s, err := settings.ImportJSON(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, settings.FileLocationSettings{Location: "T"}, s.TableFileSettings)
	assert.Equal(t, "M", s.Rule(settings.CategoryMusic).Location)
	assert.Empty(t, s.Rule(settings.CategoryCover).Location)
}

func TestImport_NestedShapeFillsMissingCategories(t *testing.T) {
	doc := `{
		"templateName": "Mine",
		"compressionLevel": "fast",
		"fileSettings": {
			"tableFileSettings": {"useTableName": true, "prefix": "", "suffix": "", "location": "T"},
			"cover": {"useTableName": true, "prefix": "", "suffix": "", "location": "C"}
		}
	}`

	s, err := settings.ImportJSON(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "T", s.TableFileSettings.Location)
	assert.True(t, s.IncludeTableFile)
	assert.Equal(t, settings.CompressionFast, s.CompressionLevel)
	assert.Equal(t, "C", s.Rule(settings.CategoryCover).Location)
	assert.NotContains(t, s.FileSettings, settings.Category("tableFileSettings"))
	for _, c := range settings.Categories() {
		assert.Contains(t, s.FileSettings, c)
	}
	assert.Empty(t, s.Rule(settings.CategoryMusic).Location)
}

func ptr[T any](v T) *T {
	return &v
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cabinet.json")
	s := settings.Defaults()
	s.ConvertImages = true
	raw, err := settings.MarshalExport(s)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	loaded, err := settings.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.ConvertImages)

	_, err = settings.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
