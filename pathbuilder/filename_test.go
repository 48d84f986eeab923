package pathbuilder_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"My Table!":           "My_Table!",
		"A/B":                 "A_B",
		`a<b>c:d"e\f|g?h*i`:   "a_b_c_d_e_f_g_h_i",
		"many   spaces\there": "many_spaces_here",
		"a__b / c":            "a_b_c",
		"plain":               "plain",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, pathbuilder.SanitizeFileName(in), "input %q", in)
	}
}

func TestRemoveExtension(t *testing.T) {
	tests := map[string]string{
		"table.vpx":      "table",
		"archive.tar.gz": "archive.tar",
		"noext":          "noext",
		"dir.d/noext":    "dir.d/noext",
		".hidden":        "",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, pathbuilder.RemoveExtension(in), "input %q", in)
	}
}

func TestResolveFileName_TableName(t *testing.T) {
	rule := settings.FileLocationSettings{UseTableName: true, Prefix: "pre_", Suffix: "_suf", Location: "x"}

	got := pathbuilder.ResolveFileName("music.mp3", "My Table!", rule, settings.CategoryMusic, false)
	assert.Equal(t, "pre_My_Table!_suf.mp3", got)

	got = pathbuilder.ResolveFileName("music.mp3", "A/B", rule, settings.CategoryMusic, false)
	assert.Equal(t, "pre_A_B_suf.mp3", got)
	assert.False(t, strings.Contains(got, "/"))
}

func TestResolveFileName_OriginalName(t *testing.T) {
	rule := settings.FileLocationSettings{Prefix: "x-", Suffix: "-y"}

	assert.Equal(t, "x-archive.tar-y.gz", pathbuilder.ResolveFileName("archive.tar.gz", "T", rule, settings.CategoryScripts, false))
	assert.Equal(t, "x-README-y.", pathbuilder.ResolveFileName("README", "T", rule, settings.CategoryScripts, false))
}

func TestResolveFileName_PNGConversion(t *testing.T) {
	rule := settings.FileLocationSettings{UseTableName: true}

	assert.Equal(t, "Tbl.png", pathbuilder.ResolveFileName("photo.JPG", "Tbl", rule, settings.CategoryCover, true))
	assert.Equal(t, "Tbl.JPG", pathbuilder.ResolveFileName("photo.JPG", "Tbl", rule, settings.CategoryCover, false))
	assert.Equal(t, "Tbl.png", pathbuilder.ResolveFileName("top.bmp", "Tbl", rule, settings.CategoryTopper, true))
	assert.Equal(t, "Tbl.webp", pathbuilder.ResolveFileName("top.webp", "Tbl", rule, settings.CategoryTopper, true))
	assert.Equal(t, "Tbl.jpg", pathbuilder.ResolveFileName("shot.jpg", "Tbl", rule, settings.CategoryScripts, true))
}

func TestPackageFileName(t *testing.T) {
	assert.Equal(t, "My_Table_Package.zip", pathbuilder.PackageFileName("My Table"))
}
