package pathbuilder

import (
	"regexp"
	"slices"
	"strings"

	"github.com/stupid-simple/pinpack/settings"
)

var (
	hostileChars    = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	underscoreRuns  = regexp.MustCompile(`_+`)
	trailingExt     = regexp.MustCompile(`\.[^/.]+$`)
	convertibleExts = []string{"jpg", "jpeg", "png", "gif", "bmp"}
)

// SanitizeFileName replaces characters that are unsafe in file names with "_".
func SanitizeFileName(name string) string {
	name = hostileChars.ReplaceAllString(name, "_")
	name = whitespaceRuns.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, "_")
	return strings.TrimSpace(name)
}

// Extension returns the text after the last ".", or "" when there is none.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// RemoveExtension strips the trailing extension of name, if it has one.
func RemoveExtension(name string) string {
	return trailingExt.ReplaceAllString(name, "")
}

// IsConvertibleImage reports whether an image with this extension can be turned into a PNG.
func IsConvertibleImage(ext string) bool {
	return slices.Contains(convertibleExts, strings.ToLower(ext))
}

// ResolveFileName computes the name a file gets inside the package.
//
// The stem is either the sanitized table name or the original stem, wrapped by the
// rule prefix and suffix. Cover and topper images get a "png" extension when images
// are converted; every other file keeps its original extension.
func ResolveFileName(
	originalName string,
	tableName string,
	rule settings.FileLocationSettings,
	category settings.Category,
	convertImages bool,
) string {
	ext := Extension(originalName)

	var stem string
	if rule.UseTableName {
		stem = rule.Prefix + SanitizeFileName(tableName) + rule.Suffix
	} else {
		stem = rule.Prefix + RemoveExtension(originalName) + rule.Suffix
	}

	if convertImages && category.IsImage() && IsConvertibleImage(ext) {
		return stem + ".png"
	}

	// PreserveExtensions has no other outcome: the original extension is kept.
	return stem + "." + ext
}

// PackageFileName returns the file name of the package built for tableName.
func PackageFileName(tableName string) string {
	return SanitizeFileName(tableName) + "_Package.zip"
}
