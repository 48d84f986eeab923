package asset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

// AdditionalFile is one media or script file packaged with the table.
type AdditionalFile struct {
	ID           string
	Asset        Asset
	OriginalName string
	Category     settings.Category
	Size         int64

	// Only used by the custom category.
	CustomLocation     string
	CustomFileID       string
	CustomUseTableName bool
}

// Rule returns the naming rule that applies to the file.
// Custom files carry their own rule.
func (f AdditionalFile) Rule(s settings.PackageSettings) settings.FileLocationSettings {
	if f.Category == settings.CategoryCustom {
		return settings.FileLocationSettings{
			UseTableName: f.CustomUseTableName,
			Location:     f.CustomLocation,
		}
	}
	return s.Rule(f.Category)
}

func (f AdditionalFile) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", f.ID)
	e.Str("name", f.OriginalName)
	e.Str("category", string(f.Category))
	e.Int64("size", f.Size)
	if f.CustomLocation != "" {
		e.Str("custom_location", f.CustomLocation)
	}
}

var acceptedExtensions = map[settings.Category][]string{
	settings.CategoryCover:        {"png", "jpg", "jpeg"},
	settings.CategoryTopper:       {"png", "jpg", "jpeg"},
	settings.CategoryTableVideo:   {"mp4", "jpg", "png"},
	settings.CategoryMarqueeVideo: {"mp4", "avi", "mov"},
	settings.CategoryDirectB2S:    {"directb2s"},
	settings.CategoryMusic:        {"mp3", "wav"},
	settings.CategoryScripts:      {"vbs", "txt"},
}

// AcceptedExtensions returns the extensions an upload of category may have.
// Nil means any extension is accepted.
func AcceptedExtensions(c settings.Category) []string {
	return slices.Clone(acceptedExtensions[c])
}

// CheckCategory returns ErrUnsupportedFileType if name cannot be uploaded as c.
func CheckCategory(name string, c settings.Category) error {
	accepted, ok := acceptedExtensions[c]
	if !ok {
		return nil
	}
	ext := strings.ToLower(pathbuilder.Extension(name))
	if slices.Contains(accepted, ext) {
		return nil
	}
	return fmt.Errorf("%w: %s as %s, expected one of %s", ErrUnsupportedFileType, name, c, strings.Join(accepted, ", "))
}
