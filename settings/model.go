package settings

import (
	"errors"
	"maps"
)

var (
	// ErrInvalidSettings is returned when an imported settings document is malformed.
	ErrInvalidSettings  = errors.New("invalid settings file format")
	ErrTemplateNotFound = errors.New("template not found")
)

type Category string

const (
	CategoryCover        Category = "cover"
	CategoryTopper       Category = "topper"
	CategoryTableVideo   Category = "tableVideo"
	CategoryMarqueeVideo Category = "marqueeVideo"
	CategoryDirectB2S    Category = "directb2s"
	CategoryMusic        Category = "music"
	CategoryScripts      Category = "scripts"
	CategoryCustom       Category = "custom"
)

// Categories returns every category that owns an entry in PackageSettings.FileSettings.
func Categories() []Category {
	return []Category{
		CategoryCover,
		CategoryTopper,
		CategoryTableVideo,
		CategoryMarqueeVideo,
		CategoryDirectB2S,
		CategoryMusic,
		CategoryScripts,
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c == CategoryCustom {
		return c, nil
	}
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", errors.New("unknown category: " + s)
}

func (c Category) IsImage() bool {
	return c == CategoryCover || c == CategoryTopper
}

func (c Category) IsVideo() bool {
	return c == CategoryTableVideo || c == CategoryMarqueeVideo
}

type CompressionLevel string

const (
	CompressionNone    CompressionLevel = "none"
	CompressionLow     CompressionLevel = "low" // Older name for CompressionNone.
	CompressionFast    CompressionLevel = "fast"
	CompressionNormal  CompressionLevel = "normal"
	CompressionMaximum CompressionLevel = "maximum"
)

// Store reports whether entries are written without compression.
func (c CompressionLevel) Store() bool {
	return c == CompressionNone || c == CompressionLow
}

// DeflateLevel maps the level to a deflate level.
// Unknown values fall back to the normal level.
func (c CompressionLevel) DeflateLevel() int {
	switch c {
	case CompressionNone, CompressionLow:
		return 0
	case CompressionFast:
		return 1
	case CompressionMaximum:
		return 9
	default:
		return 6
	}
}

// MediaCompression is a quality tier for image and video processing.
// It is unrelated to the archive compression level.
type MediaCompression string

const (
	MediaCompressionNone   MediaCompression = "none"
	MediaCompressionLow    MediaCompression = "low"
	MediaCompressionMedium MediaCompression = "medium"
	MediaCompressionHigh   MediaCompression = "high"
)

func (m MediaCompression) Enabled() bool {
	return m != "" && m != MediaCompressionNone
}

type FileLocationSettings struct {
	UseTableName bool   `json:"useTableName"`
	Prefix       string `json:"prefix"`
	Suffix       string `json:"suffix"`
	Location     string `json:"location"`
}

// FileLocationPatch holds the keys to overwrite in a FileLocationSettings.
// Nil fields keep the current value.
type FileLocationPatch struct {
	UseTableName *bool
	Prefix       *string
	Suffix       *string
	Location     *string
}

func (f FileLocationSettings) Apply(p FileLocationPatch) FileLocationSettings {
	if p.UseTableName != nil {
		f.UseTableName = *p.UseTableName
	}
	if p.Prefix != nil {
		f.Prefix = *p.Prefix
	}
	if p.Suffix != nil {
		f.Suffix = *p.Suffix
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	return f
}

// PackageSettings is the runtime configuration of a package build.
// Values are treated as immutable: updaters return a modified copy.
type PackageSettings struct {
	// Legacy path components. Never exported.
	BaseDirectory string `json:"baseDirectory,omitempty"`
	MediaFolder   string `json:"mediaFolder,omitempty"`

	PreserveExtensions bool             `json:"preserveExtensions"`
	ConvertImages      bool             `json:"convertImages"`
	ConvertVideos      bool             `json:"convertVideos"`
	ImageCompression   MediaCompression `json:"imageCompression"`
	VideoCompression   MediaCompression `json:"videoCompression"`
	CompressionLevel   CompressionLevel `json:"compressionLevel"`
	IncludeTableFile   bool             `json:"includeTableFile"`

	TableFileSettings FileLocationSettings              `json:"tableFileSettings"`
	FileSettings      map[Category]FileLocationSettings `json:"fileSettings"`
}

// Clone returns a copy that shares nothing mutable with s.
func (s PackageSettings) Clone() PackageSettings {
	s.FileSettings = maps.Clone(s.FileSettings)
	if s.FileSettings == nil {
		s.FileSettings = make(map[Category]FileLocationSettings)
	}
	return s
}

// Rule returns the naming rule of a category.
// The zero value (empty location) is returned for unknown categories.
func (s PackageSettings) Rule(c Category) FileLocationSettings {
	return s.FileSettings[c]
}

// WithFileSettings returns a copy of s where the rule of c is merged with p.
func (s PackageSettings) WithFileSettings(c Category, p FileLocationPatch) PackageSettings {
	out := s.Clone()
	out.FileSettings[c] = out.FileSettings[c].Apply(p)
	return out
}

// WithTableFileSettings returns a copy of s where the table file rule is merged with p.
func (s PackageSettings) WithTableFileSettings(p FileLocationPatch) PackageSettings {
	out := s.Clone()
	out.TableFileSettings = out.TableFileSettings.Apply(p)
	return out
}

// ensureCategories fills every missing category with an empty rule,
// which makes files of that category skipped.
func (s *PackageSettings) ensureCategories() {
	if s.FileSettings == nil {
		s.FileSettings = make(map[Category]FileLocationSettings)
	}
	delete(s.FileSettings, CategoryCustom)
	for _, c := range Categories() {
		if _, ok := s.FileSettings[c]; !ok {
			s.FileSettings[c] = FileLocationSettings{}
		}
	}
}
