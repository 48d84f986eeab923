package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// CustomTemplateName is written into every exported settings document.
const CustomTemplateName = "Custom"

const tableFileSettingsKey = "tableFileSettings"

// document is the external JSON form of PackageSettings.
// The table file rule lives inside fileSettings under tableFileSettingsKey.
type document struct {
	TemplateName       string                          `json:"templateName,omitempty"`
	BaseDirectory      string                          `json:"baseDirectory,omitempty"`
	MediaFolder        string                          `json:"mediaFolder,omitempty"`
	PreserveExtensions bool                            `json:"preserveExtensions"`
	ConvertImages      bool                            `json:"convertImages"`
	ConvertVideos      bool                            `json:"convertVideos"`
	ImageCompression   MediaCompression                `json:"imageCompression"`
	VideoCompression   MediaCompression                `json:"videoCompression"`
	CompressionLevel   CompressionLevel                `json:"compressionLevel"`
	IncludeTableFile   *bool                           `json:"includeTableFile,omitempty"`
	FileSettings       map[string]FileLocationSettings `json:"fileSettings"`
}

// ExportJSON writes s in the external settings format.
// Legacy path components are dropped and the template name is set to "Custom".
func ExportJSON(w io.Writer, s PackageSettings) error {
	raw, err := MarshalExport(s)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

func MarshalExport(s PackageSettings) ([]byte, error) {
	include := s.IncludeTableFile
	doc := document{
		TemplateName:       CustomTemplateName,
		PreserveExtensions: s.PreserveExtensions,
		ConvertImages:      s.ConvertImages,
		ConvertVideos:      s.ConvertVideos,
		ImageCompression:   s.ImageCompression,
		VideoCompression:   s.VideoCompression,
		CompressionLevel:   s.CompressionLevel,
		IncludeTableFile:   &include,
		FileSettings:       make(map[string]FileLocationSettings, len(s.FileSettings)+1),
	}
	doc.FileSettings[tableFileSettingsKey] = s.TableFileSettings
	for c, rule := range s.FileSettings {
		if c == CategoryCustom {
			continue
		}
		doc.FileSettings[string(c)] = rule
	}

	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON reads a settings document. The document must carry a
// "fileSettings" object; anything else fails with ErrInvalidSettings.
// Nothing is returned on failure.
func ImportJSON(r io.Reader) (PackageSettings, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return PackageSettings{}, fmt.Errorf("could not read settings: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return PackageSettings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	fs, ok := top["fileSettings"]
	if !ok || !isObject(fs) {
		return PackageSettings{}, fmt.Errorf("%w: missing fileSettings object", ErrInvalidSettings)
	}

	return Normalize(raw)
}

// LoadFile imports the settings document at path.
func LoadFile(path string) (s PackageSettings, err error) {
	f, err := os.Open(path)
	if err != nil {
		return PackageSettings{}, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return ImportJSON(f)
}

// Normalize converts any known settings document shape to PackageSettings.
//
// Documents nesting the table file rule inside "fileSettings" are hoisted to the
// runtime shape. Any other document is laid over templateBase(); a
// "fileSettings" or "tableFileSettings" key it carries replaces that field whole.
// This is the only place that branches on the document shape.
func Normalize(raw []byte) (PackageSettings, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return PackageSettings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if !isNested(top) {
		s := templateBase()
		if _, ok := top["fileSettings"]; ok {
			s.FileSettings = nil
		}
		if _, ok := top["tableFileSettings"]; ok {
			s.TableFileSettings = FileLocationSettings{}
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return PackageSettings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
		s.ensureCategories()
		return s, nil
	}

	doc := document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return PackageSettings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	s := PackageSettings{
		BaseDirectory:      doc.BaseDirectory,
		MediaFolder:        doc.MediaFolder,
		PreserveExtensions: doc.PreserveExtensions,
		ConvertImages:      doc.ConvertImages,
		ConvertVideos:      doc.ConvertVideos,
		ImageCompression:   doc.ImageCompression,
		VideoCompression:   doc.VideoCompression,
		CompressionLevel:   doc.CompressionLevel,
		IncludeTableFile:   doc.IncludeTableFile == nil || *doc.IncludeTableFile,
		TableFileSettings:  doc.FileSettings[tableFileSettingsKey],
		FileSettings:       make(map[Category]FileLocationSettings, len(doc.FileSettings)),
	}
	for key, rule := range doc.FileSettings {
		if key == tableFileSettingsKey {
			continue
		}
		s.FileSettings[Category(key)] = rule
	}
	s.ensureCategories()

	return s, nil
}

func isNested(top map[string]json.RawMessage) bool {
	fs, ok := top["fileSettings"]
	if !ok || !isObject(fs) {
		return false
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(fs, &inner); err != nil {
		return false
	}
	_, ok = inner[tableFileSettingsKey]
	return ok
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
