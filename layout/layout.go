// Package layout decides where each input file goes inside a package.
package layout

import (
	"github.com/rs/zerolog"
	"github.com/stupid-simple/pinpack/asset"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

// Placement is the destination of one file inside a package.
type Placement struct {
	Location string // resolved directory, slash separated
	Name     string // file name
	Path     string // archive entry path
}

func (p Placement) MarshalZerologObject(e *zerolog.Event) {
	e.Str("location", p.Location)
	e.Str("name", p.Name)
	e.Str("entry", p.Path)
}

// Table returns the placement of the table file.
// It returns false when the table file is excluded or has no location.
func Table(table *asset.TableFile, s settings.PackageSettings) (Placement, bool) {
	if !s.IncludeTableFile {
		return Placement{}, false
	}
	location := pathbuilder.ResolveLocation(s.TableFileSettings.Location, table.Type)
	if location == "" {
		return Placement{}, false
	}

	// The table file is never converted.
	name := pathbuilder.ResolveFileName(table.Asset.Name(), table.Name, s.TableFileSettings, "", false)
	return newPlacement(location, name), true
}

// File returns the placement of an additional file.
// It returns false when the rule of the file has no location.
func File(f asset.AdditionalFile, table *asset.TableFile, s settings.PackageSettings) (Placement, bool) {
	rule := f.Rule(s)
	location := pathbuilder.ResolveLocation(rule.Location, table.Type)
	if location == "" {
		return Placement{}, false
	}

	name := pathbuilder.ResolveFileName(f.OriginalName, table.Name, rule, f.Category, s.ConvertImages)
	return newPlacement(location, name), true
}

func newPlacement(location string, name string) Placement {
	return Placement{
		Location: location,
		Name:     name,
		Path:     pathbuilder.EntryPath(location, name),
	}
}
