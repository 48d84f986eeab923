package ziparchiver

import (
	"archive/zip"
	"time"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/settings"
)

// Entry is one file written into a package.
type Entry struct {
	Path           string // archive path
	Source         string // name of the input file
	Category       settings.Category
	Table          bool
	Size           int64
	CompressedSize int64
	Hash           uint64
	Method         uint16
	ModTime        time.Time
}

// Stored reports whether the entry is not compressed.
func (e Entry) Stored() bool {
	return e.Method == zip.Store
}

func (e Entry) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("entry", e.Path)
	if e.Source != "" {
		ev.Str("source", e.Source)
	}
	if e.Table {
		ev.Bool("table", true)
	} else if e.Category != "" {
		ev.Str("category", string(e.Category))
	}
	ev.Int64("size", e.Size)
	if e.CompressedSize > 0 {
		ev.Int64("compressed_size", e.CompressedSize)
	}
	ev.Uint64("hash", e.Hash)
	ev.Bool("stored", e.Stored())
}

// SkippedFile is an input left out of a package because it has no location.
type SkippedFile struct {
	Name     string
	Category settings.Category
	Table    bool
}

// Result describes a generated package.
type Result struct {
	Path      string // empty when written to a stream or in dry run
	TableName string
	GameType  pathbuilder.GameType
	Entries   []Entry
	Skipped   []SkippedFile
}

// Size is the total uncompressed size of the entries.
func (r *Result) Size() int64 {
	var total int64
	for _, e := range r.Entries {
		total += e.Size
	}
	return total
}

// CompressedSize is the total compressed size of the entries.
func (r *Result) CompressedSize() int64 {
	var total int64
	for _, e := range r.Entries {
		total += e.CompressedSize
	}
	return total
}

func (r *Result) MarshalZerologObject(e *zerolog.Event) {
	if r.Path != "" {
		e.Str("path", r.Path)
	}
	e.Str("table", r.TableName)
	e.Str("game_type", string(r.GameType))
	e.Int("entries", len(r.Entries))
	e.Int("skipped", len(r.Skipped))
	e.Int64("size", r.Size())
	e.Int64("compressed_size", r.CompressedSize())
}
