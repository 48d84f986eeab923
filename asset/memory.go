package asset

import (
	"bytes"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewFromBytes returns an asset held in memory. It has no path.
func NewFromBytes(name string, data []byte, modTime time.Time) Asset {
	return &memAsset{name: name, data: data, modTime: modTime}
}

type memAsset struct {
	name    string
	data    []byte
	modTime time.Time
}

func (m *memAsset) Path() string       { return "" }
func (m *memAsset) Name() string       { return m.name }
func (m *memAsset) Size() int64        { return int64(len(m.data)) }
func (m *memAsset) ModTime() time.Time { return m.modTime }

func (m *memAsset) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *memAsset) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", m.name)
	e.Int64("size", int64(len(m.data)))
	e.Bool("in_memory", true)
}
