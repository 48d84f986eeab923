package zipwriter

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"

	"github.com/stupid-simple/pinpack/fileutils"
)

type options struct {
	level     int
	overwrite bool
	comment   string
}

type Option func(*options)

// WithDeflateLevel sets the flate level used by Deflate entries.
func WithDeflateLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOverwrite allows a lazy zip file to replace an existing file.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) {
		o.overwrite = overwrite
	}
}

// WithComment sets the archive comment.
func WithComment(comment string) Option {
	return func(o *options) {
		o.comment = comment
	}
}

// Returns zip Writer helper that opens the file upon first write.
func NewLazyZipFile(path string, opts ...Option) *ZipFile {
	o := newOptions(opts)
	return &ZipFile{
		path: path,
		opts: o,
		lazyOpenFunc: func() (io.WriteCloser, error) {
			return openArchiveFile(path, o.overwrite)
		},
		delFunc: func() error {
			return os.Remove(path)
		},
	}
}

// Returns zip Writer helper that discards everything written to it.
func NewNullZipFile(opts ...Option) *ZipFile {
	return &ZipFile{
		path: os.DevNull,
		opts: newOptions(opts),
		lazyOpenFunc: func() (io.WriteCloser, error) {
			return nopWriteCloser{io.Discard}, nil
		},
		delFunc: func() error { return nil },
	}
}

// Returns zip Writer helper that streams into w. Closing the helper does not close w.
func NewZipWriter(w io.Writer, opts ...Option) *ZipFile {
	return &ZipFile{
		opts: newOptions(opts),
		lazyOpenFunc: func() (io.WriteCloser, error) {
			return nopWriteCloser{w}, nil
		},
		delFunc: func() error { return nil },
	}
}

type ZipFile struct {
	init         bool
	created      bool
	path         string
	opts         options
	out          io.WriteCloser
	writer       *zip.Writer
	lazyOpenFunc func() (io.WriteCloser, error)
	delFunc      func() error
}

// Path of the archive, empty for stream backed writers.
func (z *ZipFile) Path() string {
	return z.path
}

// Open the underlying output if it was not opened yet.
// An opened ZipFile always produces a valid archive on Close, even without entries.
func (z *ZipFile) Open() error {
	if z.init {
		return nil
	}
	out, err := z.lazyOpenFunc()
	if err != nil {
		return err
	}

	writer := zip.NewWriter(out)
	level := z.opts.level
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	if z.opts.comment != "" {
		if err := writer.SetComment(z.opts.comment); err != nil {
			return errors.Join(err, out.Close())
		}
	}

	z.created = true
	z.out = out
	z.writer = writer
	z.init = true
	return nil
}

// Close the file and writer if it was opened.
func (z *ZipFile) Close() error {
	if !z.init {
		return nil
	}
	defer func() {
		z.init = false
	}()
	err := z.writer.Close()
	return errors.Join(err, z.out.Close())
}

// Delete the file if this helper created it.
func (z *ZipFile) Delete() error {
	if !z.created {
		return nil
	}
	if z.init {
		if err := z.Close(); err != nil {
			return errors.Join(err, z.delFunc())
		}
	}
	return z.delFunc()
}

// CreateHeader creates a new zip entry in the zip file.
func (z *ZipFile) CreateHeader(fh *zip.FileHeader) (io.Writer, error) {
	if err := z.Open(); err != nil {
		return nil, err
	}

	return z.writer.CreateHeader(fh)
}

func newOptions(opts []Option) options {
	o := options{level: flate.DefaultCompression}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func openArchiveFile(path string, overwrite bool) (*os.File, error) {
	if !overwrite && fileutils.Exists(path) {
		return nil, fmt.Errorf("file or directory already exists with this name: %s", path)
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
