package asset

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/stupid-simple/pinpack/settings"
)

// WorkingSet holds the files of one packaging session in the order they were added.
type WorkingSet struct {
	table   *TableFile
	files   []AdditionalFile
	maxSize int64
}

type WorkingSetOption func(*WorkingSet)

// WithMaxSize rejects files larger than maxSize bytes. Zero means no limit.
func WithMaxSize(maxSize int64) WorkingSetOption {
	return func(w *WorkingSet) {
		w.maxSize = maxSize
	}
}

func NewWorkingSet(opts ...WorkingSetOption) *WorkingSet {
	w := &WorkingSet{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetTable classifies a and makes it the table file of the session.
func (w *WorkingSet) SetTable(a Asset) (*TableFile, error) {
	if err := w.checkSize(a); err != nil {
		return nil, err
	}
	t, err := NewTableFile(a)
	if err != nil {
		return nil, err
	}
	w.table = t
	return t, nil
}

func (w *WorkingSet) Table() *TableFile {
	return w.table
}

// Add stores a as the file of category c. A file already held for c is replaced,
// and the new file goes to the end of the order.
func (w *WorkingSet) Add(a Asset, c settings.Category) (AdditionalFile, error) {
	if c == settings.CategoryCustom {
		return AdditionalFile{}, fmt.Errorf("custom files need a location")
	}
	if err := w.checkSize(a); err != nil {
		return AdditionalFile{}, err
	}
	w.files = slices.DeleteFunc(w.files, func(f AdditionalFile) bool {
		return f.Category == c
	})

	f := newAdditionalFile(a, c)
	w.files = append(w.files, f)
	return f, nil
}

// AddCustom stores a as a custom file placed at location.
// Any number of custom files may be held.
func (w *WorkingSet) AddCustom(a Asset, location string, useTableName bool) (AdditionalFile, error) {
	if err := w.checkSize(a); err != nil {
		return AdditionalFile{}, err
	}
	f := newAdditionalFile(a, settings.CategoryCustom)
	f.CustomLocation = location
	f.CustomFileID = f.ID
	f.CustomUseTableName = useTableName
	w.files = append(w.files, f)
	return f, nil
}

func (w *WorkingSet) Remove(id string) error {
	before := len(w.files)
	w.files = slices.DeleteFunc(w.files, func(f AdditionalFile) bool {
		return f.ID == id
	})
	if len(w.files) == before {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	return nil
}

// Files returns the additional files in insertion order.
func (w *WorkingSet) Files() []AdditionalFile {
	return slices.Clone(w.files)
}

// Clear drops the table file and every additional file.
func (w *WorkingSet) Clear() {
	w.table = nil
	w.files = nil
}

// TotalSize returns the summed size of every held file.
func (w *WorkingSet) TotalSize() int64 {
	var total int64
	if w.table != nil {
		total += w.table.Asset.Size()
	}
	for _, f := range w.files {
		total += f.Size
	}
	return total
}

func (w *WorkingSet) checkSize(a Asset) error {
	if w.maxSize > 0 && a.Size() > w.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, maximum %d", ErrMaxSizeExceeded, a.Name(), a.Size(), w.maxSize)
	}
	return nil
}

func newAdditionalFile(a Asset, c settings.Category) AdditionalFile {
	return AdditionalFile{
		ID:           uuid.NewString(),
		Asset:        a,
		OriginalName: a.Name(),
		Category:     c,
		Size:         a.Size(),
	}
}
