package asset_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stupid-simple/pinpack/asset"
)

var data = []byte("hello world")

func TestNewFromFS(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "hello.txt")
	err := os.WriteFile(testPath, data, 0600)
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(testPath)
	if err != nil {
		t.Fatal(err)
	}

	a, err := asset.NewFromFS(testPath, info)
	if err != nil {
		t.Fatal(err)
	}

	if a.Path() != testPath {
		t.Errorf("expected path %s, got %s", testPath, a.Path())
	}
	if a.Size() != 11 {
		t.Errorf("expected size 11, got %d", a.Size())
	}
	if a.ModTime() != info.ModTime() {
		t.Errorf("expected mod time %s, got %s", info.ModTime(), a.ModTime())
	}
	if a.Name() != "hello.txt" {
		t.Errorf("expected name hello.txt, got %s", a.Name())
	}

	r, err := a.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != string(data) {
		t.Errorf("expected content %q, got %q", data, content)
	}
}

func TestOpen_Directory(t *testing.T) {
	_, err := asset.Open(t.TempDir())
	if err == nil {
		t.Error("expected error")
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := asset.Open(filepath.Join(t.TempDir(), "missing.vpx"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}
}

func TestNewFromFS_TooLarge(t *testing.T) {
	var fourGiB int64 = 4 * 1024 * 1024 * 1024
	a, err := asset.NewFromFS("hello.txt", fakeFileInfo{name: "hello.txt", size: fourGiB + 1})
	if !errors.Is(err, asset.ErrMaxSizeExceeded) {
		t.Error("expected error")
	}
	if a != nil {
		t.Error("expected nil")
	}
}

func TestNewFromBytes(t *testing.T) {
	now := time.Now()
	a := asset.NewFromBytes("cover.png", data, now)

	if a.Name() != "cover.png" || a.Size() != 11 || !a.ModTime().Equal(now) || a.Path() != "" {
		t.Errorf("unexpected asset attributes: %s %d %s %q", a.Name(), a.Size(), a.ModTime(), a.Path())
	}

	// Every Open starts from the beginning.
	for range 2 {
		r, err := a.Open()
		if err != nil {
			t.Fatal(err)
		}
		content, _ := io.ReadAll(r)
		if string(content) != string(data) {
			t.Errorf("expected content %q, got %q", data, content)
		}
	}
}

type fakeFileInfo struct {
	name string
	size int64
}

// IsDir implements fs.FileInfo.
func (f fakeFileInfo) IsDir() bool {
	return false
}

// ModTime implements fs.FileInfo.
func (f fakeFileInfo) ModTime() time.Time {
	return time.Time{}
}

// Mode implements fs.FileInfo.
func (f fakeFileInfo) Mode() fs.FileMode {
	return 0
}

// Sys implements fs.FileInfo.
func (f fakeFileInfo) Sys() any {
	panic("unimplemented")
}

func (f fakeFileInfo) Name() string {
	return f.name
}

func (f fakeFileInfo) Size() int64 {
	return f.size
}
