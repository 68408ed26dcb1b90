package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a user-selected file. Either Data is set, or Path is read lazily by [File.Open].
type File struct {
	Name string
	Path string
	Data []byte
}

// FileFromPath selects the file at path without reading it.
func FileFromPath(path string) File {
	return File{Name: filepath.Base(path), Path: path}
}

// FileFromBytes selects an in-memory file, as received from a browser form.
func FileFromBytes(name string, data []byte) File {
	return File{Name: name, Data: data}
}

// Open returns a reader over the file contents.
func (f File) Open() (io.ReadCloser, error) {
	if f.Path == "" {
		return io.NopCloser(bytes.NewReader(f.Data)), nil
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	return fh, nil
}
