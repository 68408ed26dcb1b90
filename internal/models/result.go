package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/predictx/internal/shared"
)

const (
	// SpreadsheetMIME is the content type results are tagged with.
	SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// ResultFilename is the fixed name results are offered under.
	ResultFilename = "predictions.xlsx"
)

// Result is an owned handle on a downloaded spreadsheet.
//
// The payload lives until [Result.Release]; afterwards every accessor fails with [shared.ErrResultReleased].
type Result struct {
	mu       sync.Mutex
	id       string
	mimeType string
	data     []byte
	released bool
}

// NewResult acquires a result over data, tagged with [SpreadsheetMIME].
func NewResult(data []byte) *Result {
	return &Result{id: shared.GenerateID(), mimeType: SpreadsheetMIME, data: data}
}

func (r *Result) ID() string       { return r.id }
func (r *Result) MIMEType() string { return r.mimeType }
func (r *Result) Filename() string { return ResultFilename }

// Size returns the payload length, or 0 once released.
func (r *Result) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// Released reports whether [Result.Release] has been called.
func (r *Result) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// Bytes returns a copy of the payload.
func (r *Result) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, shared.ErrResultReleased
	}
	return bytes.Clone(r.data), nil
}

// WriteTo copies the payload to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return 0, shared.ErrResultReleased
	}
	n, err := w.Write(r.data)
	return int64(n), err
}

// Save writes the payload to dir/predictions.xlsx and returns the written path.
func (r *Result) Save(dir string) (string, error) {
	return r.SaveAs(filepath.Join(dir, ResultFilename))
}

// SaveAs writes the payload to path, creating parent directories.
func (r *Result) SaveAs(path string) (string, error) {
	data, err := r.Bytes()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Release drops the payload. Safe to call more than once.
func (r *Result) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.released = true
}
