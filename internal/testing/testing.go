// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/services"
)

// XLSXBytes is the leading signature of an .xlsx (zip) payload.
var XLSXBytes = []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}

// MockPredictor is a test double for [services.Predictor].
//
// When Release is non-nil, Predict blocks until it is closed so tests can observe the Loading state.
type MockPredictor struct {
	Prediction *services.Prediction
	Err        error
	Release    chan struct{}

	mu    sync.Mutex
	calls []models.File
}

func (m *MockPredictor) Predict(ctx context.Context, file models.File) (*services.Prediction, error) {
	m.mu.Lock()
	m.calls = append(m.calls, file)
	m.mu.Unlock()

	if m.Release != nil {
		<-m.Release
	}
	return m.Prediction, m.Err
}

// Calls returns the files passed to Predict so far.
func (m *MockPredictor) Calls() []models.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.File(nil), m.calls...)
}

// NewPredictServer starts an [httptest.Server] that answers POST /predict with status and body.
//
// The uploaded filename is recorded into gotName when non-nil.
func NewPredictServer(t *testing.T, status int, contentType string, body []byte, gotName *string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected multipart field file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.Close()
		if gotName != nil {
			*gotName = header.Filename
		}

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
