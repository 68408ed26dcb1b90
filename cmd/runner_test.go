package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/shared"
	tu "github.com/desertthunder/predictx/internal/testing"
)

func newTestRunner(output io.Writer) *Runner {
	return NewRunner(RunnerOpts{
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
}

// run executes the CLI with args, pointing --config at a file that does not exist.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	argv := append([]string{"predictx", "--config", filepath.Join(t.TempDir(), "missing.toml")}, args...)
	return r.app().Run(context.Background(), argv)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil || runner.logger == nil {
				t.Error("expected default config and logger")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient.Timeout != 0 {
				t.Error("default client must not time out")
			}
			if runner.predictor.BaseURL() != "http://localhost:8000" {
				t.Errorf("unexpected default service URL %s", runner.predictor.BaseURL())
			}
		})
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("loads config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			tu.MustWriteFile(t, path, []byte("[service]\nbase_url = \"http://predict.test:9000\"\n"))

			r := newTestRunner(&bytes.Buffer{})
			if err := r.app().Run(context.Background(), []string{"predictx", "--config", path, "setup", "config", "--path", filepath.Join(t.TempDir(), "c.toml")}); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if r.predictor.BaseURL() != "http://predict.test:9000" {
				t.Errorf("expected configured URL, got %s", r.predictor.BaseURL())
			}
		})

		t.Run("url flag overrides config", func(t *testing.T) {
			r := newTestRunner(&bytes.Buffer{})
			if err := run(t, r, "--url", "http://override.test", "setup", "config", "--path", filepath.Join(t.TempDir(), "c.toml")); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if r.predictor.BaseURL() != "http://override.test" {
				t.Errorf("expected override URL, got %s", r.predictor.BaseURL())
			}
		})

		t.Run("invalid url flag", func(t *testing.T) {
			r := newTestRunner(&bytes.Buffer{})
			err := run(t, r, "--url", "not a url", "status")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Upload", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "data.csv")
		tu.MustWriteFile(t, input, []byte("label,f1\n1,0.2\n"))

		t.Run("saves predictions.xlsx", func(t *testing.T) {
			srv := tu.NewPredictServer(t, http.StatusOK, models.SpreadsheetMIME, tu.XLSXBytes, nil)
			out := filepath.Join(t.TempDir(), "predictions.xlsx")
			buf := &bytes.Buffer{}

			if err := run(t, newTestRunner(buf), "--url", srv.URL, "upload", "--output", out, input); err != nil {
				t.Fatalf("upload error = %v", err)
			}

			if tu.MustReadFile(t, out) != string(tu.XLSXBytes) {
				t.Error("saved file does not match response")
			}
			if !strings.Contains(buf.String(), "✓ Predictions saved to") {
				t.Errorf("unexpected output %q", buf.String())
			}
		})

		t.Run("reports service error", func(t *testing.T) {
			srv := tu.NewPredictServer(t, http.StatusBadRequest, "application/json", []byte(`{"error":"unsupported column"}`), nil)
			buf := &bytes.Buffer{}

			err := run(t, newTestRunner(buf), "--url", srv.URL, "upload", "--output", filepath.Join(t.TempDir(), "p.xlsx"), input)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(buf.String(), "✗ unsupported column") {
				t.Errorf("expected error message in output, got %q", buf.String())
			}
		})

		t.Run("missing argument", func(t *testing.T) {
			err := run(t, newTestRunner(&bytes.Buffer{}), "upload")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Status", func(t *testing.T) {
		t.Run("healthy", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"message":"Welcome to the RNN Prediction API"}`))
			}))
			defer srv.Close()

			buf := &bytes.Buffer{}
			if err := run(t, newTestRunner(buf), "--url", srv.URL, "status"); err != nil {
				t.Fatalf("status error = %v", err)
			}
			if !strings.Contains(buf.String(), "reachable") {
				t.Errorf("unexpected output %q", buf.String())
			}
		})

		t.Run("unreachable", func(t *testing.T) {
			r := NewRunner(RunnerOpts{
				Logger:     shared.NewLogger(io.Discard),
				Output:     &bytes.Buffer{},
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
			})

			if err := run(t, r, "status"); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("SetupConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		buf := &bytes.Buffer{}

		if err := run(t, newTestRunner(buf), "setup", "config", "--path", path); err != nil {
			t.Fatalf("setup error = %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := run(t, newTestRunner(buf), "setup", "config", "--path", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("web handler", func(t *testing.T) {
		r := newTestRunner(&bytes.Buffer{})
		app, h := r.newWebHandler(context.Background())
		defer app.Close()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		r := newTestRunner(&tu.FWriter{})
		if err := r.writePlain("hello"); err == nil {
			t.Error("expected write error")
		}
	})
}
