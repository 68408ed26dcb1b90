package web

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/server"
	"github.com/desertthunder/predictx/internal/services"
	"github.com/desertthunder/predictx/internal/shared"
	"github.com/desertthunder/predictx/internal/tasks"
	tu "github.com/desertthunder/predictx/internal/testing"
)

func newTestApp(t *testing.T, predictor services.Predictor) (*App, http.Handler) {
	t.Helper()
	app := NewApp(context.Background(), predictor, nil)
	t.Cleanup(app.Close)

	router := server.NewBasicRouter()
	app.Register(router)
	return app, router
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if name != "" {
		part, err := w.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(data)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestApp(t *testing.T) {
	t.Run("Idle page", func(t *testing.T) {
		_, h := newTestApp(t, &tu.MockPredictor{})

		rec := get(h, "/")
		body := rec.Body.String()

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(body, models.Title) {
			t.Error("expected page title")
		}
		if !strings.Contains(body, ">Upload</button>") {
			t.Error("expected Upload label")
		}
		if strings.Contains(body, `class="error"`) || strings.Contains(body, "download-section") {
			t.Error("Idle page should show neither error nor download")
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		_, h := newTestApp(t, &tu.MockPredictor{})
		if rec := get(h, "/missing"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("upload without file is a no-op", func(t *testing.T) {
		mock := &tu.MockPredictor{}
		app, h := newTestApp(t, mock)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "", nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("expected redirect, got %d", rec.Code)
		}
		if app.State().Status() != models.StatusIdle {
			t.Errorf("expected Idle, got %v", app.State().Status())
		}
		if len(mock.Calls()) != 0 {
			t.Error("predictor should not be called")
		}
	})

	t.Run("loading page disables submit and refreshes", func(t *testing.T) {
		mock := &tu.MockPredictor{
			Prediction: &services.Prediction{Data: tu.XLSXBytes},
			Release:    make(chan struct{}),
		}
		app, h := newTestApp(t, mock)

		h.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "data.csv", []byte("1,2")))

		if app.State().Status() != models.StatusLoading {
			t.Fatalf("expected Loading right after submit, got %v", app.State().Status())
		}
		body := get(h, "/").Body.String()
		if !strings.Contains(body, tasks.LabelLoading) {
			t.Error("expected loading label")
		}
		if !strings.Contains(body, `http-equiv="refresh"`) {
			t.Error("expected auto refresh while loading")
		}

		// A second submit while loading must not reach the predictor.
		h.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "other.csv", []byte("3,4")))

		close(mock.Release)
		app.Wait()

		if len(mock.Calls()) != 1 {
			t.Errorf("expected one predictor call, got %d", len(mock.Calls()))
		}
		if app.State().Status() != models.StatusSucceeded {
			t.Errorf("expected Succeeded, got %v", app.State().Status())
		}
	})

	t.Run("upload while loading is refused and logged", func(t *testing.T) {
		var logs bytes.Buffer
		mock := &tu.MockPredictor{
			Prediction: &services.Prediction{Data: tu.XLSXBytes},
			Release:    make(chan struct{}),
		}
		app := NewApp(context.Background(), mock, shared.NewLogger(&logs))
		t.Cleanup(app.Close)
		router := server.NewBasicRouter()
		app.Register(router)

		router.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "data.csv", []byte("1,2")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, "other.csv", []byte("3,4")))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("expected redirect, got %d", rec.Code)
		}
		if !strings.Contains(logs.String(), shared.ErrUploadInProgress.Error()) {
			t.Errorf("expected refusal reason in log, got %q", logs.String())
		}

		close(mock.Release)
		app.Wait()
	})

	t.Run("download after success", func(t *testing.T) {
		srv := tu.NewPredictServer(t, http.StatusOK, models.SpreadsheetMIME, tu.XLSXBytes, nil)
		app, h := newTestApp(t, services.NewPredictionService(srv.URL, nil))

		h.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "data.csv", []byte("1,2")))
		app.Wait()

		body := get(h, "/").Body.String()
		if !strings.Contains(body, `download="predictions.xlsx"`) {
			t.Error("expected download link for predictions.xlsx")
		}

		rec := get(h, "/predictions.xlsx")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") != models.SpreadsheetMIME {
			t.Errorf("unexpected content type %s", rec.Header().Get("Content-Type"))
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), `filename="predictions.xlsx"`) {
			t.Errorf("unexpected disposition %s", rec.Header().Get("Content-Disposition"))
		}
		got, _ := io.ReadAll(rec.Body)
		if !bytes.Equal(got, tu.XLSXBytes) {
			t.Errorf("downloaded %v, want %v", got, tu.XLSXBytes)
		}
	})

	t.Run("error message is rendered", func(t *testing.T) {
		srv := tu.NewPredictServer(t, http.StatusBadRequest, "application/json", []byte(`{"error":"unsupported column"}`), nil)
		app, h := newTestApp(t, services.NewPredictionService(srv.URL, nil))

		h.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "bad.csv", []byte("?")))
		app.Wait()

		body := get(h, "/").Body.String()
		if !strings.Contains(body, `<p class="error">unsupported column</p>`) {
			t.Errorf("expected error region, got %s", body)
		}
		if strings.Contains(body, "download-section") {
			t.Error("failed page should not offer a download")
		}
		if rec := get(h, "/predictions.xlsx"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 without result, got %d", rec.Code)
		}
	})

	t.Run("Close releases the result", func(t *testing.T) {
		mock := &tu.MockPredictor{Prediction: &services.Prediction{Data: tu.XLSXBytes}}
		app, h := newTestApp(t, mock)

		h.ServeHTTP(httptest.NewRecorder(), uploadRequest(t, "data.csv", []byte("1")))
		app.Wait()
		result, ok := app.State().Result()
		if !ok {
			t.Fatal("expected a result")
		}

		app.Close()
		if !result.Released() {
			t.Error("Close() should release the result")
		}
	})
}
