// Package web serves the single-page predictx web client.
//
// # Routes
//
//	GET  /                 → Page rendered from the current session state
//	POST /upload           → Select the posted file and start a submission
//	GET  /predictions.xlsx → Download the result of a Succeeded session
//
// # State Management
//
// One [tasks.UploadController] backs the page. HTTP handlers run concurrently, so every access goes through a mutex;
// the prediction call itself runs in a goroutine outside the lock and its outcome is applied with
// [tasks.UploadController.Complete]. While Loading the page refreshes itself every second.
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/server"
	"github.com/desertthunder/predictx/internal/services"
	"github.com/desertthunder/predictx/internal/shared"
	"github.com/desertthunder/predictx/internal/tasks"
)

const maxUploadMemory = 32 << 20

//go:embed templates/*.html
var templateFiles embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

// App is the web client for one upload session.
type App struct {
	ctx     context.Context
	mu      sync.Mutex
	ctrl    *tasks.UploadController
	logger  *log.Logger
	pending sync.WaitGroup
}

// pageData is what index.html renders.
type pageData struct {
	Title       string
	SubmitLabel string
	Loading     bool
	Error       string
	Download    string
}

// NewApp creates the web client. ctx is passed to every prediction call.
func NewApp(ctx context.Context, predictor services.Predictor, logger *log.Logger) *App {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &App{
		ctx:    ctx,
		ctrl:   tasks.NewUploadController(predictor, logger),
		logger: logger,
	}
}

// Register adds the client routes to router.
func (a *App) Register(router server.Router) {
	router.Handle(http.MethodGet, "/", http.HandlerFunc(a.index))
	router.Handle(http.MethodPost, "/upload", http.HandlerFunc(a.upload))
	router.Handle(http.MethodGet, "/"+models.ResultFilename, http.HandlerFunc(a.download))
}

// State returns a snapshot of the session state.
func (a *App) State() models.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.State()
}

// Wait blocks until every started submission has resolved.
func (a *App) Wait() {
	a.pending.Wait()
}

// Close tears down the session and releases any result.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctrl.Close()
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	a.mu.Lock()
	state := a.ctrl.State()
	data := pageData{
		Title:       models.Title,
		SubmitLabel: a.ctrl.SubmitLabel(),
		Loading:     state.Status() == models.StatusLoading,
	}
	if msg, ok := state.Message(); ok {
		data.Error = msg
	}
	if result, ok := state.Result(); ok {
		data.Download = result.Filename()
	}
	a.mu.Unlock()

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		a.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (a *App) upload(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/", http.StatusSeeOther)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.logger.Warn("invalid upload form", "error", err)
		return
	}

	f, header, err := r.FormFile(services.FormField)
	if err != nil {
		a.logger.Debug("upload without file", "error", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		a.logger.Warn("failed to read uploaded file", "error", err)
		return
	}

	a.mu.Lock()
	a.ctrl.SelectFile(models.FileFromBytes(header.Filename, data))
	if err := a.ctrl.Ready(); err != nil {
		a.mu.Unlock()
		a.logger.Info("upload refused", "file", header.Filename, "error", err)
		return
	}
	upload, _ := a.ctrl.Begin()
	a.pending.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.pending.Done()
		outcome := upload.Do(a.ctx)

		a.mu.Lock()
		defer a.mu.Unlock()
		a.ctrl.Complete(outcome)
	}()
}

func (a *App) download(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result, ok := a.ctrl.State().Result()
	if !ok {
		http.Error(w, shared.ErrNoResult.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", result.MIMEType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename()))
	w.Header().Set("Content-Length", fmt.Sprint(result.Size()))
	if _, err := result.WriteTo(w); err != nil {
		a.logger.Warn("failed to write result", "error", err)
	}
}
