package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/services"
	"github.com/desertthunder/predictx/internal/shared"
)

// GenericErrorMessage is shown when a failure carries no message of its own.
const GenericErrorMessage = "An error occurred while processing the request."

const (
	LabelUpload  = "Upload"
	LabelLoading = "Loading..."
)

// UploadController manages one upload session. It is not safe for concurrent use.
type UploadController struct {
	predictor services.Predictor
	logger    *log.Logger
	id        string
	file      *models.File
	state     models.State
	seq       uint64
	closed    bool
}

// Upload is a ticket for one in-flight submission, returned by [UploadController.Begin].
type Upload struct {
	seq       uint64
	file      models.File
	predictor services.Predictor
}

// Outcome is the single resolution of an [Upload].
type Outcome struct {
	seq        uint64
	Prediction *services.Prediction
	Err        error
}

// NewUploadController creates an Idle session that submits through predictor.
func NewUploadController(predictor services.Predictor, logger *log.Logger) *UploadController {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	id := shared.GenerateID()
	return &UploadController{
		predictor: predictor,
		logger:    shared.WithLogger(logger, "session", id),
		id:        id,
		state:     models.Idle(),
	}
}

// ID identifies the session in logs.
func (c *UploadController) ID() string { return c.id }

// State returns the current session state.
func (c *UploadController) State() models.State { return c.state }

// SelectFile replaces the selected file. No validation is performed and an in-flight request is unaffected.
func (c *UploadController) SelectFile(file models.File) {
	c.file = &file
	c.logger.Debug("file selected", "name", file.Name)
}

// ClearFile removes the selection, as when a file picker is emptied.
func (c *UploadController) ClearFile() {
	c.file = nil
}

// SelectedFile returns the selected file, if any.
func (c *UploadController) SelectedFile() (models.File, bool) {
	if c.file == nil {
		return models.File{}, false
	}
	return *c.file, true
}

// Ready returns the reason a submission would be refused, or nil.
func (c *UploadController) Ready() error {
	switch {
	case c.closed:
		return shared.ErrSessionClosed
	case c.file == nil:
		return shared.ErrNoFileSelected
	case c.state.Status() == models.StatusLoading:
		return shared.ErrUploadInProgress
	}
	return nil
}

// CanSubmit reports whether a submit control should be enabled.
func (c *UploadController) CanSubmit() bool {
	return c.Ready() == nil
}

// SubmitLabel is the text of the submit control.
func (c *UploadController) SubmitLabel() string {
	if c.state.Status() == models.StatusLoading {
		return LabelLoading
	}
	return LabelUpload
}

// Begin starts a submission. It returns false, leaving the state unchanged, when [UploadController.CanSubmit] is false.
func (c *UploadController) Begin() (*Upload, bool) {
	if !c.CanSubmit() {
		return nil, false
	}

	c.releaseResult()
	c.seq++
	c.state = models.Loading()
	c.logger.Info("upload started", "file", c.file.Name, "seq", c.seq)

	return &Upload{seq: c.seq, file: *c.file, predictor: c.predictor}, true
}

// File returns the file being uploaded.
func (u *Upload) File() models.File { return u.file }

// Do sends the file to the prediction service and waits for the answer.
func (u *Upload) Do(ctx context.Context) Outcome {
	pred, err := u.predictor.Predict(ctx, u.file)
	return Outcome{seq: u.seq, Prediction: pred, Err: err}
}

// Complete applies outcome, moving Loading to Succeeded or Failed.
//
// Outcomes from a superseded submission, or arriving after the state already left Loading, are ignored and false is returned.
func (c *UploadController) Complete(outcome Outcome) bool {
	if c.state.Status() != models.StatusLoading || outcome.seq != c.seq {
		c.logger.Debug("ignoring stale outcome", "seq", outcome.seq, "current", c.seq)
		return false
	}

	switch {
	case outcome.Err != nil:
		msg := services.UserMessage(outcome.Err, GenericErrorMessage)
		c.state = models.Failed(msg)
		c.logger.Warn("upload failed", "error", outcome.Err, "message", msg)
	case outcome.Prediction == nil || len(outcome.Prediction.Data) == 0:
		c.state = models.Failed(GenericErrorMessage)
		c.logger.Warn("upload failed", "error", shared.ErrEmptyResponse)
	default:
		result := models.NewResult(outcome.Prediction.Data)
		c.state = models.Succeeded(result)
		c.logger.Info("upload succeeded", "bytes", result.Size(), "result", result.ID())
	}

	return true
}

// Submit runs a whole submission, blocking until it resolves. Returns false when submission is disabled.
func (c *UploadController) Submit(ctx context.Context) bool {
	upload, ok := c.Begin()
	if !ok {
		return false
	}
	return c.Complete(upload.Do(ctx))
}

// Close ends the session, releasing any result. Later submissions are no-ops.
func (c *UploadController) Close() {
	if c.closed {
		return
	}
	c.releaseResult()
	c.state = models.Idle()
	c.closed = true
	c.logger.Debug("session closed")
}

func (c *UploadController) releaseResult() {
	if result, ok := c.state.Result(); ok && result != nil {
		result.Release()
		c.logger.Debug("result released", "result", result.ID())
	}
}
