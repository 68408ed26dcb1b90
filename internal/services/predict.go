package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/desertthunder/predictx/internal/models"
	"github.com/desertthunder/predictx/internal/shared"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	PredictPath    = "/predict"
	FormField      = "file"
)

var _ Predictor = (*PredictionService)(nil)

// ServiceError is a non-2xx answer from the prediction service.
type ServiceError struct {
	StatusCode int
	Message    string // Value of the "error" field, empty when the body carried none
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error { return shared.ErrAPIRequest }

// PredictionService talks to the prediction service over HTTP.
type PredictionService struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictionService creates a client for the service at baseURL.
//
// An empty baseURL falls back to [DefaultBaseURL] and a nil client to [http.DefaultClient].
func NewPredictionService(baseURL string, client *http.Client) *PredictionService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &PredictionService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the service address requests are sent to.
func (p *PredictionService) BaseURL() string { return p.baseURL }

// Predict uploads file to POST /predict and returns the spreadsheet of a 2xx response.
func (p *PredictionService) Predict(ctx context.Context, file models.File) (*Prediction, error) {
	body, contentType, err := encodeForm(file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+PredictPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", models.SpreadsheetMIME)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: ErrorMessage(data)}
	}

	return &Prediction{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
	}, nil
}

// Health reports whether the service root answers with a 2xx status.
func (p *PredictionService) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// ErrorMessage extracts the "error" field from a JSON error body.
//
// Returns "" when the body is not JSON, has no such field, or the field is not a non-empty string.
func ErrorMessage(body []byte) string {
	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	msg, ok := payload.Error.(string)
	if !ok {
		return ""
	}
	return msg
}

// UserMessage converts any Predict error into a message for display, falling back to fallback.
func UserMessage(err error, fallback string) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}

func encodeForm(file models.File) (*bytes.Buffer, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     FormField,
		"filename": file.Name,
	}))
	h.Set("Content-Type", "application/octet-stream")

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("failed to copy file into form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
