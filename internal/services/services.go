package services

import (
	"context"

	"github.com/desertthunder/predictx/internal/models"
)

// Predictor sends a file to a prediction service and returns the computed spreadsheet.
type Predictor interface {
	// Predict uploads file and blocks until the service answers.
	Predict(ctx context.Context, file models.File) (*Prediction, error)
}

// Prediction is a successful response from the prediction service.
type Prediction struct {
	Data        []byte // Raw spreadsheet bytes
	ContentType string // Content-Type reported by the service
	Filename    string // Attachment name suggested by the service, if any
}
