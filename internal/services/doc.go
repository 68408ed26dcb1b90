// Package services implements the HTTP client for the prediction service.
//
// # Prediction Endpoint
//
// [PredictionService.Predict] posts one file as multipart form field "file" to POST /predict and returns the raw
// spreadsheet bytes of a 2xx response. The client sets no timeout and never retries.
//
// # Error Handling
//
// Failures use typed errors from the shared package:
//   - [shared.ErrServiceUnavailable] : the request could not be sent or the response could not be read
//   - [shared.ErrAPIRequest] : the service answered with a non-2xx status, see [ServiceError]
//
// A non-2xx body of the form {"error": "..."} supplies [ServiceError.Message]; any other body leaves it empty.
package services
