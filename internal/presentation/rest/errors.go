package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bibbank/collections/internal/domain/model"
)

// errorBody is the JSON shape of every failed request. The validation
// detail fields are only present for invariant violations.
type errorBody struct {
	Message       string `json:"message"`
	Error         string `json:"error"`
	Timestamp     string `json:"timestamp"`
	ErrorCode     string `json:"errorCode,omitempty"`
	Field         string `json:"field,omitempty"`
	CurrentValue  any    `json:"currentValue,omitempty"`
	ExpectedValue any    `json:"expectedValue,omitempty"`
}

// Values of errorBody.Error.
const (
	errorKindNotFound       = "NotFound"
	errorKindValidation     = "ValidationFailure"
	errorKindIllegalRequest = "IllegalRequest"
	errorKindConflict       = "ConcurrentModification"
	errorKindInternal       = "InternalError"
)

// writeError maps err onto a status code and error body. Internal failures
// are logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	body := errorBody{
		Message:   err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusInternalServerError

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body.Message = verr.Message
		body.Error = errorKindValidation
		body.ErrorCode = verr.Code
		body.Field = verr.Field
		body.CurrentValue = verr.CurrentValue
		body.ExpectedValue = verr.ExpectedValue
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
		body.Error = errorKindNotFound
	case errors.Is(err, model.ErrIllegalRequest):
		status = http.StatusBadRequest
		body.Error = errorKindIllegalRequest
	case errors.Is(err, model.ErrConcurrentModification):
		status = http.StatusConflict
		body.Error = errorKindConflict
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		body.Message = "internal server error"
		body.Error = errorKindInternal
	}

	writeJSON(w, status, body)
}

// badRequest answers a request that could not be decoded.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Message:   message,
		Error:     errorKindIllegalRequest,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// decodeJSON reads a JSON body into dst, rejecting trailing data.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
