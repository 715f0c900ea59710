package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope for every non-raw JSON body the API returns.
type Response struct {
	Status  string      `json:"status"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const internalErrorMessage = "internal server error"

// WriteJSON encodes data with the given status. Encoding failures happen
// after the header is sent, so they are logged and returned.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", slog.Int("status", status), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Fail writes an error envelope carrying msg.
func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Response{Status: StatusError, Error: msg})
}

// Internal writes a 500 with a generic message. The cause stays in the logs.
func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, internalErrorMessage)
}

// ValidationError lists each failed field as "Field: tag".
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Field()+": "+err.Tag())
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, "; "),
	}
}

func RequestOK(message string, data interface{}) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}
