package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteRawJSON sends a document that is already encoded, such as a stored
// conversion result.
func WriteRawJSON(w http.ResponseWriter, statusCode int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// WriteErrorFromError picks the status and code from err's type.
func WriteErrorFromError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: err.Error(),
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	WriteJSON(w, status, resp)
}
