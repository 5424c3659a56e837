package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/pager/ecode"
)

// Exception is both the failure envelope written by Fail and the value the
// constructors in this package return.
type Exception struct {
	Status  int    `json:"status,omitempty"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func newException(status, code int, message string, details ...any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(details) > 0 {
		e.Errors = details[0]
	}
	return e
}

// Success writes data with status 200.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes data with statusCode. A string payload, or no
// payload at all, is sent as {"message": ...}. A failure status is written as
// a failure envelope.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}

	if statusCode < 200 || statusCode >= 400 {
		message, _ := payload.(string)
		Fail(w, &Exception{Status: statusCode, Code: ecode.RequestErr, Message: message})
		return
	}

	switch v := payload.(type) {
	case nil:
		writeJSON(w, statusCode, map[string]any{"message": ecode.Text(ecode.OK)})
	case string:
		writeJSON(w, statusCode, map[string]any{"message": v})
	default:
		writeJSON(w, statusCode, v)
	}
}

// Fail writes a failure envelope. A nil exception is sent as an internal
// server error; a missing status, code or message takes the request error
// defaults.
func Fail(w http.ResponseWriter, e *Exception) {
	if e == nil {
		e = InternalServer("")
	}

	status, code := e.Status, e.Code
	if status == 0 {
		status = http.StatusBadRequest
	}
	if code == 0 {
		code = ecode.RequestErr
	}
	message := e.Message
	if message == "" {
		message = ecode.Text(code)
	}

	writeJSON(w, status, &Exception{Code: code, Message: message, Errors: e.Errors})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
