package ecode

import (
	"net/http"
)

// Common codes.
const (
	OK = 0

	RequestErr = -400
	ParamErr   = -401
	NotFound   = -404

	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var (
	texts = map[int]string{
		OK:                 "ok",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		NotFound:           "Resource not found",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		NotFound:           http.StatusNotFound,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
	}
)

// Text returns the message of code, or the server error message for unknown codes.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}

// ToHTTPStatus maps code to an HTTP status, 500 for unknown codes.
func ToHTTPStatus(code int) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
