package resp

import (
	"net/http"

	"github.com/ncobase/pager/ecode"
)

// BadRequest indicates a bad request.
func BadRequest(message string, details ...any) *Exception {
	return newException(http.StatusBadRequest, ecode.RequestErr, message, details...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, details ...any) *Exception {
	return newException(http.StatusNotFound, ecode.NotFound, message, details...)
}

// InternalServer indicates a server error.
func InternalServer(message string, details ...any) *Exception {
	return newException(http.StatusInternalServerError, ecode.ServerErr, message, details...)
}

// ServiceUnavailable indicates that a dependency is down.
func ServiceUnavailable(message string, details ...any) *Exception {
	return newException(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, details...)
}
