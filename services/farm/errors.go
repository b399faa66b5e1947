package farm

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeNoBait     Code = "NO_BAIT"
	CodeUpstream   Code = "UPSTREAM_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error is the only error type the service returns. It carries an
// HTTP-style classification of the failed attempt so transports can map it
// onto a response without string matching.
type Error struct {
	StatusCode int
	Code       Code
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, code Code, format string, args ...any) *Error {
	return &Error{
		StatusCode: status,
		Code:       code,
		Message:    fmt.Sprintf(format, args...),
	}
}

func validation(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeValidation, format, args...)
}

func notFound(format string, args ...any) *Error {
	return newError(http.StatusNotFound, CodeNotFound, format, args...)
}

func noBait(format string, args ...any) *Error {
	return newError(http.StatusBadRequest, CodeNoBait, format, args...)
}

func upstream(statusCode int) *Error {
	return newError(http.StatusBadGateway, CodeUpstream, "upstream returned HTTP %d", statusCode)
}

func internal(err error) *Error {
	return newError(http.StatusInternalServerError, CodeInternal, "%s", err.Error())
}

// StatusOf maps any error to the HTTP status a transport should report.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
