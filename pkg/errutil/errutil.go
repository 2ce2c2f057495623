package errutil

import (
	"errors"
	"net/http"
)

type ErrorType string

const (
	TypeBadRequest    ErrorType = "BadRequestError"
	TypeValidation    ErrorType = "ValidationError"
	TypeUnauthorized  ErrorType = "UnauthorizedError"
	TypeNotFound      ErrorType = "NotFoundError"
	TypeConflict      ErrorType = "ConflictError"
	TypeConfiguration ErrorType = "ConfigurationError"
	TypeSendFailure   ErrorType = "SendFailureError"
	TypeDatabase      ErrorType = "DatabaseError"
	TypeInternal      ErrorType = "InternalError"
)

type HttpError struct {
	code    int
	errType ErrorType
	err     error
}

func (e *HttpError) Error() string {
	if e.err == nil {
		return string(e.errType)
	}
	return e.err.Error()
}

func (e *HttpError) Unwrap() error {
	return e.err
}

func (e *HttpError) Code() int {
	return e.code
}

func (e *HttpError) Type() ErrorType {
	return e.errType
}

func newHttpError(code int, errType ErrorType, err error) error {
	return &HttpError{
		code:    code,
		errType: errType,
		err:     err,
	}
}

func BadRequestError(err error) error {
	return newHttpError(http.StatusBadRequest, TypeBadRequest, err)
}

func ValidationError(err error) error {
	return newHttpError(http.StatusBadRequest, TypeValidation, err)
}

func UnauthorizedError(err error) error {
	return newHttpError(http.StatusUnauthorized, TypeUnauthorized, err)
}

func NotFoundError(err error) error {
	return newHttpError(http.StatusNotFound, TypeNotFound, err)
}

func ConflictError(err error) error {
	return newHttpError(http.StatusConflict, TypeConflict, err)
}

// ConfigurationError reports missing or invalid server-side settings.
func ConfigurationError(err error) error {
	return newHttpError(http.StatusInternalServerError, TypeConfiguration, err)
}

// SendFailureError reports a rejected or failed call to the email provider.
func SendFailureError(err error) error {
	return newHttpError(http.StatusInternalServerError, TypeSendFailure, err)
}

func DatabaseError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return err
	}
	return newHttpError(http.StatusInternalServerError, TypeDatabase, err)
}

// ParseHttpError returns the status code and message for err.
// A nil error maps to 200 with an empty message.
func ParseHttpError(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.code, err.Error()
	}

	return http.StatusInternalServerError, err.Error()
}

func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}

	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.errType
	}

	return TypeInternal
}

func IsNotFound(err error) bool {
	return GetErrorType(err) == TypeNotFound
}
