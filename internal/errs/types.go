package errs

import (
	"net/http"
)

// NewStatusError builds an HTTPError for status with its standard code and
// no message. Used when the caller must see the status and nothing else.
func NewStatusError(status int) *HTTPError {
	return &HTTPError{
		Code:   MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Status: status,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(message string) *HTTPError {
	return NewStatusError(http.StatusUnauthorized).WithMessage(message)
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil; errors carries
// optional field-level detail.
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return NewStatusError(http.StatusNotFound).WithMessage(message)
}

// NewPayloadTooLargeError creates a 413 HTTPError.
func NewPayloadTooLargeError(message string) *HTTPError {
	return NewStatusError(http.StatusRequestEntityTooLarge).WithMessage(message)
}

// NewInternalServerError creates an opaque 500. The caller receives no
// detail; the cause belongs in the log line written next to it.
func NewInternalServerError() *HTTPError {
	return NewStatusError(http.StatusInternalServerError)
}

// NewUpstreamError mirrors a status code returned by a downstream API.
// Out-of-range codes collapse to 502.
func NewUpstreamError(status int) *HTTPError {
	if status < 100 || status > 599 {
		status = http.StatusBadGateway
	}
	return NewStatusError(status)
}

// NewBadGatewayError reports a downstream API that could not be reached.
func NewBadGatewayError() *HTTPError {
	return NewStatusError(http.StatusBadGateway)
}

// NewGatewayTimeoutError reports a downstream call that ran out of time.
func NewGatewayTimeoutError() *HTTPError {
	return NewStatusError(http.StatusGatewayTimeout)
}
