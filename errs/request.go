package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Request & Input-Validation Errors
var (
	ErrValidationFailed    = errors.New("Validation failed")
	ErrMalformedPayload    = errors.New("malformed payload")
	ErrInvalidJSON         = errors.New("Invalid JSON body")
	ErrUploadRejected      = errors.New("upload rejected")
	ErrMaxBodySizeExceeded = errors.New("max body size exceeded")
)

// NewValidationError reports every failing field of a payload.
func NewValidationError(fieldErrors []FieldError) *ApiErr {
	return &ApiErr{
		StatusCode:  http.StatusBadRequest,
		err:         ErrValidationFailed,
		FieldErrors: fieldErrors,
	}
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidationFailed,
		Field:      fieldName,
		FieldErrors: []FieldError{{
			Field:   fieldName,
			Message: reason,
		}},
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidJSON,
		Cause:      cause,
		Field:      "json",
	}
}

// NewUploadRejectedError is returned for files outside the type allow-list
// or above their size limit. The message is shown to the uploader as-is.
func NewUploadRejectedError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%s%w", message, markerOf(ErrUploadRejected)),
		Field:      "file",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("File too large%w", markerOf(ErrMaxBodySizeExceeded)),
		Details:    fmt.Sprintf("request body exceeds %d bytes", maxSize),
		Field:      "file",
	}
}

func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsMalformedPayloadError(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

func IsInvalidJSONError(err error) bool {
	return errors.Is(err, ErrInvalidJSON)
}

func IsUploadRejected(err error) bool {
	return errors.Is(err, ErrUploadRejected)
}

func IsMaxBodySizeExceededError(err error) bool {
	return errors.Is(err, ErrMaxBodySizeExceeded)
}
