package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Authentication & Session Errors
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrMissingToken       = errors.New("missing session token")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrExpiredToken       = errors.New("expired session token")
)

// Configuration & Third-Party Errors
var (
	ErrConfigMissing      = errors.New("configuration missing")
	ErrStorageFailure     = errors.New("storage operation failed")
	ErrNotificationFailed = errors.New("notification failed")
)

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
		Field:      "email",
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("%s is not set", key),
		Field:      key,
	}
}

// NewStorageError wraps a failed call to the object storage provider.
// operation reads like "upload file" and becomes the client message.
func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("Failed to %s%w", operation, markerOf(ErrStorageFailure)),
		Cause:      cause,
	}
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}
