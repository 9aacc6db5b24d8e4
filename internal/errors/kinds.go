package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/b2p/b2p-admin/internal/constants"
)

var (
	// ErrMissingBaseURL is returned by every data operation when no API base URL is configured.
	ErrMissingBaseURL = goerrors.New(constants.MsgMissingBaseURL)

	// ErrUnauthorized matches any 401 that survived the token refresh retry.
	ErrUnauthorized = goerrors.New(constants.MsgUnauthorized)

	// ErrNotAdmin is returned when the backend rejects the signed-in user as non-administrator.
	ErrNotAdmin = goerrors.New(constants.MsgNotAdmin)

	// ErrInvalidCredentials is the localized sign-in failure for bad email/password pairs.
	ErrInvalidCredentials = goerrors.New(constants.MsgInvalidCredentials)

	// ErrLoginFailed is the generic sign-in failure.
	ErrLoginFailed = goerrors.New(constants.MsgLoginFailed)

	// ErrNoSession is returned when an operation needs a signed-in user and there is none.
	ErrNoSession = goerrors.New("no hay una sesión activa, ejecuta 'b2p login'")
)

// APIError is a non-2xx response from the REST backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// NewAPIError builds an APIError, using fallback when the body carried no message.
func NewAPIError(status int, message, fallback string) *APIError {
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	return &APIError{Status: status, Message: message}
}

// Message extracts the human-readable text of err, or fallback when err is nil
// or carries nothing printable.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if goerrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Is, As and New re-export the standard helpers so callers importing this
// package under its own name keep them.
func Is(err, target error) bool { return goerrors.Is(err, target) }

func As(err error, target any) bool { return goerrors.As(err, target) }

func New(text string) error { return goerrors.New(text) }
