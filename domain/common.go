package domain

import (
	"errors"
	"fmt"
)

const (
	HeaderRequestID = "X-Request-ID"
	CookieWorkspace = "fr_workspace"

	LocalsRequestID = "requestid"
	LocalsWorkspace = "workspace"
)

var (
	MessageSuccessGetScreenState = "screen state retrieved successfully"
	MessageSuccessHealth         = "ok"

	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetScreenState = "failed to retrieve screen state"

	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnexpectedStatus   = errors.New("unexpected backend status")
	ErrMalformedResponse  = errors.New("malformed backend response")
	ErrUnknownScreen      = errors.New("unknown screen")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
)

// BackendError is returned when the backend answers with a non-2xx status.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Body)
}

func (e *BackendError) Unwrap() error {
	return ErrUnexpectedStatus
}
