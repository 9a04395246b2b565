package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrNoSession           = errors.New("no active session")
	ErrParse               = errors.New("unexpected response shape")
	ErrIO                  = errors.New("read input")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrSecretNotFound      = errors.New("secret not found")

	ErrCredentialNotFound   = fmt.Errorf("credential %w", ErrNotFound)
	ErrHistoryEntryNotFound = fmt.Errorf("history entry %w", ErrNotFound)
)

// HTTPError is returned when the summarization endpoint answers with a non-success status.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}

	msg := fmt.Sprintf("API request failed: %s.", status)
	if e.Message != "" {
		msg += " " + e.Message
	}

	return msg
}
