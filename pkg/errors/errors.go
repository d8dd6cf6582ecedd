package errors

import "fmt"

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConfiguration is returned when an import run cannot start at all
// (disabled credentials, missing family mapping)
type ErrConfiguration struct {
	Message string
}

func (e *ErrConfiguration) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid configuration"
}

// ErrStorage is returned when the media temp directory or backend is unusable
type ErrStorage struct {
	Path    string
	Message string
}

func (e *ErrStorage) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("storage error: %s", e.Path)
}
