package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookup failures
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrRegistryFrozen   = errors.New("registry is frozen")
)

// ResolutionCode identifies a class of resolution failure
type ResolutionCode string

const (
	ResolutionUnknownKind ResolutionCode = "UnknownKind"
	ResolutionInvalidProp ResolutionCode = "InvalidProp"
)

// ResolutionError reports why a request could not be normalized into a
// ComponentSpec. Resolution failures are fatal to the job; no per-platform
// work is performed.
type ResolutionError struct {
	Code    ResolutionCode `json:"code"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
}

func (e *ResolutionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("resolution failed (%s): %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("resolution failed (%s): %s", e.Code, e.Message)
}

// NewUnknownKind creates an UnknownKind resolution error
func NewUnknownKind(kind string) *ResolutionError {
	return &ResolutionError{
		Code:    ResolutionUnknownKind,
		Message: fmt.Sprintf("unknown component kind %q", kind),
	}
}

// NewInvalidProp creates an InvalidProp resolution error
func NewInvalidProp(field, message string) *ResolutionError {
	return &ResolutionError{
		Code:    ResolutionInvalidProp,
		Field:   field,
		Message: message,
	}
}

// AsResolutionError unwraps a ResolutionError from an error chain
func AsResolutionError(err error) (*ResolutionError, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
