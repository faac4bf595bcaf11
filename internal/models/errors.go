package models

import (
	"errors"
	"net/http"
)

// FailureKind classifies why an orchestration step failed so callers can pick a fallback.
type FailureKind string

const (
	FailureUpstream    FailureKind = "upstream_error"
	FailureMalformed   FailureKind = "malformed_output"
	FailurePersistence FailureKind = "persistence_error"
	FailureInvalid     FailureKind = "invalid_input"
	FailureNotFound    FailureKind = "not_found"
)

// Failure is the typed error returned by the generation services.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return string(f.Kind) + ": " + f.Message + " (" + f.Err.Error() + ")"
	}
	return string(f.Kind) + ": " + f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func NewFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// FailureKindOf returns the kind of the first Failure in err's chain, or FailureUpstream.
func FailureKindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUpstream
}

// HTTPStatus maps a failure kind onto the status code returned to clients.
func (k FailureKind) HTTPStatus() int {
	switch k {
	case FailureInvalid:
		return http.StatusBadRequest
	case FailureNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("record not found")
