package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates a document buffer could not be turned into text.
	ErrParse = errors.New("parse failed")

	// ErrSearchUnavailable indicates the primary search engine is not
	// configured, unreachable, or answered with an error.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrSearchFailed indicates both the primary engine and the fallback
	// store failed to answer a search.
	ErrSearchFailed = errors.New("search failed")

	// ErrBlobStoreUnavailable indicates no blob store is configured.
	ErrBlobStoreUnavailable = errors.New("blob store unavailable")

	// ErrFetch indicates a remote document could not be downloaded.
	ErrFetch = errors.New("fetch failed")
)

// ValidationError reports an invalid hierarchy triple or a missing or
// conflicting request parameter. It is a client error.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ParseError reports a document that could not be turned into text.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// EngineUnavailableError wraps a primary search engine failure.
// It never reaches an end caller; the gateway falls back on it.
type EngineUnavailableError struct {
	Op  string
	Err error
}

func (e *EngineUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("search engine %s: unavailable", e.Op)
	}
	return fmt.Sprintf("search engine %s: %v", e.Op, e.Err)
}

func (e *EngineUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSearchUnavailable) match.
func (e *EngineUnavailableError) Is(target error) bool {
	return target == ErrSearchUnavailable
}

// DuplicateKeyError reports a uniqueness violation in a store.
// Ingestion converts it into an update.
type DuplicateKeyError struct {
	Key string
	Err error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s", e.Key)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrAlreadyExists) match.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NotFoundError reports a lookup by id that resolved to nothing.
type NotFoundError struct {
	Kind string
	ID   string
}

// NewNotFoundError builds a NotFoundError.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
