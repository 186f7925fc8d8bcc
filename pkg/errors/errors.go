// Package errors provides custom error types for the lodestar pipeline.
// These errors enable programmatic error checking so that per-record and
// per-field failures can be recovered locally without aborting a batch.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the lodestar system
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSlug indicates an entity identifier that is malformed or
	// would escape the canonical store directory
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrStoreRead indicates a canonical file that could not be read or parsed
	ErrStoreRead = errors.New("store read failed")

	// ErrPersist indicates an unrecoverable failure writing a canonical file.
	// This is the only batch-fatal condition in the pipeline.
	ErrPersist = errors.New("persist failed")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")
)

// SlugError represents an invalid or path-escaping entity identifier.
// It is fatal for the single record that carried it, never for the batch.
type SlugError struct {
	Slug    string
	Message string
}

// Error implements the error interface
func (e *SlugError) Error() string {
	return fmt.Sprintf("invalid slug %q: %s", e.Slug, e.Message)
}

// Is implements errors.Is support
func (e *SlugError) Is(target error) bool {
	return target == ErrInvalidSlug
}

// NewSlugError creates a new SlugError
func NewSlugError(slug, message string) *SlugError {
	return &SlugError{Slug: slug, Message: message}
}

// StoreReadError represents a canonical file that failed to load or parse.
// Index builders skip these files; they never block unrelated entities.
type StoreReadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *StoreReadError) Error() string {
	return fmt.Sprintf("failed to read canonical file %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *StoreReadError) Is(target error) bool {
	return target == ErrStoreRead
}

// NewStoreReadError creates a new StoreReadError
func NewStoreReadError(path string, err error) *StoreReadError {
	return &StoreReadError{Path: path, Err: err}
}

// PersistError represents an unrecoverable store I/O failure while writing
// a specific entity. It carries the entity slug so callers can report which
// document was being persisted when the batch died.
type PersistError struct {
	Slug string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist entity %s to %s: %v", e.Slug, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PersistError) Is(target error) bool {
	return target == ErrPersist
}

// NewPersistError creates a new PersistError
func NewPersistError(slug, path string, err error) *PersistError {
	return &PersistError{Slug: slug, Path: path, Err: err}
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "delete"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidSlug checks if an error is a slug validation error
func IsInvalidSlug(err error) bool {
	return errors.Is(err, ErrInvalidSlug)
}

// IsStoreRead checks if an error is a canonical file read error
func IsStoreRead(err error) bool {
	return errors.Is(err, ErrStoreRead)
}

// IsPersist checks if an error is a batch-fatal persist error
func IsPersist(err error) bool {
	return errors.Is(err, ErrPersist)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
