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

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidQuery indicates a query failed validation before any external call.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyInput indicates text to embed was blank after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoValidInput indicates every entry of an embedding batch was blank.
	ErrNoValidInput = errors.New("no valid input")

	// ErrInvalidLimit indicates a search was requested with k <= 0.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrDimensionMismatch indicates a vector does not match the store dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingFailed indicates the embedding provider could not produce a vector.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrRetrievalFailed indicates the vector search step failed.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrGenerationDegraded indicates generation failed after retrieval succeeded.
	// It is reported on the result, never returned as a failure.
	ErrGenerationDegraded = errors.New("generation degraded")

	// ErrStoreUnavailable indicates the vector store could not be reached or failed I/O.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation service is not configured.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrUnsupportedType indicates an unknown provider or store backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRateLimited indicates a provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError reports the offending field and the constraint it broke.
type ValidationError struct {
	// Field is the input field name (e.g. "title", "result_limit").
	Field string

	// Constraint describes the rule that failed.
	Constraint string

	// Query marks errors raised while validating a query.
	Query bool
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Constraint)
}

// Unwrap lets errors.Is match ErrInvalidInput, and ErrInvalidQuery for query fields.
func (e *ValidationError) Unwrap() []error {
	if e.Query {
		return []error{ErrInvalidInput, ErrInvalidQuery}
	}
	return []error{ErrInvalidInput}
}

// NewQueryError creates a ValidationError for a query field.
func NewQueryError(field, constraint string) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint, Query: true}
}

// AsValidationError extracts a ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
