package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreClosed  = errors.New("store is closed")
	ErrCorruptStore = errors.New("stored document failed validation")
)

// Transaction errors.
var (
	ErrValidationFailure = errors.New("mutated document failed validation")
	ErrWriteFailure      = errors.New("document write failed")
)

// Entity and tree errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrTypeMismatch = errors.New("group type mismatch")
	ErrInvalidID    = errors.New("invalid entity ID")
	ErrInvalidName  = errors.New("invalid name")
)

// Recurrence errors. Both are non-fatal to the completion that triggered
// the expansion; callers commit the completion and skip instance creation.
var (
	ErrMissingAnchor         = errors.New("recurring task has no due date anchor")
	ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")
)
