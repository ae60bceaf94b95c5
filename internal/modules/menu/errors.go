package menu

import (
	"errors"
	"fmt"
)

// ErrInsufficientCredits means the user cannot afford a menu processing run.
// No work is performed and nothing is charged.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrMenuNotFound is returned for unknown menu ids, and for menus owned by a
// different user so ids cannot be enumerated.
var ErrMenuNotFound = errors.New("menu not found")

// ExtractionError wraps a failure of the extraction pipeline (both the text
// path and the vision fallback exhausted).
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract menu items: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed save transaction. Nothing was written and
// nothing was charged.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save menu data: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
