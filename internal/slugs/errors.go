package slugs

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySlug       = errors.New("slugs: text produces an empty slug")
	ErrLookup          = errors.New("slugs: collision lookup failed")
	ErrSlugExhausted   = errors.New("slugs: unique slug attempts exhausted")
	ErrConflict        = errors.New("slugs: slug already taken")
	ErrUnknownLanguage = errors.New("slugs: unknown language")
)

// LookupError reports a failed Exists call. It matches both ErrLookup and
// the underlying store error.
type LookupError struct {
	Slug string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("slugs: lookup %q: %v", e.Slug, e.Err)
}

func (e *LookupError) Unwrap() []error {
	return []error{ErrLookup, e.Err}
}

// ExhaustedError is returned once MakeUnique runs out of attempts.
type ExhaustedError struct {
	Base     string
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("slugs: no free slug for %q after %d attempts", e.Base, e.Attempts)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrSlugExhausted
}
