package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no content file exists for a slug.
	ErrNotFound = errors.New("content: not found")

	// ErrMissingField matches any *MissingFieldError.
	ErrMissingField = errors.New("content: missing required front matter field")

	// ErrDuplicateSlug is returned when two files in a category map to the same slug.
	ErrDuplicateSlug = errors.New("content: duplicate slug")
)

// MissingFieldError reports a required front matter field absent from File.
type MissingFieldError struct {
	File  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("content: %s: missing required front matter field %q", e.File, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InvalidFieldError reports a front matter field whose value cannot be used.
type InvalidFieldError struct {
	File  string
	Field string
	Value string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("content: %s: invalid front matter field %q (%q): %v", e.File, e.Field, e.Value, e.Err)
}

func (e *InvalidFieldError) Unwrap() error { return e.Err }
