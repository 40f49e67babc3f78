// Package errortypes holds the error kinds surfaced to API callers.
package errortypes

import "errors"

var (
	// ErrInvalidArgument marks a missing or empty required field. Surfaced as 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a document that does not exist or has no content. Surfaced as 404.
	ErrNotFound = errors.New("not found")
)

// IsInvalidArgument reports whether err is an ErrInvalidArgument.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
