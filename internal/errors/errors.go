package errors

import "errors"

// Common application errors for type-safe error handling.
// These errors can be checked using errors.Is() instead of string comparison.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrMalformedExif = errors.New("malformed EXIF data")
	ErrDecode        = errors.New("image decode failed")
	ErrEncode        = errors.New("image encode failed")
)
