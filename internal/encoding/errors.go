package encoding

import "errors"

// Errors returned by the encoding package.
var (
	// ErrEmptyCharset is returned when an Encoding is built from an empty charset.
	ErrEmptyCharset = errors.New("empty charset")

	// ErrUnknownCharset is returned when no conversion implementation exists for a charset.
	ErrUnknownCharset = errors.New("unknown charset")
)
