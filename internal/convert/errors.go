package convert

import (
	"errors"
	"fmt"
)

// Errors returned by converters.
var (
	// ErrUnsupportedConversion is returned when no transcoder exists for a charset pair.
	ErrUnsupportedConversion = errors.New("conversion not supported")

	// ErrOpenFailed is returned when a transcoder cannot be opened for another reason.
	ErrOpenFailed = errors.New("failed to open converter")

	// ErrInvalidInput marks an input byte sequence that is invalid in the source charset.
	ErrInvalidInput = errors.New("invalid byte sequence in conversion input")

	// ErrIncompleteTrailingInput is returned by Close when the input ends
	// inside a multi-byte sequence.
	ErrIncompleteTrailingInput = errors.New("partial character sequence at end of input")

	// ErrConversionFailed wraps any other failure of the underlying transcoder.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrNotOpen is returned when a converter is used before Open or after Close.
	ErrNotOpen = errors.New("converter not open")

	// ErrAlreadyOpen is returned when Open is called twice without Close.
	ErrAlreadyOpen = errors.New("converter already open")

	errOutputTooSmall = errors.New("output buffer too small for one character")
)

// Error describes a failed conversion step.
type Error struct {
	Op     string // "open", "feed", "flush" or "close"
	From   string // source charset
	To     string // target charset
	Offset int64  // input offset of the failure, -1 when not applicable
	Err    error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("convert %s %s to %s at offset %d: %v", e.Op, e.From, e.To, e.Offset, e.Err)
	}
	return fmt.Sprintf("convert %s %s to %s: %v", e.Op, e.From, e.To, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// failure wraps cause as an underlying conversion failure.
func failure(cause error) error {
	return fmt.Errorf("%w: %w", ErrConversionFailed, cause)
}
