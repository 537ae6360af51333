package config

import (
	"errors"
	"fmt"

	"github.com/dshills/tepl/internal/config/loader"
)

var (
	// ErrInvalidSetting indicates a setting value outside its allowed range
	// or of the wrong type.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrUnsupportedFormat indicates a config file extension other than
	// .toml, .yaml or .yml.
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat
)

// ValidationError describes an invalid setting.
type ValidationError struct {
	// Path is the dotted setting path.
	Path string
	// Message describes the problem.
	Message string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Unwrap makes every ValidationError match ErrInvalidSetting.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidSetting
}
