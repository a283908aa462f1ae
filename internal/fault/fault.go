// Package fault defines the error taxonomy shared across promptdeck.
// All operational failures wrap one of these sentinels so callers can
// branch with errors.Is instead of string matching.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigIncomplete indicates required extraction fields are missing.
	// Raised before any external call is made.
	ErrConfigIncomplete = errors.New("extraction configuration incomplete")

	// ErrSourceUnavailable indicates a scan, read or fetch failed.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrValidationFailed indicates a malformed session file or response shape.
	ErrValidationFailed = errors.New("validation failed")

	// ErrIoDenied indicates a write or export failure.
	ErrIoDenied = errors.New("write denied")

	// ErrUserCancelled indicates a dismissed dialog. Treated as a no-op,
	// never surfaced as a failure.
	ErrUserCancelled = errors.New("cancelled by user")
)

// ConfigError wraps ErrConfigIncomplete with the offending field.
type ConfigError struct {
	Kind  string
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s config: missing %s", e.Kind, e.Field)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigIncomplete
}

// NewConfigError creates a typed incomplete-configuration error.
func NewConfigError(kind, field string) error {
	return &ConfigError{Kind: kind, Field: field}
}

// SourceError wraps ErrSourceUnavailable with the failing location.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return ErrSourceUnavailable
}

// NewSourceError creates a typed source error.
func NewSourceError(path string, err error) error {
	return &SourceError{Path: path, Err: err}
}

// IsConfigIncomplete checks if an error is an incomplete configuration.
func IsConfigIncomplete(err error) bool {
	return errors.Is(err, ErrConfigIncomplete)
}

// IsSourceUnavailable checks if an error is a source failure.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsCancelled checks if an error is a user cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrUserCancelled)
}
