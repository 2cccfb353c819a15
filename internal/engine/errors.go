package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNotConfigured   = errors.New("engine not configured")
	ErrBusy            = errors.New("a frame is already in progress")
	ErrStreamUnderrun  = errors.New("stream ended before the frame was complete")
	ErrMalformedSample = errors.New("malformed sample metadata")
)

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%d %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// StreamError locates a frame-level failure at the sample that caused it.
type StreamError struct {
	Row int
	Col int
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("sample (row %d, col %d): %v", e.Row, e.Col, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
