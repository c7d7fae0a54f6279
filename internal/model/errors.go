package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the comparison core. Callers branch with errors.Is;
// the typed errors below carry the detail.
var (
	// ErrNormalization indicates a raw policy record could not be coerced
	// into the canonical schema. The caller decides whether to skip the
	// record or abort the batch.
	ErrNormalization = errors.New("normalization failed")

	// ErrConfiguration indicates the comparison weights or engine
	// configuration are unusable. Nothing is scored when this is returned.
	ErrConfiguration = errors.New("invalid configuration")
)

// NormalizationError reports which raw field failed to normalize and why.
type NormalizationError struct {
	Field  string // Canonical field name (e.g., "base_premium")
	Reason string // Human-readable cause (e.g., "cannot parse \"abc\" as a number")
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization failed: %s: %s", e.Field, e.Reason)
}

// Unwrap ties the error to ErrNormalization for errors.Is matching
func (e *NormalizationError) Unwrap() error { return ErrNormalization }

// ConfigurationError reports why a weight set or engine configuration
// was rejected before any scoring occurred.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// Unwrap ties the error to ErrConfiguration for errors.Is matching
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
