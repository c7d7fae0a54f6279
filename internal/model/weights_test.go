package model

import (
	"errors"
	"testing"
)

func TestComparisonWeights_Validate_DefaultWeights(t *testing.T) {
	w := DefaultWeights()

	if err := w.Validate(); err != nil {
		t.Errorf("Expected default weights to validate, got %v", err)
	}

	if w.Sum() != 1.0 {
		t.Errorf("Expected default weights to sum to 1.0, got %g", w.Sum())
	}
}

func TestComparisonWeights_Validate_SumWithinTolerance(t *testing.T) {
	// Off by less than the tolerance: still valid
	w := ComparisonWeights{
		Coverage:    0.30,
		Service:     0.25,
		Pricing:     0.25,
		Eligibility: 0.10,
		Takaful:     0.10 + 5e-7,
	}

	if err := w.Validate(); err != nil {
		t.Errorf("Expected sum within tolerance to validate, got %v", err)
	}
}

func TestComparisonWeights_Validate_SumTooLow(t *testing.T) {
	w := ComparisonWeights{
		Coverage:    0.30,
		Service:     0.25,
		Pricing:     0.25,
		Eligibility: 0.10,
		Takaful:     0.05,
	}

	err := w.Validate()
	if err == nil {
		t.Fatal("Expected error for weights summing to 0.95, got nil")
	}

	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected error to match ErrConfiguration, got %v", err)
	}

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected *ConfigurationError, got %T", err)
	}
}

func TestComparisonWeights_Validate_NegativeWeight(t *testing.T) {
	// Sums to 1.0 but a component is negative: still invalid
	w := ComparisonWeights{
		Coverage:    0.60,
		Service:     0.25,
		Pricing:     0.25,
		Eligibility: -0.10,
		Takaful:     0.0,
	}

	err := w.Validate()
	if err == nil {
		t.Fatal("Expected error for negative weight, got nil")
	}

	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected error to match ErrConfiguration, got %v", err)
	}
}

func TestComparisonWeights_Validate_ZeroValue(t *testing.T) {
	var w ComparisonWeights

	if err := w.Validate(); err == nil {
		t.Error("Expected zero-value weights to fail validation, got nil")
	}
}
