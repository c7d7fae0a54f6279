package model

import (
	"fmt"
	"math"
)

// WeightTolerance is the floating tolerance applied to the sum-to-one
// check on comparison weights.
const WeightTolerance = 1e-6

// ComparisonWeights sets the relative importance of each scoring
// component. The five fractions must be non-negative and sum to 1.0;
// the engine fails fast on invalid weights rather than renormalizing.
type ComparisonWeights struct {
	Coverage    float64 `json:"coverage_weight" yaml:"coverage_weight"`       // Feature-match component
	Service     float64 `json:"service_weight" yaml:"service_weight"`         // Insurer reputation component
	Pricing     float64 `json:"pricing_weight" yaml:"pricing_weight"`         // Relative premium component
	Eligibility float64 `json:"eligibility_weight" yaml:"eligibility_weight"` // Soft-penalty component
	Takaful     float64 `json:"takaful_weight" yaml:"takaful_weight"`         // Takaful preference component
}

// DefaultWeights returns the standard weight set, used whenever a
// comparison request does not carry its own.
func DefaultWeights() ComparisonWeights {
	return ComparisonWeights{
		Coverage:    0.30,
		Service:     0.25,
		Pricing:     0.25,
		Eligibility: 0.10,
		Takaful:     0.10,
	}
}

// Sum returns the total of the five weights
func (w ComparisonWeights) Sum() float64 {
	return w.Coverage + w.Service + w.Pricing + w.Eligibility + w.Takaful
}

// Validate checks that every weight is non-negative and the set sums to
// 1.0 within WeightTolerance. The returned error matches ErrConfiguration.
func (w ComparisonWeights) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"coverage_weight", w.Coverage},
		{"service_weight", w.Service},
		{"pricing_weight", w.Pricing},
		{"eligibility_weight", w.Eligibility},
		{"takaful_weight", w.Takaful},
	} {
		if c.value < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("%s is negative (%g)", c.name, c.value)}
		}
	}

	if sum := w.Sum(); math.Abs(sum-1.0) > WeightTolerance {
		return &ConfigurationError{Reason: fmt.Sprintf("weights sum to %g, want 1.0", sum)}
	}

	return nil
}
