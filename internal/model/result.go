package model

import "time"

// EligibilityOutcome is the eligibility filter's verdict for one policy.
// Ineligibility is an outcome, not an error: the policy moves to the
// excluded list with its reasons and is never scored.
type EligibilityOutcome struct {
	Eligible          bool     `json:"eligible"`
	PremiumMultiplier float64  `json:"premium_multiplier"`  // Combined soft risk multiplier after clamping
	AdjustedPremium   float64  `json:"adjusted_premium"`    // base_premium * (1 - ncd/100) * multiplier, 2dp
	Reasons           []string `json:"reasons,omitempty"`   // Violated hard bounds, one string per bound
	Penalties         []string `json:"penalties,omitempty"` // Soft risk flags raised while deriving the multiplier
}

// ComponentScores is the per-dimension breakdown behind a total score.
// Every component is normalized to 0-100 before weighting so the weights
// stay comparable across dimensions.
type ComponentScores struct {
	Coverage    float64 `json:"coverage"`    // Requested-feature match, or breadth when nothing was requested
	Service     float64 `json:"service"`     // Insurer reputation, midpoint 50 when unknown
	Pricing     float64 `json:"pricing"`     // Relative position in the batch premium range, cheapest = 100
	Eligibility float64 `json:"eligibility"` // 100 minus a step per soft penalty, floored at 0
	Takaful     float64 `json:"takaful"`     // Preference match; 100 for everyone when no preference stated
}

// ScoredPolicy is one ranked entry in a comparison result. It is derived
// per request and discarded after the result is returned.
type ScoredPolicy struct {
	Policy          Policy          `json:"policy"`
	AdjustedPremium float64         `json:"adjusted_premium"` // Carried from the eligibility outcome
	Eligible        bool            `json:"eligible"`
	ComponentScores ComponentScores `json:"component_scores"`
	TotalScore      float64         `json:"total_score"` // Weighted sum, 0-100, one decimal
	Rationale       []string        `json:"rationale"`   // 2-4 short explanation fragments
}

// ExcludedPolicy reports a policy removed before scoring and why.
// Excluded policies are always surfaced, never silently dropped.
type ExcludedPolicy struct {
	Policy  Policy   `json:"policy"`
	Reasons []string `json:"reasons"` // The violated eligibility bounds
}

// ComparisonResult is the full outcome of one comparison call. An empty
// RankedPolicies slice is a valid result, not an error: it means every
// candidate was excluded.
type ComparisonResult struct {
	ComparisonID     string            `json:"comparison_id"`     // Unique id for this comparison run
	RankedPolicies   []ScoredPolicy    `json:"ranked_policies"`   // Best first
	ExcludedPolicies []ExcludedPolicy  `json:"excluded_policies"` // Ineligible candidates with reasons
	WeightsUsed      ComparisonWeights `json:"weights_used"`
	GeneratedAt      time.Time         `json:"generated_at"`
	PolicyCount      int               `json:"policy_count"`   // Candidates considered
	EligibleCount    int               `json:"eligible_count"` // Candidates that survived the hard bounds
}
