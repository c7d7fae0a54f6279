package score

import (
	"math"
	"strings"

	"github.com/perisailabs/perisai/internal/model"
)

// PremiumRange is the adjusted-premium spread of the eligible batch.
// Pricing is the only component with a cross-policy dependency, so the
// range is computed in a first pass before any pricing score.
type PremiumRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RangeOf collects the premium range over a batch of adjusted premiums
func RangeOf(premiums []float64) PremiumRange {
	if len(premiums) == 0 {
		return PremiumRange{}
	}

	r := PremiumRange{Min: premiums[0], Max: premiums[0]}
	for _, p := range premiums[1:] {
		if p < r.Min {
			r.Min = p
		}
		if p > r.Max {
			r.Max = p
		}
	}
	return r
}

// Scorer computes the weighted multi-factor score for eligible policies.
// Every component is normalized to 0-100 before weighting so the weights
// stay comparable regardless of each sub-score's raw distribution.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a Scorer with the given thresholds, falling back to
// the defaults when the scale is unusable.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	if cfg.ServiceRatingMax <= 0 {
		cfg = model.DefaultConfig().Scoring
	}
	return &Scorer{cfg: cfg}
}

// Score computes the component scores and weighted total for one policy.
// Weights are validated before anything is scored; an invalid set fails
// the whole call with a ConfigurationError.
func (s *Scorer) Score(
	policy model.Policy,
	customer model.CustomerProfile,
	outcome model.EligibilityOutcome,
	batch PremiumRange,
	rating *float64,
	weights model.ComparisonWeights,
) (model.ComponentScores, float64, error) {
	if err := weights.Validate(); err != nil {
		return model.ComponentScores{}, 0, err
	}

	components := model.ComponentScores{
		Coverage:    s.coverageScore(policy, customer),
		Service:     s.serviceScore(rating),
		Pricing:     s.pricingScore(outcome.AdjustedPremium, batch),
		Eligibility: s.eligibilityScore(outcome.Penalties),
		Takaful:     s.takafulScore(policy, customer),
	}

	total := components.Coverage*weights.Coverage +
		components.Service*weights.Service +
		components.Pricing*weights.Pricing +
		components.Eligibility*weights.Eligibility +
		components.Takaful*weights.Takaful

	return components, round1(total), nil
}

// coverageScore measures how well the policy's coverage flags match what
// the customer asked for: matched requested features as a fraction of
// requested, scaled to 0-100. With no requested features the score is a
// breadth measure instead, the fraction of recognized flags the policy
// carries.
func (s *Scorer) coverageScore(policy model.Policy, customer model.CustomerProfile) float64 {
	requested := customer.ImportantFeatures
	if len(requested) == 0 {
		return s.breadthScore(policy)
	}

	matched := 0
	for _, feature := range requested {
		if flagMatched(policy.CoverageDetails, feature) {
			matched++
		}
	}

	return round1(float64(matched) / float64(len(requested)) * 100)
}

// breadthScore is the fraction of recognized coverage flags present and
// set, scaled to 0-100
func (s *Scorer) breadthScore(policy model.Policy) float64 {
	present := 0
	for _, flag := range model.CoverageFlags {
		if flagMatched(policy.CoverageDetails, flag) {
			present++
		}
	}

	return round1(float64(present) / float64(len(model.CoverageFlags)) * 100)
}

// serviceScore scales the insurer's external reputation rating linearly
// to 0-100. An unknown rating scores the midpoint so missing data never
// biases the comparison either way.
func (s *Scorer) serviceScore(rating *float64) float64 {
	if rating == nil {
		return s.cfg.NeutralService
	}

	r := clamp(*rating, 0, s.cfg.ServiceRatingMax)
	return round1(r / s.cfg.ServiceRatingMax * 100)
}

// pricingScore positions the adjusted premium inside the batch range by
// linear interpolation: the cheapest eligible policy scores 100, the most
// expensive 0. A degenerate range scores everyone 100.
func (s *Scorer) pricingScore(adjusted float64, batch PremiumRange) float64 {
	spread := batch.Max - batch.Min
	if spread <= 0 {
		return 100
	}

	return round1(clamp((batch.Max-adjusted)/spread*100, 0, 100))
}

// eligibilityScore starts at 100 and steps down per soft penalty raised
// by the eligibility filter, floored at 0
func (s *Scorer) eligibilityScore(penalties []string) float64 {
	score := 100 - s.cfg.PenaltyStep*float64(len(penalties))
	if score < 0 {
		score = 0
	}
	return round1(score)
}

// takafulScore is 100 when the policy's structure matches the customer's
// stated preference and 0 when it does not. With no stated preference
// every policy scores 100: the dimension becomes a no-op instead of
// arbitrarily penalizing conventional or Takaful products.
func (s *Scorer) takafulScore(policy model.Policy, customer model.CustomerProfile) float64 {
	if customer.PrefersTakaful == nil {
		return 100
	}
	if policy.IsTakaful == *customer.PrefersTakaful {
		return 100
	}
	return 0
}

// flagReplacer folds feature names for matching so "Windscreen Cover"
// finds the windscreen_cover flag
var flagReplacer = strings.NewReplacer(" ", "_", "-", "_")

func foldFlag(name string) string {
	return flagReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// flagMatched reports whether the named flag is present and set in the
// coverage details, matching folded key forms. Any set key that folds to
// the name counts, so map order never affects the outcome.
func flagMatched(details map[string]interface{}, name string) bool {
	want := foldFlag(name)
	for key, value := range details {
		if foldFlag(key) == want && model.FlagSet(value) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds a score to one decimal
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
