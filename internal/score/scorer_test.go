package score

import (
	"errors"
	"testing"

	"github.com/perisailabs/perisai/internal/model"
)

func boolp(v bool) *bool       { return &v }
func floatp(v float64) *float64 { return &v }

func defaultScorer() *Scorer {
	return NewScorer(model.DefaultConfig().Scoring)
}

func eligibleOutcome(adjusted float64, penalties ...string) model.EligibilityOutcome {
	return model.EligibilityOutcome{
		Eligible:          true,
		PremiumMultiplier: 1.0,
		AdjustedPremium:   adjusted,
		Penalties:         penalties,
	}
}

func TestScorer_Score_InvalidWeights(t *testing.T) {
	s := defaultScorer()
	policy := model.Policy{Insurer: "Etiqa", ProductName: "Private Car"}

	// Weights off by far more than the tolerance
	weights := model.ComparisonWeights{Coverage: 0.5, Service: 0.5, Pricing: 0.5}

	_, _, err := s.Score(policy, model.CustomerProfile{}, eligibleOutcome(1000), PremiumRange{Min: 1000, Max: 2000}, nil, weights)
	if err == nil {
		t.Fatal("Expected ConfigurationError for invalid weights, got nil")
	}
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("Expected error to match ErrConfiguration, got %v", err)
	}
}

func TestScorer_CoverageScore_RequestedFeatures(t *testing.T) {
	s := defaultScorer()

	policy := model.Policy{
		CoverageDetails: map[string]interface{}{
			"windscreen_cover":    true,
			"roadside_assistance": true,
			"flood_coverage":      false,
		},
	}
	customer := model.CustomerProfile{
		ImportantFeatures: []string{"windscreen_cover", "flood_coverage"},
	}

	// 1 of 2 requested features matched: flood is present but unset
	got := s.coverageScore(policy, customer)
	if got != 50 {
		t.Errorf("Expected coverage score 50, got %g", got)
	}
}

func TestScorer_CoverageScore_FoldsFeatureNames(t *testing.T) {
	s := defaultScorer()

	policy := model.Policy{
		CoverageDetails: map[string]interface{}{
			"windscreen_cover": "yes",
		},
	}
	customer := model.CustomerProfile{
		ImportantFeatures: []string{"Windscreen Cover"},
	}

	if got := s.coverageScore(policy, customer); got != 100 {
		t.Errorf("Expected folded feature name to match, got %g", got)
	}
}

func TestScorer_CoverageScore_NoRequestUsesBreadth(t *testing.T) {
	s := defaultScorer()

	// 2 of the 10 recognized flags set
	policy := model.Policy{
		CoverageDetails: map[string]interface{}{
			"windscreen_cover":    true,
			"roadside_assistance": true,
			"unrecognized_extra":  true, // never counted toward breadth
		},
	}

	got := s.coverageScore(policy, model.CustomerProfile{})
	if got != 20 {
		t.Errorf("Expected breadth score 20, got %g", got)
	}
}

func TestScorer_CoverageScore_NothingMatches(t *testing.T) {
	s := defaultScorer()

	policy := model.Policy{CoverageDetails: map[string]interface{}{}}
	customer := model.CustomerProfile{ImportantFeatures: []string{"flood_coverage"}}

	if got := s.coverageScore(policy, customer); got != 0 {
		t.Errorf("Expected coverage score 0, got %g", got)
	}
}

func TestScorer_ServiceScore_LinearScale(t *testing.T) {
	s := defaultScorer()

	if got := s.serviceScore(floatp(4.5)); got != 90 {
		t.Errorf("Expected service score 90 for rating 4.5/5, got %g", got)
	}
	if got := s.serviceScore(floatp(0)); got != 0 {
		t.Errorf("Expected service score 0 for rating 0, got %g", got)
	}
	if got := s.serviceScore(floatp(5)); got != 100 {
		t.Errorf("Expected service score 100 for full rating, got %g", got)
	}
}

func TestScorer_ServiceScore_AbsentDefaultsToMidpoint(t *testing.T) {
	s := defaultScorer()

	if got := s.serviceScore(nil); got != 50 {
		t.Errorf("Expected midpoint 50 for unknown rating, got %g", got)
	}
}

func TestScorer_ServiceScore_ClampsOutOfScale(t *testing.T) {
	s := defaultScorer()

	if got := s.serviceScore(floatp(7.5)); got != 100 {
		t.Errorf("Expected out-of-scale rating clamped to 100, got %g", got)
	}
}

func TestScorer_PricingScore_LinearInterpolation(t *testing.T) {
	s := defaultScorer()
	batch := PremiumRange{Min: 1000, Max: 2000}

	// Cheapest scores 100, most expensive 0, midpoint 50
	if got := s.pricingScore(1000, batch); got != 100 {
		t.Errorf("Expected cheapest policy to score 100, got %g", got)
	}
	if got := s.pricingScore(2000, batch); got != 0 {
		t.Errorf("Expected most expensive policy to score 0, got %g", got)
	}
	if got := s.pricingScore(1500, batch); got != 50 {
		t.Errorf("Expected midpoint premium to score 50, got %g", got)
	}
}

func TestScorer_PricingScore_IdenticalPremiums(t *testing.T) {
	s := defaultScorer()

	// Degenerate range: everyone scores 100, no div-by-zero
	batch := PremiumRange{Min: 1500, Max: 1500}
	if got := s.pricingScore(1500, batch); got != 100 {
		t.Errorf("Expected identical premiums to score 100, got %g", got)
	}
}

func TestScorer_PricingScore_Monotonic(t *testing.T) {
	s := defaultScorer()
	batch := PremiumRange{Min: 900, Max: 2600}

	// Decreasing the premium never decreases the pricing score
	prev := -1.0
	for premium := 2600.0; premium >= 900; premium -= 85 {
		got := s.pricingScore(premium, batch)
		if got < prev {
			t.Fatalf("Expected pricing score to rise as premium falls, got %g after %g", got, prev)
		}
		prev = got
	}
}

func TestScorer_EligibilityScore_PenaltySteps(t *testing.T) {
	s := defaultScorer()

	if got := s.eligibilityScore(nil); got != 100 {
		t.Errorf("Expected clean outcome to score 100, got %g", got)
	}
	if got := s.eligibilityScore([]string{"young driver loading", "claims history loading"}); got != 70 {
		t.Errorf("Expected two penalties to score 70, got %g", got)
	}
}

func TestScorer_EligibilityScore_FlooredAtZero(t *testing.T) {
	s := defaultScorer()

	penalties := make([]string, 8) // 8 * 15 = 120 past the floor
	if got := s.eligibilityScore(penalties); got != 0 {
		t.Errorf("Expected eligibility score floored at 0, got %g", got)
	}
}

func TestScorer_TakafulScore_PreferenceMatch(t *testing.T) {
	s := defaultScorer()

	takaful := model.Policy{IsTakaful: true}
	conventional := model.Policy{IsTakaful: false}
	wantsTakaful := model.CustomerProfile{PrefersTakaful: boolp(true)}

	if got := s.takafulScore(takaful, wantsTakaful); got != 100 {
		t.Errorf("Expected matching takaful preference to score 100, got %g", got)
	}
	if got := s.takafulScore(conventional, wantsTakaful); got != 0 {
		t.Errorf("Expected mismatched takaful preference to score 0, got %g", got)
	}
}

func TestScorer_TakafulScore_NoPreference(t *testing.T) {
	s := defaultScorer()

	// No stated preference: the dimension is a no-op for every policy
	noPreference := model.CustomerProfile{}
	if got := s.takafulScore(model.Policy{IsTakaful: true}, noPreference); got != 100 {
		t.Errorf("Expected takaful policy to score 100 with no preference, got %g", got)
	}
	if got := s.takafulScore(model.Policy{IsTakaful: false}, noPreference); got != 100 {
		t.Errorf("Expected conventional policy to score 100 with no preference, got %g", got)
	}
}

func TestScorer_Score_WeightedTotal(t *testing.T) {
	s := defaultScorer()

	policy := model.Policy{
		Insurer:   "Etiqa Takaful",
		IsTakaful: true,
		CoverageDetails: map[string]interface{}{
			"windscreen_cover": true,
			"flood_coverage":   true,
		},
	}
	customer := model.CustomerProfile{
		ImportantFeatures: []string{"windscreen_cover", "flood_coverage"},
		PrefersTakaful:    boolp(true),
	}

	components, total, err := s.Score(policy, customer, eligibleOutcome(1000),
		PremiumRange{Min: 1000, Max: 2000}, floatp(4.0), model.DefaultWeights())
	if err != nil {
		t.Fatalf("Expected score to succeed, got %v", err)
	}

	if components.Coverage != 100 {
		t.Errorf("Expected coverage 100, got %g", components.Coverage)
	}
	if components.Service != 80 {
		t.Errorf("Expected service 80, got %g", components.Service)
	}
	if components.Pricing != 100 {
		t.Errorf("Expected pricing 100, got %g", components.Pricing)
	}
	if components.Eligibility != 100 {
		t.Errorf("Expected eligibility 100, got %g", components.Eligibility)
	}
	if components.Takaful != 100 {
		t.Errorf("Expected takaful 100, got %g", components.Takaful)
	}

	// 100*0.30 + 80*0.25 + 100*0.25 + 100*0.10 + 100*0.10 = 95.0
	if total != 95.0 {
		t.Errorf("Expected total 95.0, got %g", total)
	}
}

func TestScorer_Score_TotalWithinBounds(t *testing.T) {
	s := defaultScorer()

	policies := []model.Policy{
		{Insurer: "A", CoverageDetails: map[string]interface{}{"windscreen_cover": true}},
		{Insurer: "B", IsTakaful: true},
		{Insurer: "C", CoverageDetails: map[string]interface{}{}},
	}
	customer := model.CustomerProfile{PrefersTakaful: boolp(false), ImportantFeatures: []string{"flood_coverage"}}
	batch := PremiumRange{Min: 800, Max: 3000}

	for i, policy := range policies {
		adjusted := 800 + float64(i)*1100
		_, total, err := s.Score(policy, customer, eligibleOutcome(adjusted, "claims history loading"),
			batch, nil, model.DefaultWeights())
		if err != nil {
			t.Fatalf("Expected score to succeed, got %v", err)
		}
		if total < 0 || total > 100 {
			t.Errorf("Expected total within [0,100], got %g for policy %d", total, i)
		}
	}
}

func TestRangeOf(t *testing.T) {
	r := RangeOf([]float64{2500, 2200, 2800})
	if r.Min != 2200 || r.Max != 2800 {
		t.Errorf("Expected range [2200, 2800], got [%g, %g]", r.Min, r.Max)
	}

	empty := RangeOf(nil)
	if empty.Min != 0 || empty.Max != 0 {
		t.Errorf("Expected zero range for empty batch, got [%g, %g]", empty.Min, empty.Max)
	}

	single := RangeOf([]float64{1500})
	if single.Min != 1500 || single.Max != 1500 {
		t.Errorf("Expected degenerate range for single policy, got [%g, %g]", single.Min, single.Max)
	}
}
