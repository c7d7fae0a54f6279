package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/perisailabs/perisai/internal/model"
)

// Ranker orders scored policies and synthesizes the rationale fragments
// shown to the customer. Both jobs are pure functions of already-computed
// values: nothing here re-derives or alters a score.
type Ranker struct {
	cfg model.ScoringConfig
}

// NewRanker creates a Ranker with the given thresholds, falling back to
// the defaults when they are unusable.
func NewRanker(cfg model.ScoringConfig) *Ranker {
	if cfg.MaxRationale <= 0 || cfg.MaxRationale < cfg.MinRationale {
		cfg = model.DefaultConfig().Scoring
	}
	return &Ranker{cfg: cfg}
}

// Rank sorts scored policies best first and assembles the comparison
// result. Ties break on lower adjusted premium, then insurer name, then
// product name, so identical inputs always produce identical ordering.
// Excluded policies are carried through with their reasons, never
// dropped; an empty ranked list is a valid outcome.
func (r *Ranker) Rank(scored []model.ScoredPolicy, excluded []model.ExcludedPolicy, weights model.ComparisonWeights) *model.ComparisonResult {
	ranked := make([]model.ScoredPolicy, len(scored))
	copy(ranked, scored)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.AdjustedPremium != b.AdjustedPremium {
			return a.AdjustedPremium < b.AdjustedPremium
		}
		if a.Policy.Insurer != b.Policy.Insurer {
			return a.Policy.Insurer < b.Policy.Insurer
		}
		return a.Policy.ProductName < b.Policy.ProductName
	})

	out := make([]model.ExcludedPolicy, len(excluded))
	copy(out, excluded)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Policy.Insurer != out[j].Policy.Insurer {
			return out[i].Policy.Insurer < out[j].Policy.Insurer
		}
		return out[i].Policy.ProductName < out[j].Policy.ProductName
	})

	return &model.ComparisonResult{
		RankedPolicies:   ranked,
		ExcludedPolicies: out,
		WeightsUsed:      weights,
		PolicyCount:      len(ranked) + len(out),
		EligibleCount:    len(ranked),
	}
}

// Explain synthesizes the rationale fragments for one scored policy from
// its component scores and the soft penalty flags raised during
// eligibility. Threshold crossings speak first, weaknesses after, and
// neutral premium facts pad the list up to the configured minimum.
func (r *Ranker) Explain(sp model.ScoredPolicy, penalties []string) []string {
	var rationale []string

	c := sp.ComponentScores

	if c.Coverage >= r.cfg.StrongThreshold {
		rationale = append(rationale, "comprehensive feature match")
	}
	if c.Pricing >= r.cfg.StrongThreshold {
		rationale = append(rationale, "competitive premium for this profile")
	}
	if c.Service >= r.cfg.StrongThreshold {
		rationale = append(rationale, "strong insurer service reputation")
	}

	if c.Takaful == 0 {
		if sp.Policy.IsTakaful {
			rationale = append(rationale, "takaful product against a conventional preference")
		} else {
			rationale = append(rationale, "conventional product against a takaful preference")
		}
	}

	if len(penalties) > 0 {
		rationale = append(rationale, "premium adjusted for "+strings.Join(penalties, ", "))
	}

	if c.Coverage <= r.cfg.WeakThreshold {
		rationale = append(rationale, "limited coverage feature match")
	}
	if c.Pricing <= r.cfg.WeakThreshold {
		rationale = append(rationale, "premium above most comparable quotes")
	}
	if c.Service <= r.cfg.WeakThreshold {
		rationale = append(rationale, "weak insurer service reputation")
	}

	// Neutral facts fill the gap when few thresholds fired
	if len(rationale) < r.cfg.MinRationale {
		rationale = append(rationale, fmt.Sprintf("adjusted annual premium RM %.2f", sp.AdjustedPremium))
	}
	if len(rationale) < r.cfg.MinRationale {
		rationale = append(rationale, fmt.Sprintf("overall score %.1f of 100", sp.TotalScore))
	}

	if len(rationale) > r.cfg.MaxRationale {
		rationale = rationale[:r.cfg.MaxRationale]
	}

	return rationale
}
