package eligibility

import (
	"fmt"
	"math"

	"github.com/perisailabs/perisai/internal/model"
)

// Soft penalty flags raised while deriving the premium multiplier. The
// scoring engine decrements the eligibility component per flag; the
// explainer names them in rationales.
const (
	PenaltyYoungDriver   = "young driver loading"
	PenaltySeniorDriver  = "senior driver loading"
	PenaltyNoviceLicence = "novice licence loading"
	PenaltyClaimsHistory = "claims history loading"
	PenaltyLowNCD        = "low no-claim discount"
)

// Filter decides whether a customer qualifies for a policy and how much
// its premium adjusts for the customer's risk profile.
type Filter struct {
	risk model.RiskConfig
}

// NewFilter creates a Filter with the given risk bands, falling back to
// the defaults when the bands are unusable.
func NewFilter(risk model.RiskConfig) *Filter {
	if risk.MaxMultiplier <= 0 || risk.MaxMultiplier < risk.MinMultiplier {
		risk = model.DefaultConfig().Risk
	}
	return &Filter{risk: risk}
}

// Evaluate applies the policy's hard bounds, then derives the soft risk
// multiplier and adjusted premium for hard-eligible customers. A violated
// bound excludes the policy outright; it is never merely penalized.
func (f *Filter) Evaluate(policy model.Policy, customer model.CustomerProfile) model.EligibilityOutcome {
	reasons := f.hardBounds(policy.Eligibility, customer)
	if len(reasons) > 0 {
		return model.EligibilityOutcome{
			Eligible: false,
			Reasons:  reasons,
		}
	}

	multiplier, penalties := f.riskMultiplier(customer)

	ncd := customer.NCD(policy.Pricing.NCDDiscount)
	adjusted := round2(policy.Pricing.BasePremium * (1 - ncd/100) * multiplier)

	return model.EligibilityOutcome{
		Eligible:          true,
		PremiumMultiplier: multiplier,
		AdjustedPremium:   adjusted,
		Penalties:         penalties,
	}
}

// hardBounds collects every violated bound, inclusive comparisons. A
// bound that cannot be verified because the customer datum is absent
// counts as violated: qualification requires the datum.
func (f *Filter) hardBounds(criteria model.EligibilityCriteria, customer model.CustomerProfile) []string {
	var reasons []string

	if criteria.MinAge != nil {
		switch {
		case customer.Age == nil:
			reasons = append(reasons, fmt.Sprintf("minimum age %d cannot be verified: customer age not provided", *criteria.MinAge))
		case *customer.Age < *criteria.MinAge:
			reasons = append(reasons, fmt.Sprintf("customer age %d below minimum age %d", *customer.Age, *criteria.MinAge))
		}
	}

	if criteria.MaxAge != nil {
		switch {
		case customer.Age == nil:
			reasons = append(reasons, fmt.Sprintf("maximum age %d cannot be verified: customer age not provided", *criteria.MaxAge))
		case *customer.Age > *criteria.MaxAge:
			reasons = append(reasons, fmt.Sprintf("customer age %d above maximum age %d", *customer.Age, *criteria.MaxAge))
		}
	}

	if criteria.VehicleAgeMax != nil {
		switch {
		case customer.VehicleAge == nil:
			reasons = append(reasons, fmt.Sprintf("maximum vehicle age %d cannot be verified: vehicle age not provided", *criteria.VehicleAgeMax))
		case *customer.VehicleAge > *criteria.VehicleAgeMax:
			reasons = append(reasons, fmt.Sprintf("vehicle age %d exceeds maximum vehicle age %d", *customer.VehicleAge, *criteria.VehicleAgeMax))
		}
	}

	if criteria.LicenseYearsMin != nil {
		switch {
		case customer.DrivingExperienceYears == nil:
			reasons = append(reasons, fmt.Sprintf("required %d licence years cannot be verified: driving experience not provided", *criteria.LicenseYearsMin))
		case *customer.DrivingExperienceYears < *criteria.LicenseYearsMin:
			reasons = append(reasons, fmt.Sprintf("driving experience %d years below required %d years", *customer.DrivingExperienceYears, *criteria.LicenseYearsMin))
		}
	}

	return reasons
}

// riskMultiplier combines the age, experience, and claims factors
// multiplicatively and clamps the product to the configured band.
// Missing customer fields contribute a neutral 1.0 and no flag.
func (f *Filter) riskMultiplier(customer model.CustomerProfile) (float64, []string) {
	multiplier := 1.0
	var penalties []string

	if customer.Age != nil {
		switch {
		case *customer.Age < f.risk.YoungAgeMax:
			multiplier *= f.risk.YoungMultiplier
			penalties = append(penalties, PenaltyYoungDriver)
		case *customer.Age > f.risk.SeniorAgeMin:
			multiplier *= f.risk.SeniorMultiplier
			penalties = append(penalties, PenaltySeniorDriver)
		}
	}

	if customer.DrivingExperienceYears != nil {
		switch {
		case *customer.DrivingExperienceYears >= f.risk.ExperiencedYearsMin:
			multiplier *= f.risk.ExperiencedMultiplier
		case *customer.DrivingExperienceYears < f.risk.NoviceYearsMax:
			multiplier *= f.risk.NoviceMultiplier
			penalties = append(penalties, PenaltyNoviceLicence)
		}
	}

	if customer.ClaimsHistoryCount != nil && *customer.ClaimsHistoryCount > 0 {
		factor := 1 + float64(*customer.ClaimsHistoryCount)*f.risk.ClaimLoading
		if factor > f.risk.MaxClaimLoading {
			factor = f.risk.MaxClaimLoading
		}
		multiplier *= factor
		penalties = append(penalties, PenaltyClaimsHistory)
	}

	if customer.NCDPercentage != nil && *customer.NCDPercentage < f.risk.LowNCDBelow {
		// No multiplier effect; the flag feeds the eligibility score
		penalties = append(penalties, PenaltyLowNCD)
	}

	multiplier = clamp(multiplier, f.risk.MinMultiplier, f.risk.MaxMultiplier)

	return round4(multiplier), penalties
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

// round2 rounds to currency precision, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
