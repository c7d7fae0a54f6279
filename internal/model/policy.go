package model

import (
	"strings"
	"time"
)

// CoverageType identifies the class of motor cover a policy provides
type CoverageType string

const (
	CoverageComprehensive       CoverageType = "comprehensive"           // Own damage, theft, and third-party liability
	CoverageThirdParty          CoverageType = "third_party"             // Third-party liability only
	CoverageThirdPartyFireTheft CoverageType = "third_party_fire_theft"  // Third-party liability plus fire and theft
)

// Valid reports whether ct is a recognized coverage type
func (ct CoverageType) Valid() bool {
	switch ct {
	case CoverageComprehensive, CoverageThirdParty, CoverageThirdPartyFireTheft:
		return true
	}
	return false
}

// Policy is the canonical policy record produced by the normalizer.
// It is immutable once built: comparisons read it and never write to it.
type Policy struct {
	Insurer         string                 `json:"insurer"`                    // Issuing insurer or takaful operator
	ProductName     string                 `json:"product_name"`               // Commercial product name
	CoverageType    CoverageType           `json:"coverage_type"`              // Class of cover
	IsTakaful       bool                   `json:"is_takaful"`                 // Shariah-compliant product structure
	CoverageDetails map[string]interface{} `json:"coverage_details,omitempty"` // Named boolean/numeric flags; unknown keys preserved verbatim
	Pricing         Pricing                `json:"pricing"`                    // Premium terms
	Eligibility     EligibilityCriteria    `json:"eligibility_criteria"`       // Qualification bounds
	SourceURLs      []string               `json:"source_urls,omitempty"`      // Where the record was obtained
	LastUpdated     time.Time              `json:"last_updated"`               // When the record was last refreshed
}

// Pricing holds the premium terms of a policy
type Pricing struct {
	BasePremium float64 `json:"base_premium"` // Annual base premium in MYR, >= 0
	Excess      float64 `json:"excess"`       // Deductible per claim in MYR, >= 0
	NCDDiscount float64 `json:"ncd_discount"` // Advertised no-claim discount percentage, 0-100
}

// EligibilityCriteria defines the bounds a customer must satisfy to
// qualify for a policy. All bounds are inclusive; a nil bound is unbounded.
type EligibilityCriteria struct {
	MinAge          *int `json:"min_age,omitempty"`           // Minimum driver age
	MaxAge          *int `json:"max_age,omitempty"`           // Maximum driver age
	VehicleAgeMax   *int `json:"vehicle_age_max,omitempty"`   // Maximum vehicle age in years
	LicenseYearsMin *int `json:"license_years_min,omitempty"` // Minimum years holding a licence
}

// CoverageFlags are the coverage_details keys the scoring engine
// recognizes when computing the breadth measure. Records may carry any
// additional keys; they pass through untouched.
var CoverageFlags = []string{
	"windscreen_cover",
	"roadside_assistance",
	"flood_coverage",
	"riot_strike_cover",
	"personal_accident",
	"passenger_liability",
	"named_driver_waiver",
	"towing_service",
	"car_replacement",
	"key_replacement",
}

// FlagSet reports whether a coverage_details value counts as present:
// booleans must be true, numbers must be non-zero, strings must be
// non-empty affirmatives ("yes", "true", "included").
func FlagSet(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "included", "covered", "y", "1":
			return true
		}
		return false
	}
	return false
}
