package model

// CustomerProfile describes the customer a comparison is run for. It is
// an input only: the core never persists it. Optional fields are pointers
// so an absent value is distinguishable from zero; eligibility treats
// absent values as neutral rather than failing.
type CustomerProfile struct {
	Age                    *int         `json:"age,omitempty" yaml:"age,omitempty"`                                         // Driver age in years
	DrivingExperienceYears *int         `json:"driving_experience_years,omitempty" yaml:"driving_experience_years,omitempty"` // Years holding a licence
	VehicleValue           *float64     `json:"vehicle_value,omitempty" yaml:"vehicle_value,omitempty"`                     // Insured vehicle market value in MYR
	VehicleAge             *int         `json:"vehicle_age,omitempty" yaml:"vehicle_age,omitempty"`                         // Vehicle age in years
	NCDPercentage          *float64     `json:"ncd_percentage,omitempty" yaml:"ncd_percentage,omitempty"`                   // Earned no-claim discount, 0-100
	ClaimsHistoryCount     *int         `json:"claims_history_count,omitempty" yaml:"claims_history_count,omitempty"`       // Claims within the lookback window
	Location               string       `json:"location,omitempty" yaml:"location,omitempty"`                               // State or city, informational
	CoveragePreference     CoverageType `json:"coverage_preference,omitempty" yaml:"coverage_preference,omitempty"`         // Preferred class of cover
	PrefersTakaful         *bool        `json:"prefers_takaful,omitempty" yaml:"prefers_takaful,omitempty"`                 // nil means no preference either way
	PriceRangeMax          *float64     `json:"price_range_max,omitempty" yaml:"price_range_max,omitempty"`                 // Budget ceiling in MYR
	ImportantFeatures      []string     `json:"important_features,omitempty" yaml:"important_features,omitempty"`           // coverage_details flags the customer cares about
}

// NCD returns the customer's earned no-claim discount when known,
// falling back to the policy's advertised discount otherwise.
func (c *CustomerProfile) NCD(fallback float64) float64 {
	if c != nil && c.NCDPercentage != nil {
		return *c.NCDPercentage
	}
	return fallback
}
