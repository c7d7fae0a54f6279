package model

// Domain is the knowledge domain a free-text query is routed to.
type Domain string

const (
	DomainInsurance Domain = "insurance" // insurance product questions
	DomainProject   Domain = "project"   // project and documentation questions
	DomainNone      Domain = "none"      // neither domain matched decisively
)

// Valid returns true if the domain is one of the recognized values.
func (d Domain) Valid() bool {
	switch d {
	case DomainInsurance, DomainProject, DomainNone:
		return true
	}
	return false
}

// RoutingDecision is the outcome of classifying a query, with the
// matched keywords kept so the call can be audited.
type RoutingDecision struct {
	Domain  Domain         `json:"domain"`            // winning domain, or none
	Matched map[string]int `json:"matched,omitempty"` // keyword -> occurrence count
	Reason  string         `json:"reason"`            // plain-language explanation
}
