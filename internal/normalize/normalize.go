package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/perisailabs/perisai/internal/model"
)

// RawRecord is the tagged raw form every input shape reduces to before
// normalization: a flat field map plus a tag naming where it came from.
// Downstream components only ever see the canonical model.Policy.
type RawRecord struct {
	Source string                 `json:"source,omitempty"` // Informational: "seed", "scrape", a file path
	Fields map[string]interface{} `json:"fields"`           // Heterogeneous field names and values
}

// RecordError pairs a failed record's batch position with its error
type RecordError struct {
	Index int   `json:"index"`
	Err   error `json:"-"`
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

// Unwrap exposes the underlying normalization error
func (e RecordError) Unwrap() error { return e.Err }

// Normalizer coerces heterogeneous raw policy records into the canonical
// schema. Raw data arrives from scraped pages, database rows, or seed
// files under varying field names and value types.
type Normalizer struct{}

// New creates a Normalizer
func New() *Normalizer {
	return &Normalizer{}
}

// aliases maps each canonical field to the raw keys it may arrive under.
// Keys are compared after folding (lower case, separators to underscores).
var aliases = map[string][]string{
	"insurer":           {"insurer", "company", "company_name", "provider", "insurer_name", "operator", "takaful_operator"},
	"product_name":      {"product_name", "product", "plan", "plan_name", "policy_name", "name"},
	"coverage_type":     {"coverage_type", "cover_type", "plan_type", "type"},
	"is_takaful":        {"is_takaful", "takaful", "shariah_compliant", "islamic"},
	"base_premium":      {"base_premium", "premium", "annual_premium", "base_price", "price"},
	"excess":            {"excess", "deductible", "excess_amount"},
	"ncd_discount":      {"ncd_discount", "ncd", "ncd_percent", "ncd_percentage", "no_claim_discount"},
	"min_age":           {"min_age", "minimum_age", "age_min"},
	"max_age":           {"max_age", "maximum_age", "age_max"},
	"vehicle_age_max":   {"vehicle_age_max", "max_vehicle_age", "vehicle_max_age"},
	"license_years_min": {"license_years_min", "min_license_years", "min_driving_years", "license_min_years"},
	"coverage_details":  {"coverage_details", "features", "benefits", "coverages"},
	"source_urls":       {"source_urls", "source_url", "urls", "url"},
	"last_updated":      {"last_updated", "updated_at", "last_refreshed", "scraped_at"},
}

// coverageTypeSynonyms maps folded raw values onto the coverage enum
var coverageTypeSynonyms = map[string]model.CoverageType{
	"comprehensive":              model.CoverageComprehensive,
	"comp":                       model.CoverageComprehensive,
	"full":                       model.CoverageComprehensive,
	"third_party":                model.CoverageThirdParty,
	"tp":                         model.CoverageThirdParty,
	"third_party_only":           model.CoverageThirdParty,
	"third_party_fire_theft":     model.CoverageThirdPartyFireTheft,
	"third_party_fire_and_theft": model.CoverageThirdPartyFireTheft,
	"tpft":                       model.CoverageThirdPartyFireTheft,
	"fire_and_theft":             model.CoverageThirdPartyFireTheft,
}

var (
	currencyPrefix = regexp.MustCompile(`(?i)^(rm|myr)\s*`)
	separators     = regexp.MustCompile(`[\s\-/,&]+`)
)

// timeLayouts are tried in order when last_updated arrives as a string
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Normalize coerces one raw record into a canonical Policy. A field that
// cannot be coerced fails the record with a NormalizationError naming the
// field; the caller decides whether to skip the record or abort the batch.
func (n *Normalizer) Normalize(raw RawRecord) (*model.Policy, error) {
	fields := foldFields(raw.Fields)

	insurer, err := requiredString(fields, "insurer")
	if err != nil {
		return nil, err
	}

	product, err := requiredString(fields, "product_name")
	if err != nil {
		return nil, err
	}

	coverageType, err := parseCoverageType(fields)
	if err != nil {
		return nil, err
	}

	basePremium, err := requiredAmount(fields, "base_premium")
	if err != nil {
		return nil, err
	}

	excess, err := optionalAmount(fields, "excess")
	if err != nil {
		return nil, err
	}

	ncd, err := optionalPercent(fields, "ncd_discount")
	if err != nil {
		return nil, err
	}

	isTakaful, err := parseTakaful(fields, insurer, product)
	if err != nil {
		return nil, err
	}

	criteria := model.EligibilityCriteria{}
	if criteria.MinAge, err = optionalBound(fields, "min_age"); err != nil {
		return nil, err
	}
	if criteria.MaxAge, err = optionalBound(fields, "max_age"); err != nil {
		return nil, err
	}
	if criteria.VehicleAgeMax, err = optionalBound(fields, "vehicle_age_max"); err != nil {
		return nil, err
	}
	if criteria.LicenseYearsMin, err = optionalBound(fields, "license_years_min"); err != nil {
		return nil, err
	}

	return &model.Policy{
		Insurer:         insurer,
		ProductName:     product,
		CoverageType:    coverageType,
		IsTakaful:       isTakaful,
		CoverageDetails: coverageDetails(fields),
		Pricing: model.Pricing{
			BasePremium: basePremium,
			Excess:      excess,
			NCDDiscount: ncd,
		},
		Eligibility: criteria,
		SourceURLs:  sourceURLs(fields),
		LastUpdated: lastUpdated(fields),
	}, nil
}

// NormalizeAll normalizes a batch, skipping malformed records. One bad
// record never aborts the rest: failures come back per-record with their
// original index.
func (n *Normalizer) NormalizeAll(raws []RawRecord) ([]model.Policy, []RecordError) {
	policies := make([]model.Policy, 0, len(raws))
	var failed []RecordError

	for i, raw := range raws {
		policy, err := n.Normalize(raw)
		if err != nil {
			failed = append(failed, RecordError{Index: i, Err: err})
			continue
		}
		policies = append(policies, *policy)
	}

	return policies, failed
}

// foldFields normalizes raw keys and flattens nested pricing/eligibility
// maps so alias lookup sees a single flat namespace. The value under the
// coverage_details alias is kept as found; its keys are never rewritten.
func foldFields(raw map[string]interface{}) map[string]interface{} {
	folded := make(map[string]interface{}, len(raw))

	var merge func(m map[string]interface{})
	merge = func(m map[string]interface{}) {
		for k, v := range m {
			key := foldKey(k)

			// Nested pricing/eligibility groups flatten into the record
			if key == "pricing" || key == "eligibility" || key == "eligibility_criteria" {
				if nested, ok := v.(map[string]interface{}); ok {
					merge(nested)
					continue
				}
			}

			if _, exists := folded[key]; !exists {
				folded[key] = v
			}
		}
	}
	merge(raw)

	return folded
}

// foldKey lower-cases a raw key and collapses separators to underscores
func foldKey(k string) string {
	k = strings.TrimSpace(strings.ToLower(k))
	k = separators.ReplaceAllString(k, "_")
	return k
}

// lookup finds the first alias of the canonical field present in the
// folded field map.
func lookup(fields map[string]interface{}, canonical string) (interface{}, bool) {
	for _, alias := range aliases[canonical] {
		if v, ok := fields[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

func requiredString(fields map[string]interface{}, canonical string) (string, error) {
	v, ok := lookup(fields, canonical)
	if !ok {
		return "", &model.NormalizationError{Field: canonical, Reason: "missing"}
	}

	s, ok := v.(string)
	if !ok {
		return "", &model.NormalizationError{Field: canonical, Reason: fmt.Sprintf("expected a string, got %T", v)}
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", &model.NormalizationError{Field: canonical, Reason: "empty"}
	}

	return s, nil
}

// parseNumber coerces any of the value types raw data carries into a
// float64. Money strings may carry an RM/MYR prefix, thousands commas,
// and a percent suffix.
func parseNumber(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case string:
		s := strings.TrimSpace(t)
		s = currencyPrefix.ReplaceAllString(s, "")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, fmt.Errorf("empty numeric string")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as a number", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func requiredAmount(fields map[string]interface{}, canonical string) (float64, error) {
	v, ok := lookup(fields, canonical)
	if !ok {
		return 0, &model.NormalizationError{Field: canonical, Reason: "missing"}
	}
	return amount(canonical, v)
}

func optionalAmount(fields map[string]interface{}, canonical string) (float64, error) {
	v, ok := lookup(fields, canonical)
	if !ok {
		return 0, nil
	}
	return amount(canonical, v)
}

func amount(canonical string, v interface{}) (float64, error) {
	f, err := parseNumber(v)
	if err != nil {
		return 0, &model.NormalizationError{Field: canonical, Reason: err.Error()}
	}
	if f < 0 {
		return 0, &model.NormalizationError{Field: canonical, Reason: fmt.Sprintf("negative value %g", f)}
	}
	return f, nil
}

func optionalPercent(fields map[string]interface{}, canonical string) (float64, error) {
	v, ok := lookup(fields, canonical)
	if !ok {
		return 0, nil
	}

	f, err := parseNumber(v)
	if err != nil {
		return 0, &model.NormalizationError{Field: canonical, Reason: err.Error()}
	}
	if f < 0 || f > 100 {
		return 0, &model.NormalizationError{Field: canonical, Reason: fmt.Sprintf("percentage %g outside 0-100", f)}
	}

	return f, nil
}

func optionalBound(fields map[string]interface{}, canonical string) (*int, error) {
	v, ok := lookup(fields, canonical)
	if !ok || v == nil {
		return nil, nil
	}

	f, err := parseNumber(v)
	if err != nil {
		return nil, &model.NormalizationError{Field: canonical, Reason: err.Error()}
	}
	if f < 0 {
		return nil, &model.NormalizationError{Field: canonical, Reason: fmt.Sprintf("negative bound %g", f)}
	}

	n := int(f)
	return &n, nil
}

func parseCoverageType(fields map[string]interface{}) (model.CoverageType, error) {
	v, ok := lookup(fields, "coverage_type")
	if !ok {
		return "", &model.NormalizationError{Field: "coverage_type", Reason: "missing"}
	}

	s, ok := v.(string)
	if !ok {
		return "", &model.NormalizationError{Field: "coverage_type", Reason: fmt.Sprintf("expected a string, got %T", v)}
	}

	ct, ok := coverageTypeSynonyms[foldKey(s)]
	if !ok {
		return "", &model.NormalizationError{Field: "coverage_type", Reason: fmt.Sprintf("unknown coverage type %q", s)}
	}

	return ct, nil
}

// parseTakaful reads the takaful flag; when absent it is inferred from
// the insurer or product carrying "takaful" in its name, a reliable
// convention for Malaysian operators.
func parseTakaful(fields map[string]interface{}, insurer, product string) (bool, error) {
	v, ok := lookup(fields, "is_takaful")
	if !ok {
		name := strings.ToLower(insurer + " " + product)
		return strings.Contains(name, "takaful"), nil
	}

	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0", "":
			return false, nil
		}
		return false, &model.NormalizationError{Field: "is_takaful", Reason: fmt.Sprintf("cannot parse %q as a boolean", t)}
	case int:
		return t != 0, nil
	case float64:
		return t != 0, nil
	default:
		return false, &model.NormalizationError{Field: "is_takaful", Reason: fmt.Sprintf("unsupported boolean type %T", v)}
	}
}

// consumed holds every folded key the normalizer itself reads; anything
// else in a flat record is treated as a coverage flag column.
var consumed = func() map[string]bool {
	m := make(map[string]bool)
	for _, list := range aliases {
		for _, alias := range list {
			m[alias] = true
		}
	}
	m["pricing"] = true
	m["eligibility"] = true
	m["eligibility_criteria"] = true
	return m
}()

// coverageDetails returns the coverage flag map. A nested details map is
// copied with keys and values exactly as they arrived: unknown keys are
// forward-compatible data, not errors. Flat records (scraped tables)
// carry their flags as leftover columns instead, so with no nested map
// the unconsumed fields become the details.
func coverageDetails(fields map[string]interface{}) map[string]interface{} {
	if v, ok := lookup(fields, "coverage_details"); ok {
		if m, ok := v.(map[string]interface{}); ok {
			details := make(map[string]interface{}, len(m))
			for k, val := range m {
				details[k] = val
			}
			return details
		}
		return nil
	}

	var details map[string]interface{}
	for k, val := range fields {
		if consumed[k] {
			continue
		}
		if details == nil {
			details = make(map[string]interface{})
		}
		details[k] = val
	}
	return details
}

func sourceURLs(fields map[string]interface{}) []string {
	v, ok := lookup(fields, "source_urls")
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []string:
		return t
	case []interface{}:
		urls := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				urls = append(urls, strings.TrimSpace(s))
			}
		}
		return urls
	}
	return nil
}

// lastUpdated parses the record timestamp leniently: timestamps are
// metadata, so an unreadable value degrades to the zero time instead of
// failing the record.
func lastUpdated(fields map[string]interface{}) time.Time {
	v, ok := lookup(fields, "last_updated")
	if !ok {
		return time.Time{}
	}

	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
