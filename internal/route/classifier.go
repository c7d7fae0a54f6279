package route

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/perisailabs/perisai/internal/model"
)

// Classifier decides which knowledge domain a free-text query belongs
// to. The keyword implementation below is the default; anything that
// can turn text into a RoutingDecision is a drop-in replacement.
type Classifier interface {
	Classify(query string) model.RoutingDecision
}

var _ Classifier = (*KeywordClassifier)(nil)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// KeywordClassifier routes queries by counting keyword occurrences per
// domain. The strictly higher count wins; a tie or no hits at all
// routes to none rather than guessing.
type KeywordClassifier struct {
	insuranceTokens  map[string]struct{}
	insurancePhrases []string
	projectTokens    map[string]struct{}
	projectPhrases   []string
}

// NewKeywordClassifier builds a classifier from the configured keyword
// sets, falling back to the defaults when a set is empty.
func NewKeywordClassifier(cfg model.RouterConfig) *KeywordClassifier {
	defaults := model.DefaultConfig().Router
	if len(cfg.InsuranceKeywords) == 0 {
		cfg.InsuranceKeywords = defaults.InsuranceKeywords
	}
	if len(cfg.ProjectKeywords) == 0 {
		cfg.ProjectKeywords = defaults.ProjectKeywords
	}

	c := &KeywordClassifier{
		insuranceTokens: make(map[string]struct{}),
		projectTokens:   make(map[string]struct{}),
	}
	c.insurancePhrases = splitKeywords(cfg.InsuranceKeywords, c.insuranceTokens)
	c.projectPhrases = splitKeywords(cfg.ProjectKeywords, c.projectTokens)
	return c
}

// splitKeywords folds each keyword and sorts it into single tokens or
// multi-word phrases, which are matched differently.
func splitKeywords(keywords []string, tokens map[string]struct{}) []string {
	var phrases []string
	for _, kw := range keywords {
		folded := fold(kw)
		if folded == "" {
			continue
		}
		if strings.Contains(folded, " ") {
			phrases = append(phrases, folded)
		} else {
			tokens[folded] = struct{}{}
		}
	}
	return phrases
}

// fold lower-cases text and collapses every non-alphanumeric run to a
// single space, so "No-Claim Discount" and "no claim discount" compare
// equal.
func fold(s string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(s), " "))
}

// Classify counts keyword hits for both domains and picks the winner.
func (c *KeywordClassifier) Classify(query string) model.RoutingDecision {
	folded := fold(query)
	tokens := strings.Fields(folded)

	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}

	matched := make(map[string]int)
	insurance := countHits(folded, freq, c.insuranceTokens, c.insurancePhrases, matched)
	project := countHits(folded, freq, c.projectTokens, c.projectPhrases, matched)

	decision := model.RoutingDecision{Matched: matched}

	switch {
	case insurance == 0 && project == 0:
		decision.Domain = model.DomainNone
		decision.Reason = "no domain keywords matched"
	case insurance == project:
		decision.Domain = model.DomainNone
		decision.Reason = fmt.Sprintf("insurance and project keywords tied at %d", insurance)
	case insurance > project:
		decision.Domain = model.DomainInsurance
		decision.Reason = fmt.Sprintf("insurance keywords outscored project %d to %d", insurance, project)
	default:
		decision.Domain = model.DomainProject
		decision.Reason = fmt.Sprintf("project keywords outscored insurance %d to %d", project, insurance)
	}

	return decision
}

// countHits sums keyword occurrences for one domain. Single keywords
// count token frequency; phrases count word-boundary substring
// occurrences in the folded text. Every hit is recorded in matched.
func countHits(folded string, freq map[string]int, tokens map[string]struct{}, phrases []string, matched map[string]int) int {
	total := 0
	for tok := range tokens {
		if n := freq[tok]; n > 0 {
			matched[tok] += n
			total += n
		}
	}
	padded := " " + folded + " "
	for _, phrase := range phrases {
		if n := strings.Count(padded, " "+phrase+" "); n > 0 {
			matched[phrase] += n
			total += n
		}
	}
	return total
}
