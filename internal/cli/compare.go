package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/perisailabs/perisai/internal/catalog"
	"github.com/perisailabs/perisai/internal/compare"
	"github.com/perisailabs/perisai/internal/model"
	"github.com/perisailabs/perisai/internal/normalize"
	"github.com/perisailabs/perisai/internal/reputation"
)

var (
	policiesFile   string
	customerFile   string
	weightsFlag    string
	ratingsFile    string
	jsonOutput     bool
	compareTimeout time.Duration
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare policies against a customer profile",
	Long: `Compare runs the full comparison pipeline:
- Normalize raw policy records into the canonical schema
- Filter out policies the customer is not eligible for
- Score the rest across coverage, service, pricing, eligibility, and takaful fit
- Rank by total score with a short rationale per policy

Without --policies the embedded seed catalog is compared.

Example:
  perisai compare --customer customer.yaml
  perisai compare --policies quotes.json --customer customer.yaml
  perisai compare --customer customer.yaml --weights 0.4,0.2,0.2,0.1,0.1 --json`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	// Input flags
	compareCmd.Flags().StringVar(&policiesFile, "policies", "", "policy records file (YAML, JSON, or HTML table; default: embedded seed catalog)")
	compareCmd.Flags().StringVar(&customerFile, "customer", "", "customer profile file (YAML or JSON)")
	compareCmd.Flags().StringVar(&weightsFlag, "weights", "", "scoring weights as coverage,service,pricing,eligibility,takaful (must sum to 1.0)")
	compareCmd.Flags().StringVar(&ratingsFile, "ratings", "", "insurer ratings table (YAML or JSON)")

	// Output flags
	compareCmd.Flags().BoolVar(&jsonOutput, "json", false, "write the full result as JSON to stdout")
	compareCmd.Flags().DurationVar(&compareTimeout, "timeout", 30*time.Second, "overall comparison timeout")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), compareTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ratingsFile != "" {
		cfg.Reputation.RatingsFile = ratingsFile
	}
	if cfg.Output.Verbose {
		verbose = true
	}

	format := cfg.Output.Format
	if jsonOutput {
		format = "json"
	}

	weights, err := parseWeights(weightsFlag)
	if err != nil {
		return err
	}

	records, err := loadRecords(policiesFile, cfg)
	if err != nil {
		return fmt.Errorf("load policies: %w", err)
	}

	var customer model.CustomerProfile
	if customerFile != "" {
		c, err := catalog.LoadCustomer(customerFile)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		customer = *c
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Normalizing %d policy records...\n", len(records))
	}

	policies, failures := normalize.New().NormalizeAll(records)
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "✗ skipped %v\n", f)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Normalized %d of %d records\n", len(policies), len(records))
	}

	// Ratings come from the configured static table or feed; without
	// either, every insurer scores the neutral midpoint.
	source, err := reputation.FromConfig(cfg.Reputation, zap.NewNop())
	if err != nil {
		return fmt.Errorf("ratings source: %w", err)
	}
	ratings := source.Ratings(ctx, insurerNames(policies))

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Comparing %d policies...\n", len(policies))
	}

	result, err := compare.New(cfg).Compare(ctx, compare.Input{
		Policies: policies,
		Customer: customer,
		Weights:  weights,
		Ratings:  ratings,
	})
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Ranked %d policies, excluded %d\n", len(result.RankedPolicies), len(result.ExcludedPolicies))
		fmt.Fprintln(os.Stderr)
	}

	if strings.EqualFold(format, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderResult(os.Stdout, result)
	return nil
}

// parseWeights turns "0.3,0.25,0.25,0.1,0.1" into a weight set. An
// empty flag selects the configured defaults.
func parseWeights(s string) (*model.ComparisonWeights, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return nil, fmt.Errorf("weights need exactly 5 comma-separated values (coverage,service,pricing,eligibility,takaful), got %d", len(parts))
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("weight %d: cannot parse %q as a number", i+1, strings.TrimSpace(part))
		}
		values[i] = f
	}

	return &model.ComparisonWeights{
		Coverage:    values[0],
		Service:     values[1],
		Pricing:     values[2],
		Eligibility: values[3],
		Takaful:     values[4],
	}, nil
}

// loadRecords returns the raw policy catalog: the explicit file when
// given, the configured catalog path otherwise, the embedded seed as a
// last resort.
func loadRecords(path string, cfg *model.Config) ([]normalize.RawRecord, error) {
	switch {
	case path != "":
		return catalog.LoadPolicies(path)
	case cfg.Catalog.Path != "":
		return catalog.LoadPolicies(cfg.Catalog.Path)
	default:
		return catalog.Seed()
	}
}

func insurerNames(policies []model.Policy) []string {
	seen := make(map[string]struct{}, len(policies))
	names := make([]string, 0, len(policies))
	for _, p := range policies {
		if _, ok := seen[p.Insurer]; ok {
			continue
		}
		seen[p.Insurer] = struct{}{}
		names = append(names, p.Insurer)
	}
	return names
}

func renderResult(w io.Writer, result *model.ComparisonResult) {
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Policy Comparison\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Comparison:  %s\n", result.ComparisonID)
	fmt.Fprintf(w, "  Generated:   %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Eligible:    %d of %d policies\n", result.EligibleCount, result.PolicyCount)
	fmt.Fprintf(w, "\n")

	if len(result.RankedPolicies) == 0 {
		fmt.Fprintf(w, "  No eligible policies for this profile.\n")
	}

	for i, sp := range result.RankedPolicies {
		name := fmt.Sprintf("%s %s", sp.Policy.Insurer, sp.Policy.ProductName)
		fmt.Fprintf(w, "%2d. %-42s %5.1f  RM %.2f/yr\n", i+1, name, sp.TotalScore, sp.AdjustedPremium)
		for _, reason := range sp.Rationale {
			fmt.Fprintf(w, "      • %s\n", reason)
		}
	}

	if len(result.ExcludedPolicies) > 0 {
		fmt.Fprintf(w, "\nExcluded:\n")
		for _, ex := range result.ExcludedPolicies {
			fmt.Fprintf(w, "  ✗ %s %s: %s\n", ex.Policy.Insurer, ex.Policy.ProductName, strings.Join(ex.Reasons, "; "))
		}
	}

	fmt.Fprintf(w, "\n")
}
