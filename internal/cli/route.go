package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/perisailabs/perisai/internal/route"
)

var routeJSON bool

// routeCmd represents the route command
var routeCmd = &cobra.Command{
	Use:   "route <query>",
	Short: "Route a question to the insurance or project knowledge base",
	Long: `Route classifies a free-text question by counting domain keywords
and prints the winning domain: insurance, project, or none when nothing
matches or the domains tie.

Example:
  perisai route "What does a comprehensive policy cover?"
  perisai route "How do I deploy the API server?" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().BoolVar(&routeJSON, "json", false, "write the full decision as JSON to stdout")
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	decision := route.NewKeywordClassifier(cfg.Router).Classify(args[0])

	if routeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(decision)
	}

	fmt.Println(decision.Domain)

	if verbose {
		fmt.Fprintf(os.Stderr, "%s\n", decision.Reason)

		terms := make([]string, 0, len(decision.Matched))
		for term := range decision.Matched {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			fmt.Fprintf(os.Stderr, "  %s: %d\n", term, decision.Matched[term])
		}
	}

	return nil
}
