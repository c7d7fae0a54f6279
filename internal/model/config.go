package model

import (
	"fmt"
	"runtime"
	"time"
)

// Config is the complete engine and glue configuration. DefaultConfig
// returns a working setup; the CLI and server override fields from the
// config file, environment, and flags. The comparison core itself never
// reads configuration from the environment.
type Config struct {
	Weights     ComparisonWeights `yaml:"weights"`     // Default weight set offered to callers
	Risk        RiskConfig        `yaml:"risk"`        // Soft risk-adjustment bands
	Scoring     ScoringConfig     `yaml:"scoring"`     // Component thresholds and steps
	Router      RouterConfig      `yaml:"router"`      // Knowledge router keyword sets
	Reputation  ReputationConfig  `yaml:"reputation"`  // Insurer rating sources
	Catalog     CatalogConfig     `yaml:"catalog"`     // Policy catalog location
	Server      ServerConfig      `yaml:"server"`      // HTTP server settings
	Concurrency ConcurrencyConfig `yaml:"concurrency"` // Batch evaluation parallelism
	Output      OutputConfig      `yaml:"output"`      // CLI output settings
}

// RiskConfig holds the soft risk-adjustment bands applied by the
// eligibility filter. These are underwriting parameters, not fixed
// business rules; deployments tune them.
type RiskConfig struct {
	YoungAgeMax           int     `yaml:"young_age_max"`           // Strictly younger drivers carry the young loading
	YoungMultiplier       float64 `yaml:"young_multiplier"`        // Loading for young drivers
	SeniorAgeMin          int     `yaml:"senior_age_min"`          // Strictly older drivers carry the senior loading
	SeniorMultiplier      float64 `yaml:"senior_multiplier"`       // Loading for senior drivers
	NoviceYearsMax        int     `yaml:"novice_years_max"`        // Strictly fewer licence years counts as novice
	NoviceMultiplier      float64 `yaml:"novice_multiplier"`       // Loading for novice drivers
	ExperiencedYearsMin   int     `yaml:"experienced_years_min"`   // At or above earns the experience discount
	ExperiencedMultiplier float64 `yaml:"experienced_multiplier"`  // Discount for experienced drivers
	ClaimLoading          float64 `yaml:"claim_loading"`           // Added to the claims factor per prior claim
	MaxClaimLoading       float64 `yaml:"max_claim_loading"`       // Ceiling on the claims factor
	LowNCDBelow           float64 `yaml:"low_ncd_below"`           // NCD strictly below this raises the low-NCD flag
	MinMultiplier         float64 `yaml:"min_multiplier"`          // Clamp floor for the combined multiplier
	MaxMultiplier         float64 `yaml:"max_multiplier"`          // Clamp ceiling for the combined multiplier
}

// ScoringConfig holds the scoring engine's fixed points
type ScoringConfig struct {
	ServiceRatingMax float64 `yaml:"service_rating_max"` // Rating scale ceiling; ratings arrive in [0, max]
	NeutralService   float64 `yaml:"neutral_service"`    // Service score when no rating is known
	PenaltyStep      float64 `yaml:"penalty_step"`       // Eligibility score decrement per soft penalty
	StrongThreshold  float64 `yaml:"strong_threshold"`   // Component score at or above reads as a strength
	WeakThreshold    float64 `yaml:"weak_threshold"`     // Component score at or below reads as a weakness
	MinRationale     int     `yaml:"min_rationale"`      // Rationale strings per ranked policy, lower bound
	MaxRationale     int     `yaml:"max_rationale"`      // Rationale strings per ranked policy, upper bound
}

// RouterConfig holds the keyword sets the knowledge router counts.
// Multi-word entries match as token sequences.
type RouterConfig struct {
	InsuranceKeywords []string `yaml:"insurance_keywords"`
	ProjectKeywords   []string `yaml:"project_keywords"`
}

// ReputationConfig selects where insurer ratings come from. With a feed
// URL the feed is consulted first and the static table is the fallback;
// with neither, every insurer scores the neutral midpoint.
type ReputationConfig struct {
	RatingsFile       string        `yaml:"ratings_file"`        // Static insurer-to-rating table (YAML or JSON)
	FeedURL           string        `yaml:"feed_url"`            // External ratings feed endpoint
	Timeout           time.Duration `yaml:"timeout"`             // Per-request feed timeout
	CacheTTL          time.Duration `yaml:"cache_ttl"`           // How long fetched ratings stay warm
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Outbound feed rate limit
	Burst             int           `yaml:"burst"`               // Outbound feed burst allowance
}

// CatalogConfig locates the raw policy catalog. An empty path selects
// the embedded seed catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr              string        `yaml:"addr"`                // Listen address
	RequestTimeout    time.Duration `yaml:"request_timeout"`     // Per-request deadline
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`    // Graceful drain window
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Inbound rate limit
	Burst             int           `yaml:"burst"`               // Inbound burst allowance
	CacheTTL          time.Duration `yaml:"cache_ttl"`           // Compare response cache lifetime
}

// ConcurrencyConfig controls batch evaluation parallelism
type ConcurrencyConfig struct {
	Workers       int `yaml:"workers"`        // Worker pool size
	ParallelBatch int `yaml:"parallel_batch"` // Batches at or above this size use the pool
}

// OutputConfig holds CLI output settings
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Weights: DefaultWeights(),
		Risk: RiskConfig{
			YoungAgeMax:           25,
			YoungMultiplier:       1.25,
			SeniorAgeMin:          60,
			SeniorMultiplier:      1.10,
			NoviceYearsMax:        2,
			NoviceMultiplier:      1.10,
			ExperiencedYearsMin:   10,
			ExperiencedMultiplier: 0.90,
			ClaimLoading:          0.15,
			MaxClaimLoading:       1.45,
			LowNCDBelow:           30,
			MinMultiplier:         0.7,
			MaxMultiplier:         1.8,
		},
		Scoring: ScoringConfig{
			ServiceRatingMax: 5.0,
			NeutralService:   50,
			PenaltyStep:      15,
			StrongThreshold:  80,
			WeakThreshold:    40,
			MinRationale:     2,
			MaxRationale:     4,
		},
		Router: RouterConfig{
			InsuranceKeywords: []string{
				"insurance", "insurer", "takaful", "policy", "policies",
				"premium", "coverage", "cover", "claim", "claims", "ncd",
				"no claim discount", "excess", "deductible", "windscreen",
				"roadside assistance", "flood", "comprehensive", "third party",
				"fire and theft", "sum insured", "panel workshop", "renewal",
				"road tax", "motor", "underwriting",
			},
			ProjectKeywords: []string{
				"code", "repository", "repo", "deploy", "deployment", "api",
				"endpoint", "build", "docs", "documentation", "architecture",
				"database", "schema", "bug", "release", "readme", "server",
				"test", "pipeline", "branch", "commit", "module",
			},
		},
		Reputation: ReputationConfig{
			Timeout:           10 * time.Second,
			CacheTTL:          1 * time.Hour,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Server: ServerConfig{
			Addr:              ":8380",
			RequestTimeout:    15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RequestsPerSecond: 20,
			Burst:             40,
			CacheTTL:          60 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers:       runtime.NumCPU(),
			ParallelBatch: 8,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks the configuration for values the engine cannot work
// with. The returned error matches ErrConfiguration.
func (c *Config) Validate() error {
	if c.Risk.MinMultiplier <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("risk.min_multiplier must be positive, got %g", c.Risk.MinMultiplier)}
	}
	if c.Risk.MaxMultiplier < c.Risk.MinMultiplier {
		return &ConfigurationError{Reason: fmt.Sprintf("risk.max_multiplier %g below risk.min_multiplier %g",
			c.Risk.MaxMultiplier, c.Risk.MinMultiplier)}
	}
	if c.Scoring.ServiceRatingMax <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("scoring.service_rating_max must be positive, got %g", c.Scoring.ServiceRatingMax)}
	}
	if c.Scoring.PenaltyStep < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("scoring.penalty_step must not be negative, got %g", c.Scoring.PenaltyStep)}
	}
	if c.Scoring.MinRationale < 0 || c.Scoring.MaxRationale < c.Scoring.MinRationale {
		return &ConfigurationError{Reason: "scoring rationale bounds are inconsistent"}
	}
	return c.Weights.Validate()
}
