package compare

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/perisailabs/perisai/internal/eligibility"
	"github.com/perisailabs/perisai/internal/model"
	"github.com/perisailabs/perisai/internal/rank"
	"github.com/perisailabs/perisai/internal/score"
	"github.com/perisailabs/perisai/internal/worker"
)

// Input carries everything one comparison run needs. The engine itself
// performs no I/O: insurer ratings are resolved by the caller and
// handed in as a plain map keyed by insurer name.
type Input struct {
	Policies []model.Policy
	Customer model.CustomerProfile
	Weights  *model.ComparisonWeights // nil means the default weights
	Ratings  map[string]float64       // insurer -> service rating, 0-5 scale
}

// Engine runs the two-phase comparison pipeline: eligibility and
// premium adjustment first, scoring and ranking against the batch
// second. Identical inputs produce identical output regardless of how
// many workers evaluate the batch.
type Engine struct {
	cfg    *model.Config
	filter *eligibility.Filter
	scorer *score.Scorer
	ranker *rank.Ranker
}

// New creates an engine from the given configuration, or the defaults
// when cfg is nil.
func New(cfg *model.Config) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Engine{
		cfg:    cfg,
		filter: eligibility.NewFilter(cfg.Risk),
		scorer: score.NewScorer(cfg.Scoring),
		ranker: rank.NewRanker(cfg.Scoring),
	}
}

// Compare evaluates, scores, and ranks a batch of policies for one
// customer. Invalid weights fail the whole run before any policy is
// touched. Ineligible policies are reported with reasons, never
// silently dropped; an empty ranked list is a valid outcome.
func (e *Engine) Compare(ctx context.Context, input Input) (*model.ComparisonResult, error) {
	weights := model.DefaultWeights()
	if input.Weights != nil {
		weights = *input.Weights
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	// Phase 1: eligibility and adjusted premiums
	outcomes := e.evaluateAll(ctx, input.Policies, input.Customer)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var eligibleIdx []int
	var premiums []float64
	var excluded []model.ExcludedPolicy
	for i, outcome := range outcomes {
		if outcome.Eligible {
			eligibleIdx = append(eligibleIdx, i)
			premiums = append(premiums, outcome.AdjustedPremium)
		} else {
			excluded = append(excluded, model.ExcludedPolicy{
				Policy:  input.Policies[i],
				Reasons: outcome.Reasons,
			})
		}
	}

	// Phase 2: score against the batch premium range
	batch := score.RangeOf(premiums)

	scored := make([]model.ScoredPolicy, 0, len(eligibleIdx))
	for _, i := range eligibleIdx {
		policy := input.Policies[i]
		outcome := outcomes[i]

		components, total, err := e.scorer.Score(policy, input.Customer, outcome, batch, ratingFor(input.Ratings, policy.Insurer), weights)
		if err != nil {
			return nil, err
		}

		sp := model.ScoredPolicy{
			Policy:          policy,
			AdjustedPremium: outcome.AdjustedPremium,
			Eligible:        true,
			ComponentScores: components,
			TotalScore:      total,
		}
		sp.Rationale = e.ranker.Explain(sp, outcome.Penalties)
		scored = append(scored, sp)
	}

	result := e.ranker.Rank(scored, excluded, weights)
	result.ComparisonID = uuid.NewString()
	result.GeneratedAt = time.Now().UTC()

	return result, nil
}

// evaluateAll runs phase 1 over the batch, in parallel once the batch
// reaches the configured threshold. Results land in input order either
// way.
func (e *Engine) evaluateAll(ctx context.Context, policies []model.Policy, customer model.CustomerProfile) []model.EligibilityOutcome {
	outcomes := make([]model.EligibilityOutcome, len(policies))

	threshold := e.cfg.Concurrency.ParallelBatch
	if threshold <= 0 || len(policies) < threshold {
		for i, policy := range policies {
			outcomes[i] = e.filter.Evaluate(policy, customer)
		}
		return outcomes
	}

	jobs := make([]worker.Job, len(policies))
	for i := range policies {
		jobs[i] = &evaluateJob{
			index:    i,
			filter:   e.filter,
			policy:   policies[i],
			customer: customer,
		}
	}

	for _, res := range worker.RunOrdered(ctx, e.cfg.Concurrency.Workers, jobs) {
		if res == nil {
			continue
		}
		er := res.(evaluateResult)
		outcomes[er.index] = er.outcome
	}

	return outcomes
}

func ratingFor(ratings map[string]float64, insurer string) *float64 {
	if ratings == nil {
		return nil
	}
	if r, ok := ratings[insurer]; ok {
		return &r
	}
	return nil
}

type evaluateJob struct {
	index    int
	filter   *eligibility.Filter
	policy   model.Policy
	customer model.CustomerProfile
}

func (j *evaluateJob) Execute(ctx context.Context) worker.Result {
	return evaluateResult{index: j.index, outcome: j.filter.Evaluate(j.policy, j.customer)}
}

type evaluateResult struct {
	index   int
	outcome model.EligibilityOutcome
}

func (r evaluateResult) Index() int { return r.index }
func (r evaluateResult) Err() error { return nil }
