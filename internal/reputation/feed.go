package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/perisailabs/perisai/internal/cache"
	"github.com/perisailabs/perisai/internal/model"
	"github.com/perisailabs/perisai/internal/worker"
)

const feedMaxBytes = 1 << 20 // feeds list a handful of insurers; anything bigger is wrong

// FeedSource pulls insurer ratings from an external JSON feed. Fetches
// are rate limited and cached, so a comparison burst costs at most one
// upstream request per TTL window.
type FeedSource struct {
	url     string
	client  *http.Client
	limiter *worker.Limiter
	store   cache.Cache
	ttl     time.Duration
	log     *zap.Logger
}

// feedPayload is the feed wire format: {"ratings": [{"insurer": ...,
// "rating": ...}, ...]}.
type feedPayload struct {
	Ratings []feedEntry `json:"ratings"`
}

type feedEntry struct {
	Insurer string  `json:"insurer"`
	Rating  float64 `json:"rating"`
}

// NewFeedSource creates a feed client for the configured URL. A nil
// store gets a private memory cache; a nil logger is silenced.
func NewFeedSource(cfg model.ReputationConfig, store cache.Cache, log *zap.Logger) *FeedSource {
	if store == nil {
		store = cache.NewMemoryCache(cfg.CacheTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &FeedSource{
		url: cfg.FeedURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter: worker.NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
		store:   store,
		ttl:     cfg.CacheTTL,
		log:     log,
	}
}

// Rating resolves one insurer through the feed. Feed failures are
// reported as errors so layered sources can fall back; an insurer the
// feed does not list resolves to nil without error.
func (f *FeedSource) Rating(ctx context.Context, insurer string) (*float64, error) {
	table, err := f.table(ctx)
	if err != nil {
		return nil, err
	}
	if rating, ok := table[normalizeName(insurer)]; ok {
		return &rating, nil
	}
	return nil, nil
}

// Ratings resolves a batch of insurers, degrading to an empty map when
// the feed is unavailable.
func (f *FeedSource) Ratings(ctx context.Context, insurers []string) map[string]float64 {
	return collect(ctx, f, insurers)
}

// table returns the normalized ratings table, fetching the feed only on
// cache misses.
func (f *FeedSource) table(ctx context.Context) (map[string]float64, error) {
	key := cache.Key([]byte("ratings-feed:" + f.url))

	if body, ok := f.store.Get(key); ok {
		return parseFeed(body)
	}

	body, err := f.fetch(ctx)
	if err != nil {
		f.log.Warn("ratings feed unavailable", zap.String("url", f.url), zap.Error(err))
		return nil, err
	}

	table, err := parseFeed(body)
	if err != nil {
		f.log.Warn("ratings feed malformed", zap.String("url", f.url), zap.Error(err))
		return nil, err
	}

	_ = f.store.Set(key, body, f.ttl)

	return table, nil
}

func (f *FeedSource) fetch(ctx context.Context) ([]byte, error) {
	if err := f.limiter.Wait(ctx, f.url); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "perisai/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, feedMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	return body, nil
}

// parseFeed decodes the wire payload into a normalized lookup table,
// dropping entries outside the 0-5 scale.
func parseFeed(body []byte) (map[string]float64, error) {
	var payload feedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	table := make(map[string]float64, len(payload.Ratings))
	for _, entry := range payload.Ratings {
		if entry.Insurer == "" || entry.Rating < 0 || entry.Rating > 5 {
			continue
		}
		table[normalizeName(entry.Insurer)] = entry.Rating
	}

	return table, nil
}
