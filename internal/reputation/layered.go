package reputation

import (
	"context"

	"go.uber.org/zap"

	"github.com/perisailabs/perisai/internal/model"
)

// Layered consults sources in order and answers with the first rating
// that resolves. A source erroring or not knowing the insurer falls
// through to the next.
type Layered struct {
	sources []Source
}

// NewLayered composes sources in lookup order, ignoring nils.
func NewLayered(sources ...Source) *Layered {
	l := &Layered{}
	for _, s := range sources {
		if s != nil {
			l.sources = append(l.sources, s)
		}
	}
	return l
}

// Rating returns the first resolved rating across the layers.
func (l *Layered) Rating(ctx context.Context, insurer string) (*float64, error) {
	for _, s := range l.sources {
		rating, err := s.Rating(ctx, insurer)
		if err != nil || rating == nil {
			continue
		}
		return rating, nil
	}
	return nil, nil
}

// Ratings resolves a batch of insurers across the layers.
func (l *Layered) Ratings(ctx context.Context, insurers []string) map[string]float64 {
	return collect(ctx, l, insurers)
}

// FromConfig wires the configured rating sources: the feed first when a
// URL is set, then the static table when a file is given. With neither,
// every insurer resolves to nil and scores the neutral midpoint.
func FromConfig(cfg model.ReputationConfig, log *zap.Logger) (Source, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var sources []Source

	if cfg.FeedURL != "" {
		sources = append(sources, NewFeedSource(cfg, nil, log))
	}
	if cfg.RatingsFile != "" {
		static, err := LoadStaticSource(cfg.RatingsFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, static)
	}

	return NewLayered(sources...), nil
}
