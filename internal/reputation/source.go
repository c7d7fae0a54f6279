package reputation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source resolves insurer service ratings on the 0-5 scale consumed by
// the service score. A nil rating means the insurer is unknown to this
// source; scoring then falls back to the neutral midpoint.
type Source interface {
	Rating(ctx context.Context, insurer string) (*float64, error)
	Ratings(ctx context.Context, insurers []string) map[string]float64
}

// normalizeName folds an insurer name for lookup. Case and interior
// whitespace differences must not split one insurer into two.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// collect resolves many insurers through one source, keeping only the
// ratings that resolved. Lookup failures degrade to absence.
func collect(ctx context.Context, s Source, insurers []string) map[string]float64 {
	out := make(map[string]float64, len(insurers))
	for _, insurer := range insurers {
		rating, err := s.Rating(ctx, insurer)
		if err != nil || rating == nil {
			continue
		}
		out[insurer] = *rating
	}
	return out
}

// StaticSource serves ratings from a fixed table.
type StaticSource struct {
	table map[string]float64
}

// NewStaticSource builds a static source from an insurer-to-rating
// table. Keys are name-normalized; entries outside the 0-5 scale are
// dropped.
func NewStaticSource(table map[string]float64) *StaticSource {
	s := &StaticSource{table: make(map[string]float64, len(table))}
	for name, rating := range table {
		if rating < 0 || rating > 5 {
			continue
		}
		s.table[normalizeName(name)] = rating
	}
	return s
}

// LoadStaticSource reads an insurer-to-rating table from a YAML or JSON
// file. The file holds a flat mapping of insurer name to rating.
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ratings file: %w", err)
	}

	var table map[string]float64
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse ratings file: %w", err)
	}

	return NewStaticSource(table), nil
}

// Rating looks the insurer up in the table. Unknown insurers resolve to
// nil without error.
func (s *StaticSource) Rating(_ context.Context, insurer string) (*float64, error) {
	if rating, ok := s.table[normalizeName(insurer)]; ok {
		return &rating, nil
	}
	return nil, nil
}

// Ratings resolves a batch of insurers against the table.
func (s *StaticSource) Ratings(ctx context.Context, insurers []string) map[string]float64 {
	return collect(ctx, s, insurers)
}
