// Package seed loads record fixtures from YAML and writes them to a repository.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/record"
)

// fixture is the YAML document shape: a top-level "records" list of plain maps.
type fixture struct {
	Records []map[string]any `yaml:"records"`
}

// writer is the consumer interface for the record repository (ISP).
type writer interface {
	Create(ctx context.Context, rec record.Record) error
	Put(ctx context.Context, rec record.Record) error
}

// Stats counts the outcome of a seed run.
type Stats struct {
	Created int
	Skipped int
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) ([]record.Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	recs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return recs, nil
}

// Parse decodes fixture YAML. Value kinds are inferred by record.FromAny.
// Duplicate ids are rejected.
func Parse(data []byte) ([]record.Record, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	out := make([]record.Record, 0, len(fx.Records))
	seen := make(map[string]struct{}, len(fx.Records))
	for i, m := range fx.Records {
		rec, err := record.FromMap(m)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w: %w", i, domain.ErrValidation, err)
		}
		if _, dup := seen[rec.ID()]; dup {
			return nil, fmt.Errorf("records[%d]: duplicate id %q: %w", i, rec.ID(), domain.ErrValidation)
		}
		seen[rec.ID()] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

// Seeder writes fixture records to a repository.
type Seeder struct {
	repo   writer
	logger *zap.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(repo writer, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{repo: repo, logger: logger}
}

// Seed stores the records. Without overwrite, existing ids are left untouched and counted as skipped.
func (s *Seeder) Seed(ctx context.Context, recs []record.Record, overwrite bool) (Stats, error) {
	var st Stats
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("seed: %w", err)
		}
		if overwrite {
			if err := s.repo.Put(ctx, rec); err != nil {
				return st, fmt.Errorf("put %s: %w", rec.ID(), err)
			}
			st.Created++
			continue
		}
		err := s.repo.Create(ctx, rec)
		switch {
		case err == nil:
			st.Created++
		case errors.Is(err, domain.ErrAlreadyExists):
			st.Skipped++
		default:
			return st, fmt.Errorf("create %s: %w", rec.ID(), err)
		}
	}
	s.logger.Info("Seeded records",
		zap.Int("created", st.Created),
		zap.Int("skipped", st.Skipped),
		zap.Bool("overwrite", overwrite),
	)
	return st, nil
}
