package categorize

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
)

// Fallback asks the primary categorizer and answers from the secondary
// when the primary provider fails. Context cancellation is not masked.
type Fallback struct {
	primary   category.Categorizer
	secondary category.Categorizer
	logger    *zap.Logger
}

// NewFallback creates a fallback chain.
func NewFallback(primary, secondary category.Categorizer, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Categorize implements category.Categorizer.
func (f *Fallback) Categorize(ctx context.Context, hint category.Hint) (category.Suggestion, error) {
	s, err := f.primary.Categorize(ctx, hint)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrCategorizerProviderError) || ctx.Err() != nil {
		return category.Suggestion{}, err
	}

	f.logger.Warn("Categorizer provider failed, using fallback", zap.Error(err))
	s, ferr := f.secondary.Categorize(ctx, hint)
	if ferr != nil {
		return category.Suggestion{}, fmt.Errorf("fallback categorize: %w", ferr)
	}
	return s, nil
}
