package categorize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/archivist/internal/domain"
	"github.com/kailas-cloud/archivist/internal/domain/category"
	"github.com/kailas-cloud/archivist/internal/metrics"
)

// Instrumented wraps a Categorizer with request metrics and logging.
type Instrumented struct {
	inner    category.Categorizer
	provider string
	logger   *zap.Logger
}

// NewInstrumented wraps a categorizer. provider labels the metrics.
func NewInstrumented(inner category.Categorizer, provider string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, provider: provider, logger: logger}
}

// Categorize validates the hint, delegates and records the outcome.
func (c *Instrumented) Categorize(ctx context.Context, hint category.Hint) (category.Suggestion, error) {
	if hint.IsEmpty() {
		return category.Suggestion{}, fmt.Errorf("categorize: empty hint: %w", domain.ErrValidation)
	}

	start := time.Now()
	s, err := c.inner.Categorize(ctx, hint)
	duration := time.Since(start)

	metrics.CategorizerRequestDuration.WithLabelValues(c.provider).Observe(duration.Seconds())
	if err != nil {
		metrics.CategorizerRequestsTotal.WithLabelValues(c.provider, "error").Inc()
		c.logger.Error("Categorize request failed",
			zap.String("provider", c.provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return category.Suggestion{}, fmt.Errorf("categorize: %w", err)
	}
	metrics.CategorizerRequestsTotal.WithLabelValues(c.provider, "success").Inc()

	c.logger.Debug("Categorize request completed",
		zap.String("provider", c.provider),
		zap.String("source", string(s.Source)),
		zap.String("category", s.Category),
		zap.Int("tags", len(s.Tags)),
		zap.Duration("duration", duration),
	)
	return s, nil
}
