package archivist

import (
	"context"
	"errors"
	"time"

	healthuc "github.com/kailas-cloud/archivist/internal/usecase/health"
)

// HealthStatus is the store health as seen by this client.
type HealthStatus struct {
	Status string            // "ok" or "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Healthy reports whether every check passed.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the store behind the client. The SDK has no categorizer,
// so the report only carries the database check.
func (c *Client) Health(ctx context.Context) (h HealthStatus) {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	defer func() {
		var err error
		if !h.Healthy() {
			err = errUnhealthy
		}
		c.obs.observe("health", start, err)
	}()

	h = HealthStatus{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for k, v := range report.Checks {
		h.Checks[k] = string(v)
	}
	return h
}

var errUnhealthy = errors.New("archivist: store unhealthy")

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
