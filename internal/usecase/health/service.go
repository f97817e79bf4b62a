package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase    = "database"
	ComponentCategorizer = "categorizer"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db          DBPinger
	categorizer CategorizerChecker
	timeout     time.Duration
}

// New creates a Service. categorizer can be nil (rule-based categorizing has nothing to check).
func New(db DBPinger, categorizer CategorizerChecker) *Service {
	return &Service{db: db, categorizer: categorizer, timeout: DefaultCheckTimeout}
}

// Check runs health checks against all components.
// The database is required; a failing categorizer only degrades the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	status := Healthy

	checks[ComponentDatabase] = s.run(ctx, s.db.Ping)
	if checks[ComponentDatabase] == CheckError {
		status = Unhealthy
	}

	if s.categorizer != nil {
		checks[ComponentCategorizer] = s.run(ctx, s.categorizer.HealthCheck)
		if checks[ComponentCategorizer] == CheckError && status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
