package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CategorizerChecker checks the auto-categorize provider.
type CategorizerChecker interface {
	HealthCheck(ctx context.Context) error
}
