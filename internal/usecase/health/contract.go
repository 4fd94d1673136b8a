package health

import "context"

// DBPinger reports whether the store answers.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker is implemented by LLM and embedding clients that can
// verify their credentials and reachability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
