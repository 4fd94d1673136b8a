package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the aggregated health of the process.
type Status string

const (
	// Healthy means every probe passed.
	Healthy Status = "ok"
	// Degraded means the store answers but at least one provider does not.
	Degraded Status = "degraded"
	// Unhealthy means the store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of a single probe.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

const (
	databaseCheck       = "database"
	defaultProbeTimeout = 3 * time.Second
)

// Report is returned by Check.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service probes the store and every configured provider.
type Service struct {
	db        DBPinger
	providers map[string]ProviderChecker
	timeout   time.Duration
}

// New creates a Service. providers maps a check name such as "llm" to its
// checker; nil checkers are skipped.
func New(db DBPinger, providers map[string]ProviderChecker) *Service {
	checked := make(map[string]ProviderChecker, len(providers))
	for name, p := range providers {
		if p != nil {
			checked[name] = p
		}
	}
	return &Service{db: db, providers: checked, timeout: defaultProbeTimeout}
}

// WithTimeout bounds each probe. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs all probes concurrently, each under its own deadline.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult, len(s.providers)+1)
		g      errgroup.Group
	)

	probe := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := CheckOK
			if err := fn(pctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
			return nil
		})
	}

	probe(databaseCheck, s.db.Ping)
	for name, p := range s.providers {
		probe(name, p.HealthCheck)
	}
	_ = g.Wait()

	return Report{Status: aggregate(checks), Checks: checks}
}

func aggregate(checks map[string]CheckResult) Status {
	if checks[databaseCheck] == CheckError {
		return Unhealthy
	}
	for _, v := range checks {
		if v == CheckError {
			return Degraded
		}
	}
	return Healthy
}
