package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/logger"
	"github.com/kailas-cloud/shopagent/internal/metrics"
	"github.com/kailas-cloud/shopagent/internal/workerpool"
)

// base carries what every agent shares.
type base struct {
	name   string
	role   string
	logger *zap.Logger
	pool   *workerpool.Pool
}

func newBase(kind, name, role string, pool *workerpool.Pool, l *zap.Logger) base {
	if pool == nil {
		pool = workerpool.New(workerpool.DefaultSize)
	}
	return base{
		name:   name,
		role:   role,
		logger: logger.ForAgent(l, kind, name),
		pool:   pool,
	}
}

// Name returns the agent's display name.
func (b *base) Name() string { return b.name }

// Role returns the agent's self-description.
func (b *base) Role() string { return b.role }

// log returns the request logger when one is attached, scoped to this agent.
func (b *base) log(ctx context.Context) *zap.Logger {
	if l := logger.FromContextOr(ctx, nil); l != nil {
		return l.With(zap.String("agent", b.name))
	}
	return b.logger
}

func (b *base) logActivity(ctx context.Context, activity string, fields ...zap.Field) {
	b.log(ctx).Info(b.name+": "+activity, fields...)
}

// invalid records and returns a rejected input.
func (b *base) invalid(ctx context.Context, op, what string) error {
	metrics.AgentCallsTotal.WithLabelValues(b.name, op, "invalid").Inc()
	b.log(ctx).Warn(b.name+": rejected input", zap.String("operation", op), zap.String("reason", what))
	return fmt.Errorf("%s: %w", what, domain.ErrInvalidInput)
}

// call runs fn on the worker pool and wraps any failure as
// "failed to <op>: ..." tagged with domain.ErrServiceFailure.
func call[T any](ctx context.Context, b *base, op, desc string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := workerpool.Run(ctx, b.pool, fn)
	metrics.AgentCallDuration.WithLabelValues(b.name, op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AgentCallsTotal.WithLabelValues(b.name, op, "error").Inc()
		var zero T
		return zero, wrapFailure(desc, err)
	}
	metrics.AgentCallsTotal.WithLabelValues(b.name, op, "success").Inc()
	return v, nil
}

func wrapFailure(desc string, err error) error {
	if errors.Is(err, domain.ErrServiceFailure) {
		return fmt.Errorf("failed to %s: %w", desc, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", desc, err, domain.ErrServiceFailure)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
