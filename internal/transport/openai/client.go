// Package openai talks to OpenAI-compatible endpoints for embeddings and
// chat completions.
package openai

import (
	"cmp"
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/metrics"
)

// Config is shared by the embedder and the generator.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Dimensions  int // embedder only
	MaxTokens   int // generator only
	Temperature float32
	User        string
	Provider    string // metrics label, defaults to "openai"
	Logger      *zap.Logger
}

// conn is the client state both Embedder and Generator build on.
type conn struct {
	api      *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

func newConn(cfg *Config) conn {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return conn{
		api:      openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		user:     cfg.User,
		provider: cmp.Or(cfg.Provider, "openai"),
		logger:   l,
	}
}

// record observes one upstream call. outcome is success, error or empty.
func (c *conn) record(start time.Time, outcome string) {
	metrics.LLMRequestDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(start).Seconds())
	metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, outcome).Inc()
}

// HealthCheck lists models, which costs no tokens.
func (c *conn) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
