package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/metrics"
)

const (
	provider         = "anthropic"
	defaultMaxTokens = 1024
)

// Config holds the Anthropic generator settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
	Options     []option.RequestOption // appended after the derived options
}

// Generator is a text generator backed by the Anthropic Messages API.
type Generator struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float32
	logger      *zap.Logger
}

// NewGenerator creates an Anthropic text generator.
func NewGenerator(cfg *Config) *Generator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, cfg.Options...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &Generator{
		client:      anthropic.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   int64(maxTokens),
		temperature: cfg.Temperature,
		logger:      l,
	}
}

// Generate implements domain.TextGenerator with a single user turn.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   g.maxTokens,
		Temperature: anthropic.Float(float64(g.temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	start := time.Now()
	resp, err := g.client.Messages.New(ctx, params)
	metrics.LLMRequestDuration.WithLabelValues(provider, g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, g.model, "error").Inc()
		g.logger.Warn("anthropic message failed", zap.String("model", g.model), zap.Error(err))
		return "", mapError(err)
	}

	var parts []string
	for i := range resp.Content {
		if block := &resp.Content[i]; block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(provider, g.model, "empty").Inc()
		return "", fmt.Errorf("anthropic message: %w", domain.ErrEmptyResponse)
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, g.model, "success").Inc()
	g.logger.Debug("anthropic message",
		zap.String("model", g.model),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return text, nil
}

func mapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic API error %d: %w", apiErr.StatusCode, domain.ErrProviderError)
	}
	return fmt.Errorf("anthropic request failed: %v: %w", err, domain.ErrProviderError)
}
