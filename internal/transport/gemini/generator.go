package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/metrics"
)

const provider = "gemini"

// models is the subset of *genai.Models the generator uses.
type models interface {
	GenerateContent(
		ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// Config holds the Gemini generator settings.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// Generator is a text generator backed by the Gemini API.
type Generator struct {
	models      models
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewGenerator creates a Gemini API client and wraps it as a text generator.
func NewGenerator(ctx context.Context, cfg *Config) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGenerator(client.Models, cfg), nil
}

func newGenerator(m models, cfg *Config) *Generator {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Generator{
		models:      m,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      l,
	}
}

// Generate implements domain.TextGenerator.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = int32(g.maxTokens) //nolint:gosec // bounded by config validation
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, config)
	metrics.LLMRequestDuration.WithLabelValues(provider, g.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, g.model, "error").Inc()
		g.logger.Warn("gemini generation failed", zap.String("model", g.model), zap.Error(err))
		return "", fmt.Errorf("gemini generate: %v: %w", err, domain.ErrProviderError)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(provider, g.model, "empty").Inc()
		return "", fmt.Errorf("gemini generate: %w", domain.ErrEmptyResponse)
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, g.model, "success").Inc()
	return text, nil
}

// HealthCheck verifies the configured model is reachable.
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("get model %s: %w", g.model, err)
	}
	return nil
}

// responseText returns the text of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil && p.Text != "" {
				sb.WriteString(p.Text)
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}
