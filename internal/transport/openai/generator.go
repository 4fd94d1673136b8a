package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Generator produces text through /chat/completions.
type Generator struct {
	conn
	maxTokens   int
	temperature float32
}

func NewGenerator(cfg *Config) *Generator {
	return &Generator{conn: newConn(cfg), maxTokens: cfg.MaxTokens, temperature: cfg.Temperature}
}

// Generate sends prompt as a single user message.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		User:        g.user,
	})
	if err != nil {
		g.record(start, "error")
		g.logger.Warn("chat completion failed", zap.String("model", g.model), zap.Error(err))
		return "", parseAPIError("chat", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.record(start, "empty")
		return "", fmt.Errorf("chat completion: %w", domain.ErrEmptyResponse)
	}
	g.record(start, "success")
	g.logger.Debug("chat completion",
		zap.String("model", g.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
