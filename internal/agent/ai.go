package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/workerpool"
)

const (
	// AIAgentName is the display name of AIAgent.
	AIAgentName = "AI Intelligence Agent"
	// GenerationFallback is returned alongside the error when generation fails.
	GenerationFallback = "Sorry, I couldn't generate content at this time."
)

// AIAgent wraps the text generator.
type AIAgent struct {
	base
	source TextSource
}

// NewAIAgent creates an AIAgent.
func NewAIAgent(source TextSource, pool *workerpool.Pool, l *zap.Logger) *AIAgent {
	return &AIAgent{
		base: newBase("ai", AIAgentName,
			"I provide intelligent text generation, reasoning, and personalized recommendations.",
			pool, l),
		source: source,
	}
}

// GenerateContent answers prompt in the agent's voice. On failure the
// envelope carries the error and GenerationFallback as Data.
func (a *AIAgent) GenerateContent(ctx context.Context, prompt string) Envelope[string] {
	out := Envelope[string]{Agent: a.name}
	if blank(prompt) {
		out.Err = a.invalid(ctx, "generate_content", "invalid prompt")
		out.Data = GenerationFallback
		return out
	}

	enhanced := "As an " + a.name + ", " + a.role + "\n\n" + prompt
	text, err := call(ctx, &a.base, "generate_content", "generate content",
		func(ctx context.Context) (string, error) {
			return a.source.Generate(ctx, enhanced)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error generating content", zap.Int("prompt_length", len(prompt)), zap.Error(err))
		out.Err = err
		out.Data = GenerationFallback
		return out
	}

	a.logActivity(ctx, "Generated content", zap.Int("prompt_length", len(prompt)))
	out.Data = text
	return out
}

// GenerateRecommendation writes recommendation text for profile over products.
func (a *AIAgent) GenerateRecommendation(
	ctx context.Context,
	profile domain.UserProfile,
	products []domain.SearchHit,
	stats map[string]domain.FeedbackStats,
) Envelope[string] {
	out := Envelope[string]{Agent: a.name}

	text, err := call(ctx, &a.base, "generate_recommendation", "generate recommendation",
		func(ctx context.Context) (string, error) {
			return a.source.GenerateRecommendation(ctx, profile, products, stats)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error generating recommendation", zap.String("user_id", profile.ID), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Generated recommendation",
		zap.String("user_id", profile.ID),
		zap.Int("num_products", len(products)),
	)
	out.Data = text
	return out
}
