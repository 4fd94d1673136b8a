package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/domain/ranking"
	"github.com/kailas-cloud/shopagent/internal/workerpool"
)

// RecommendationAgentName is the display name of RecommendationAgent.
const RecommendationAgentName = "Recommendation Agent"

// RecommendationAgent wraps the recommendation source.
type RecommendationAgent struct {
	base
	source RecommendationSource
}

// NewRecommendationAgent creates a RecommendationAgent.
func NewRecommendationAgent(source RecommendationSource, pool *workerpool.Pool, l *zap.Logger) *RecommendationAgent {
	return &RecommendationAgent{
		base: newBase("recommendation", RecommendationAgentName,
			"I generate personalized product recommendations based on user preferences, history, and behavior patterns.",
			pool, l),
		source: source,
	}
}

// Recommend returns personalised recommendations with at most limit ranked
// products. Limits outside [1,20] fall back to 5.
func (a *RecommendationAgent) Recommend(
	ctx context.Context, userID, query string, limit int,
) Envelope[domain.RecommendationResult] {
	out := Envelope[domain.RecommendationResult]{Agent: a.name}
	if blank(userID) {
		out.Err = a.invalid(ctx, "recommend", "invalid user ID")
		return out
	}
	limit = ranking.NormalizeLimit(limit)

	res, err := call(ctx, &a.base, "recommend", "generate recommendations",
		func(ctx context.Context) (domain.RecommendationResult, error) {
			return a.source.Recommend(ctx, userID, query)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error generating recommendations", zap.String("user_id", userID), zap.Error(err))
		out.Err = err
		return out
	}

	if len(res.Products) > limit {
		res.Products = res.Products[:limit]
	}

	a.logActivity(ctx, "Generated recommendations",
		zap.String("user_id", userID),
		zap.String("query", query),
		zap.Int("limit", limit),
		zap.Int("count", len(res.Products)),
	)
	out.Data = res
	return out
}

// UserProfile returns the shopper profile the recommendations are built from.
func (a *RecommendationAgent) UserProfile(ctx context.Context, userID string) Envelope[domain.UserProfile] {
	out := Envelope[domain.UserProfile]{Agent: a.name}
	if blank(userID) {
		out.Err = a.invalid(ctx, "user_profile", "invalid user ID")
		return out
	}

	p, err := call(ctx, &a.base, "user_profile", "retrieve user profile",
		func(ctx context.Context) (domain.UserProfile, error) {
			return a.source.UserProfile(ctx, userID)
		})
	if err != nil {
		a.log(ctx).Warn(a.name+": error retrieving user profile", zap.String("user_id", userID), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Retrieved user profile", zap.String("user_id", userID))
	out.Data = p
	return out
}

// SaveProfile stores a shopper profile.
func (a *RecommendationAgent) SaveProfile(ctx context.Context, p domain.UserProfile) Envelope[domain.UserProfile] {
	out := Envelope[domain.UserProfile]{Agent: a.name}
	if blank(p.ID) {
		out.Err = a.invalid(ctx, "save_profile", "invalid user ID")
		return out
	}

	saved, err := call(ctx, &a.base, "save_profile", "save user profile",
		func(ctx context.Context) (domain.UserProfile, error) {
			return a.source.SaveProfile(ctx, p)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error saving user profile", zap.String("user_id", p.ID), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Saved user profile",
		zap.String("user_id", saved.ID),
		zap.Int("interests", len(saved.Interests)),
	)
	out.Data = saved
	return out
}
