package coordinator

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/agent"
	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Recommender produces the primary ranked recommendations.
type Recommender interface {
	Name() string
	Recommend(ctx context.Context, userID, query string, limit int) agent.Envelope[domain.RecommendationResult]
}

// SimilarSearcher supplements recommendations with semantic matches.
type SimilarSearcher interface {
	Name() string
	SearchSimilar(ctx context.Context, query string, n int) agent.Envelope[[]domain.SearchCandidate]
}

// FeedbackStatsProvider supplies product rating summaries.
type FeedbackStatsProvider interface {
	Name() string
	ProductStats(ctx context.Context, productID string) agent.Envelope[domain.FeedbackStats]
}

// ContentGenerator writes free-form text.
type ContentGenerator interface {
	Name() string
	GenerateContent(ctx context.Context, prompt string) agent.Envelope[string]
}
