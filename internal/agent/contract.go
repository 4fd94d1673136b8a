package agent

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// RecommendationSource produces personalised recommendations.
type RecommendationSource interface {
	Recommend(ctx context.Context, userID, query string) (domain.RecommendationResult, error)
	UserProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	SaveProfile(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error)
}

// VectorSource runs similarity search over the product catalog.
type VectorSource interface {
	SearchSimilar(ctx context.Context, query string, n int) ([]domain.SearchHit, error)
	AddProducts(ctx context.Context, products []domain.Product) (int, error)
}

// FeedbackSource reads and records customer feedback.
type FeedbackSource interface {
	ExtractRating(text string) int
	Submit(ctx context.Context, userID, productID, text string) (domain.Feedback, error)
	ProductStats(ctx context.Context, productID string) (domain.FeedbackStats, error)
	UserStats(ctx context.Context, userID string) (domain.UserFeedbackStats, error)
	LowRatedProducts(ctx context.Context, userID string, threshold int) ([]string, error)
	GlobalStats(ctx context.Context) (domain.GlobalFeedbackStats, error)
}

// TextSource generates natural-language text.
type TextSource interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateRecommendation(
		ctx context.Context,
		profile domain.UserProfile,
		products []domain.SearchHit,
		stats map[string]domain.FeedbackStats,
	) (string, error)
}
