package recommendation

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// ProfileStore reads and writes shopper profiles.
type ProfileStore interface {
	Get(ctx context.Context, id string) (domain.UserProfile, error)
	Save(ctx context.Context, p *domain.UserProfile) error
}

// ProductSearcher finds catalog products similar to free text.
type ProductSearcher interface {
	Search(ctx context.Context, query string, n int, category string) ([]domain.SearchHit, error)
}

// FeedbackReader exposes the review data used for ranking and prompting.
type FeedbackReader interface {
	LowRatedProducts(ctx context.Context, userID string, threshold int) ([]string, error)
	ProductStats(ctx context.Context, productID string) (domain.FeedbackStats, error)
}

// Writer produces the recommendation narrative.
type Writer interface {
	GenerateRecommendation(
		ctx context.Context,
		profile domain.UserProfile,
		products []domain.SearchHit,
		stats map[string]domain.FeedbackStats,
	) (string, error)
}
