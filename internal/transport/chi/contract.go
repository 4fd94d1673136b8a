package chi

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/agent"
	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/usecase/coordinator"
	healthuc "github.com/kailas-cloud/shopagent/internal/usecase/health"
)

// Coordinator answers composite queries.
type Coordinator interface {
	SmartRecommendations(ctx context.Context, userID, query string, limit int) coordinator.SmartRecommendations
	AnalyzeProductFeedback(ctx context.Context, productID string) coordinator.FeedbackAnalysis
}

// Catalog searches and indexes products.
type Catalog interface {
	SearchSimilar(ctx context.Context, query string, n int) agent.Envelope[[]domain.SearchCandidate]
	AddProducts(ctx context.Context, products []domain.Product) agent.Envelope[int]
}

// Feedback records and summarises reviews.
type Feedback interface {
	SubmitFeedback(ctx context.Context, userID, productID, text string) agent.Envelope[domain.Feedback]
	ExtractRating(ctx context.Context, text string) agent.Envelope[int]
	ProductStats(ctx context.Context, productID string) agent.Envelope[domain.FeedbackStats]
	UserStats(ctx context.Context, userID string) agent.Envelope[domain.UserFeedbackStats]
	LowRatedProducts(ctx context.Context, userID string, threshold int) agent.Envelope[[]string]
	GlobalStats(ctx context.Context) agent.Envelope[domain.GlobalFeedbackStats]
}

// Profiles reads and writes shopper profiles.
type Profiles interface {
	UserProfile(ctx context.Context, userID string) agent.Envelope[domain.UserProfile]
	SaveProfile(ctx context.Context, p domain.UserProfile) agent.Envelope[domain.UserProfile]
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
