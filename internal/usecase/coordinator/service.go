package coordinator

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/domain/ranking"
	"github.com/kailas-cloud/shopagent/internal/logger"
	"github.com/kailas-cloud/shopagent/internal/metrics"
)

// Status is the outcome of a composite query.
type Status string

const (
	// StatusSuccess marks a completed composite query.
	StatusSuccess Status = "success"
	// StatusError marks a composite query whose primary source failed.
	StatusError Status = "error"
)

// SmartRecommendations is the result of Service.SmartRecommendations.
type SmartRecommendations struct {
	Status             Status
	Message            string
	Err                error
	UserID             string
	Query              *string
	RecommendationText string
	Products           []string
	Candidates         []domain.SearchCandidate
	UserProfile        *domain.UserProfile
	AgentsUsed         []string
}

// FeedbackAnalysis is the result of Service.AnalyzeProductFeedback.
type FeedbackAnalysis struct {
	Status             Status
	Message            string
	Err                error
	ProductID          string
	FeedbackStatistics domain.FeedbackStats
	AIInsights         string
	AgentsUsed         []string
}

// InvalidInput reports whether the failure was caused by the caller.
func (r SmartRecommendations) InvalidInput() bool { return errors.Is(r.Err, domain.ErrInvalidInput) }

// InvalidInput reports whether the failure was caused by the caller.
func (r FeedbackAnalysis) InvalidInput() bool { return errors.Is(r.Err, domain.ErrInvalidInput) }

// Service sequences agents into composite queries.
type Service struct {
	recommender Recommender
	searcher    SimilarSearcher
	feedback    FeedbackStatsProvider
	generator   ContentGenerator
	logger      *zap.Logger
}

// New creates a coordinator Service.
func New(
	recommender Recommender,
	searcher SimilarSearcher,
	feedback FeedbackStatsProvider,
	generator ContentGenerator,
	l *zap.Logger,
) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		recommender: recommender,
		searcher:    searcher,
		feedback:    feedback,
		generator:   generator,
		logger:      l.Named("coordinator"),
	}
}

// SmartRecommendations merges recommender output with semantic matches for
// query. The vector search runs only after the recommender succeeded and
// only for a non-empty query; its failure is logged and ignored.
func (s *Service) SmartRecommendations(ctx context.Context, userID, query string, limit int) SmartRecommendations {
	log := logger.FromContextOr(ctx, s.logger)
	limit = ranking.NormalizeLimit(limit)

	rec := s.recommender.Recommend(ctx, userID, query, limit)
	if rec.Err != nil {
		return SmartRecommendations{
			Status:  StatusError,
			Message: rec.Err.Error(),
			Err:     rec.Err,
			UserID:  userID,
		}
	}

	out := SmartRecommendations{
		Status:             StatusSuccess,
		UserID:             userID,
		RecommendationText: rec.Data.Text,
		Products:           rec.Data.Products,
		AgentsUsed:         []string{s.recommender.Name()},
	}
	profile := rec.Data.UserProfile
	out.UserProfile = &profile

	q := strings.TrimSpace(query)
	if q == "" {
		return out
	}
	out.Query = &q
	out.AgentsUsed = append(out.AgentsUsed, s.searcher.Name())

	vec := s.searcher.SearchSimilar(ctx, q, limit)
	if vec.Err != nil {
		metrics.CoordinatorDegradedTotal.WithLabelValues("smart_recommendations", "vector").Inc()
		log.Warn("vector search failed, using recommender products only",
			zap.String("user_id", userID),
			zap.String("query", q),
			zap.Error(vec.Err),
		)
		return out
	}

	vectorIDs := make([]string, len(vec.Data))
	for i, c := range vec.Data {
		vectorIDs[i] = c.ID
	}
	out.Products = ranking.MergeRanked(rec.Data.Products, vectorIDs, limit)
	out.Candidates = mergedCandidates(vec.Data, out.Products)

	log.Debug("merged recommendations",
		zap.String("user_id", userID),
		zap.Int("recommended", len(rec.Data.Products)),
		zap.Int("vector", len(vectorIDs)),
		zap.Int("merged", len(out.Products)),
	)
	return out
}

// mergedCandidates keeps the candidates whose id made it into merged.
func mergedCandidates(candidates []domain.SearchCandidate, merged []string) []domain.SearchCandidate {
	in := make(map[string]struct{}, len(merged))
	for _, id := range merged {
		in[id] = struct{}{}
	}
	out := make([]domain.SearchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := in[c.ID]; ok {
			out = append(out, c)
			delete(in, c.ID)
		}
	}
	return out
}

// AnalyzeProductFeedback combines a product's rating summary with generated
// insights. Generation is best effort.
func (s *Service) AnalyzeProductFeedback(ctx context.Context, productID string) FeedbackAnalysis {
	log := logger.FromContextOr(ctx, s.logger)

	fb := s.feedback.ProductStats(ctx, productID)
	if fb.Err != nil {
		return FeedbackAnalysis{
			Status:    StatusError,
			Message:   fb.Err.Error(),
			Err:       fb.Err,
			ProductID: productID,
		}
	}

	insight := s.generator.GenerateContent(ctx, AnalysisPrompt(productID, fb.Data))
	if insight.Err != nil {
		metrics.CoordinatorDegradedTotal.WithLabelValues("analyze_feedback", "ai").Inc()
		log.Warn("insight generation failed", zap.String("product_id", productID), zap.Error(insight.Err))
	}

	return FeedbackAnalysis{
		Status:             StatusSuccess,
		ProductID:          productID,
		FeedbackStatistics: fb.Data,
		AIInsights:         insight.Data,
		AgentsUsed:         []string{s.feedback.Name(), s.generator.Name()},
	}
}
