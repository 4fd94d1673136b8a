package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/domain/ranking"
	"github.com/kailas-cloud/shopagent/internal/logger"
)

const (
	// candidatePool is how many products are fetched before filtering.
	candidatePool = ranking.MaxLimit
	// PreferredCategoryAttr restricts search to one category when set on a profile.
	PreferredCategoryAttr = "preferred_category"
	// NoMatchesText is returned when nothing in the catalog fits the shopper.
	NoMatchesText = "No matching products found."
)

// Service builds personalized product recommendations.
type Service struct {
	profiles ProfileStore
	search   ProductSearcher
	feedback FeedbackReader
	writer   Writer
	logger   *zap.Logger
}

// New creates a recommendation service. A nil logger discards output.
func New(profiles ProfileStore, search ProductSearcher, feedback FeedbackReader, writer Writer, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{profiles: profiles, search: search, feedback: feedback, writer: writer, logger: l}
}

// UserProfile returns the stored profile of a shopper.
func (s *Service) UserProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// SaveProfile stores a shopper profile, replacing any previous version.
func (s *Service) SaveProfile(ctx context.Context, p domain.UserProfile) (domain.UserProfile, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return domain.UserProfile{}, fmt.Errorf("profile id is required: %w", domain.ErrInvalidInput)
	}
	if err := s.profiles.Save(ctx, &p); err != nil {
		return domain.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

// Recommend ranks catalog products for a shopper.
// The search text is query when given, else the profile interests. Products the
// shopper already bought or rated low are dropped. Unknown shoppers get a bare
// profile; a failed narrative leaves Text empty without failing the call.
func (s *Service) Recommend(ctx context.Context, userID, query string) (domain.RecommendationResult, error) {
	log := logger.FromContextOr(ctx, s.logger)

	profile, err := s.profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Debug("Unknown user, using empty profile", zap.String("user_id", userID))
		profile = domain.UserProfile{ID: userID}
	case err != nil:
		return domain.RecommendationResult{}, fmt.Errorf("get profile: %w", err)
	}

	searchText := strings.TrimSpace(query)
	if searchText == "" {
		searchText = strings.Join(profile.Interests, " ")
	}
	if searchText == "" {
		return domain.RecommendationResult{Text: NoMatchesText, Products: []string{}, UserProfile: profile}, nil
	}

	hits, err := s.search.Search(ctx, searchText, candidatePool, profile.Attributes[PreferredCategoryAttr])
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("search products: %w", err)
	}

	excluded := make(map[string]struct{}, len(profile.PurchasedProductIDs))
	for _, id := range profile.PurchasedProductIDs {
		excluded[id] = struct{}{}
	}
	low, err := s.feedback.LowRatedProducts(ctx, userID, ranking.DefaultThreshold)
	if err != nil {
		log.Warn("Low-rated lookup failed, not filtering", zap.String("user_id", userID), zap.Error(err))
	}
	for _, id := range low {
		excluded[id] = struct{}{}
	}

	kept := make([]domain.SearchHit, 0, len(hits))
	for _, h := range hits {
		if _, skip := excluded[h.ID]; !skip {
			kept = append(kept, h)
		}
	}

	ids := make([]string, len(kept))
	for i, h := range kept {
		ids[i] = h.ID
	}

	result := domain.RecommendationResult{Products: ids, UserProfile: profile}
	if len(kept) == 0 {
		result.Text = NoMatchesText
		return result, nil
	}

	text, err := s.writer.GenerateRecommendation(ctx, profile, kept, s.productStats(ctx, log, kept))
	if err != nil {
		log.Warn("Recommendation text generation failed", zap.String("user_id", userID), zap.Error(err))
	}
	result.Text = text
	return result, nil
}

// productStats collects review stats for the prompt; failures only drop the entry.
func (s *Service) productStats(ctx context.Context, log *zap.Logger, hits []domain.SearchHit) map[string]domain.FeedbackStats {
	stats := make(map[string]domain.FeedbackStats, len(hits))
	for i, h := range hits {
		if i == ranking.MaxLimit {
			break
		}
		st, err := s.feedback.ProductStats(ctx, h.ID)
		if err != nil {
			log.Debug("Product stats unavailable", zap.String("product_id", h.ID), zap.Error(err))
			continue
		}
		stats[h.ID] = st
	}
	return stats
}
