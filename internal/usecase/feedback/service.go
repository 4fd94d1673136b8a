package feedback

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Service computes review statistics and records new reviews.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// New creates a feedback service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// ExtractRating infers a 1..5 rating from review text.
func (s *Service) ExtractRating(text string) int {
	return ExtractRating(text)
}

// Submit rates the review text and stores it.
func (s *Service) Submit(ctx context.Context, userID, productID, text string) (domain.Feedback, error) {
	userID, productID = strings.TrimSpace(userID), strings.TrimSpace(productID)
	if userID == "" || productID == "" {
		return domain.Feedback{}, fmt.Errorf("user and product ids are required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Feedback{}, fmt.Errorf("feedback text is required: %w", domain.ErrInvalidInput)
	}

	fb := domain.Feedback{
		ID:        s.newID(),
		UserID:    userID,
		ProductID: productID,
		Text:      text,
		Rating:    ExtractRating(text),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, &fb); err != nil {
		return domain.Feedback{}, fmt.Errorf("save feedback: %w", err)
	}
	return fb, nil
}

// ProductStats aggregates the reviews of one product.
func (s *Service) ProductStats(ctx context.Context, productID string) (domain.FeedbackStats, error) {
	items, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("list product feedback: %w", err)
	}
	return domain.FeedbackStats{
		AverageRating:  averageRating(items),
		TotalFeedbacks: len(items),
	}, nil
}

// UserStats aggregates the reviews written by one user.
func (s *Service) UserStats(ctx context.Context, userID string) (domain.UserFeedbackStats, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domain.UserFeedbackStats{}, fmt.Errorf("list user feedback: %w", err)
	}
	return domain.UserFeedbackStats{
		UserID:         userID,
		AverageRating:  averageRating(items),
		TotalFeedbacks: len(items),
		RatedProducts:  len(distinctProducts(items)),
	}, nil
}

// LowRatedProducts returns the sorted ids of products the user rated below threshold.
func (s *Service) LowRatedProducts(ctx context.Context, userID string, threshold int) ([]string, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user feedback: %w", err)
	}

	low := make([]domain.Feedback, 0, len(items))
	for _, fb := range items {
		if fb.Rating < threshold {
			low = append(low, fb)
		}
	}

	ids := distinctProducts(low)
	sort.Strings(ids)
	return ids, nil
}

// GlobalStats aggregates every stored review.
func (s *Service) GlobalStats(ctx context.Context) (domain.GlobalFeedbackStats, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return domain.GlobalFeedbackStats{}, fmt.Errorf("list feedback: %w", err)
	}

	dist := make(map[int]int, maxRating)
	for r := minRating; r <= maxRating; r++ {
		dist[r] = 0
	}
	for _, fb := range items {
		if fb.Rating >= minRating && fb.Rating <= maxRating {
			dist[fb.Rating]++
		}
	}

	return domain.GlobalFeedbackStats{
		AverageRating:      averageRating(items),
		TotalFeedbacks:     len(items),
		ProductsReviewed:   len(distinctProducts(items)),
		RatingDistribution: dist,
	}, nil
}

// averageRating returns the mean rating rounded to 2 decimals, or nil for no reviews.
func averageRating(items []domain.Feedback) *float64 {
	if len(items) == 0 {
		return nil
	}
	sum := 0
	for _, fb := range items {
		sum += fb.Rating
	}
	avg := math.Round(float64(sum)/float64(len(items))*100) / 100
	return &avg
}

func distinctProducts(items []domain.Feedback) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, fb := range items {
		if _, ok := seen[fb.ProductID]; ok {
			continue
		}
		seen[fb.ProductID] = struct{}{}
		out = append(out, fb.ProductID)
	}
	return out
}
