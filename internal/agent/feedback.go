package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/domain/ranking"
	"github.com/kailas-cloud/shopagent/internal/workerpool"
)

// FeedbackAgentName is the display name of FeedbackAgent.
const FeedbackAgentName = "Feedback Analyzer Agent"

// FeedbackAgent wraps feedback analytics.
type FeedbackAgent struct {
	base
	source FeedbackSource
}

// NewFeedbackAgent creates a FeedbackAgent.
func NewFeedbackAgent(source FeedbackSource, pool *workerpool.Pool, l *zap.Logger) *FeedbackAgent {
	return &FeedbackAgent{
		base: newBase("feedback", FeedbackAgentName,
			"I analyze customer feedback and product reviews to extract insights, identify trends, and provide product satisfaction metrics.",
			pool, l),
		source: source,
	}
}

// ProductStats returns the rating summary of a product.
func (a *FeedbackAgent) ProductStats(ctx context.Context, productID string) Envelope[domain.FeedbackStats] {
	out := Envelope[domain.FeedbackStats]{Agent: a.name}
	if blank(productID) {
		out.Err = a.invalid(ctx, "product_stats", "invalid product ID")
		return out
	}

	stats, err := call(ctx, &a.base, "product_stats", "get product feedback stats",
		func(ctx context.Context) (domain.FeedbackStats, error) {
			return a.source.ProductStats(ctx, productID)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error getting product feedback stats", zap.String("product_id", productID), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Retrieved product feedback statistics",
		zap.String("product_id", productID),
		zap.Int("total_feedbacks", stats.TotalFeedbacks),
	)
	out.Data = stats
	return out
}

// ExtractRating derives a 1..5 rating from free-form review text.
func (a *FeedbackAgent) ExtractRating(ctx context.Context, text string) Envelope[int] {
	out := Envelope[int]{Agent: a.name}
	if blank(text) {
		out.Err = a.invalid(ctx, "extract_rating", "invalid feedback text")
		return out
	}

	rating, err := call(ctx, &a.base, "extract_rating", "extract rating",
		func(context.Context) (int, error) {
			return a.source.ExtractRating(text), nil
		})
	if err != nil {
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Extracted rating from feedback",
		zap.Int("feedback_length", len(text)),
		zap.Int("rating", rating),
	)
	out.Data = rating
	return out
}

// UserStats summarises the feedback a user has written.
func (a *FeedbackAgent) UserStats(ctx context.Context, userID string) Envelope[domain.UserFeedbackStats] {
	out := Envelope[domain.UserFeedbackStats]{Agent: a.name}
	if blank(userID) {
		out.Err = a.invalid(ctx, "user_stats", "invalid user ID")
		return out
	}

	stats, err := call(ctx, &a.base, "user_stats", "get user feedback stats",
		func(ctx context.Context) (domain.UserFeedbackStats, error) {
			return a.source.UserStats(ctx, userID)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error getting user feedback stats", zap.String("user_id", userID), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Retrieved user feedback statistics", zap.String("user_id", userID))
	out.Data = stats
	return out
}

// LowRatedProducts lists products the user rated below threshold.
// Thresholds outside [1,5] fall back to 3.
func (a *FeedbackAgent) LowRatedProducts(ctx context.Context, userID string, threshold int) Envelope[[]string] {
	out := Envelope[[]string]{Agent: a.name}
	if blank(userID) {
		out.Err = a.invalid(ctx, "low_rated_products", "invalid user ID")
		return out
	}
	threshold = ranking.NormalizeThreshold(threshold)

	ids, err := call(ctx, &a.base, "low_rated_products", "get low rated products",
		func(ctx context.Context) ([]string, error) {
			return a.source.LowRatedProducts(ctx, userID, threshold)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error getting low rated products",
			zap.String("user_id", userID), zap.Int("threshold", threshold), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Identified low-rated products",
		zap.String("user_id", userID),
		zap.Int("threshold", threshold),
		zap.Int("count", len(ids)),
	)
	out.Data = ids
	return out
}

// GlobalStats summarises feedback across the whole catalog.
func (a *FeedbackAgent) GlobalStats(ctx context.Context) Envelope[domain.GlobalFeedbackStats] {
	out := Envelope[domain.GlobalFeedbackStats]{Agent: a.name}

	stats, err := call(ctx, &a.base, "global_stats", "get global feedback stats", a.source.GlobalStats)
	if err != nil {
		a.log(ctx).Error(a.name+": error getting global feedback stats", zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Retrieved global feedback statistics", zap.Int("total_feedbacks", stats.TotalFeedbacks))
	out.Data = stats
	return out
}

// SubmitFeedback stores a review, rating it from its text.
func (a *FeedbackAgent) SubmitFeedback(ctx context.Context, userID, productID, text string) Envelope[domain.Feedback] {
	out := Envelope[domain.Feedback]{Agent: a.name}
	switch {
	case blank(userID):
		out.Err = a.invalid(ctx, "submit_feedback", "invalid user ID")
		return out
	case blank(productID):
		out.Err = a.invalid(ctx, "submit_feedback", "invalid product ID")
		return out
	case blank(text):
		out.Err = a.invalid(ctx, "submit_feedback", "invalid feedback text")
		return out
	}

	fb, err := call(ctx, &a.base, "submit_feedback", "submit feedback",
		func(ctx context.Context) (domain.Feedback, error) {
			return a.source.Submit(ctx, userID, productID, text)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error submitting feedback",
			zap.String("user_id", userID), zap.String("product_id", productID), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Recorded feedback",
		zap.String("feedback_id", fb.ID),
		zap.String("product_id", productID),
		zap.Int("rating", fb.Rating),
	)
	out.Data = fb
	return out
}
