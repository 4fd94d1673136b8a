package domain

import "time"

// Feedback is a single customer review of a product.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackStats aggregates the reviews of one product.
// AverageRating is nil when the product has no reviews.
type FeedbackStats struct {
	AverageRating  *float64 `json:"average_rating"`
	TotalFeedbacks int      `json:"total_feedbacks"`
}

// UserFeedbackStats aggregates the reviews written by one user.
type UserFeedbackStats struct {
	UserID         string   `json:"user_id"`
	AverageRating  *float64 `json:"average_rating"`
	TotalFeedbacks int      `json:"total_feedbacks"`
	RatedProducts  int      `json:"rated_products"`
}

// GlobalFeedbackStats aggregates every review in the store.
type GlobalFeedbackStats struct {
	AverageRating      *float64    `json:"average_rating"`
	TotalFeedbacks     int         `json:"total_feedbacks"`
	ProductsReviewed   int         `json:"products_reviewed"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}
