package feedback

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Repository defines the storage contract for reviews.
type Repository interface {
	Save(ctx context.Context, fb *domain.Feedback) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Feedback, error)
	ListAll(ctx context.Context) ([]domain.Feedback, error)
}
