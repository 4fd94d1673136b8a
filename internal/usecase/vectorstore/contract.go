package vectorstore

import (
	"context"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Repository defines the storage contract for product vectors.
type Repository interface {
	Upsert(ctx context.Context, products []domain.Product, vectors [][]float32) error
	KNN(ctx context.Context, vector []float32, k int, category string) ([]domain.SearchHit, error)
}

// Embedder vectorizes query and product text.
type Embedder interface {
	domain.Embedder
	domain.BatchEmbedder
}
