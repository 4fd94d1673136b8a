package vectorstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Service embeds text and runs similarity search over the product catalog.
type Service struct {
	repo  Repository
	embed Embedder
}

// New creates a vector store service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// SearchSimilar returns up to n products closest to query, nearest first.
func (s *Service) SearchSimilar(ctx context.Context, query string, n int) ([]domain.SearchHit, error) {
	return s.Search(ctx, query, n, "")
}

// Search is SearchSimilar restricted to a category; an empty category matches all.
func (s *Service) Search(ctx context.Context, query string, n int, category string) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}
	if n <= 0 {
		return nil, fmt.Errorf("result count must be positive, got %d: %w", n, domain.ErrInvalidInput)
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.repo.KNN(ctx, emb.Embedding, n, category)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	return hits, nil
}

// AddProducts embeds each product's document text and stores it. Returns the count stored.
func (s *Service) AddProducts(ctx context.Context, products []domain.Product) (int, error) {
	if len(products) == 0 {
		return 0, fmt.Errorf("no products given: %w", domain.ErrInvalidInput)
	}

	// Normalize a copy; the caller's slice is left untouched.
	batch := slices.Clone(products)
	texts := make([]string, len(batch))
	for i := range batch {
		batch[i].ID = strings.TrimSpace(batch[i].ID)
		if batch[i].ID == "" {
			return 0, fmt.Errorf("product at index %d has no id: %w", i, domain.ErrInvalidInput)
		}
		texts[i] = batch[i].Document()
		if texts[i] == "" {
			return 0, fmt.Errorf("product %s has no text to embed: %w", batch[i].ID, domain.ErrInvalidInput)
		}
	}

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed products: %w", err)
	}
	if len(res.Embeddings) != len(batch) {
		return 0, fmt.Errorf("embed products: got %d vectors for %d products: %w",
			len(res.Embeddings), len(batch), domain.ErrProviderError)
	}

	if err := s.repo.Upsert(ctx, batch, res.Embeddings); err != nil {
		return 0, fmt.Errorf("store products: %w", err)
	}
	return len(batch), nil
}
