package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
	"github.com/kailas-cloud/shopagent/internal/domain/ranking"
	"github.com/kailas-cloud/shopagent/internal/workerpool"
)

// VectorAgentName is the display name of VectorAgent.
const VectorAgentName = "Vector Intelligence Agent"

// VectorAgent wraps semantic product search.
type VectorAgent struct {
	base
	source VectorSource
}

// NewVectorAgent creates a VectorAgent.
func NewVectorAgent(source VectorSource, pool *workerpool.Pool, l *zap.Logger) *VectorAgent {
	return &VectorAgent{
		base: newBase("vector", VectorAgentName,
			"I perform semantic search and help find products similar to what users are looking for.",
			pool, l),
		source: source,
	}
}

// SearchSimilar returns up to n products similar to query, scored by relevance.
func (a *VectorAgent) SearchSimilar(ctx context.Context, query string, n int) Envelope[[]domain.SearchCandidate] {
	out := Envelope[[]domain.SearchCandidate]{Agent: a.name}
	if blank(query) {
		out.Err = a.invalid(ctx, "search_similar", "invalid query")
		return out
	}
	n = ranking.NormalizeLimit(n)

	hits, err := call(ctx, &a.base, "search_similar", "perform semantic search",
		func(ctx context.Context) ([]domain.SearchHit, error) {
			return a.source.SearchSimilar(ctx, query, n)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error performing semantic search", zap.String("query", query), zap.Error(err))
		out.Err = err
		return out
	}

	candidates := make([]domain.SearchCandidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, domain.SearchCandidate{
			ID:        h.ID,
			Document:  h.Document,
			Metadata:  h.Metadata,
			Distance:  h.Distance,
			Relevance: ranking.ScoreRelevance(h.Distance),
		})
	}

	a.logActivity(ctx, "Performed semantic search",
		zap.String("query", query),
		zap.Int("n_results", n),
		zap.Int("count", len(candidates)),
	)
	out.Data = candidates
	return out
}

// AddProducts indexes products and returns how many were stored.
func (a *VectorAgent) AddProducts(ctx context.Context, products []domain.Product) Envelope[int] {
	out := Envelope[int]{Agent: a.name}
	if len(products) == 0 {
		out.Err = a.invalid(ctx, "add_products", "invalid products data")
		return out
	}

	n, err := call(ctx, &a.base, "add_products", "add products",
		func(ctx context.Context) (int, error) {
			return a.source.AddProducts(ctx, products)
		})
	if err != nil {
		a.log(ctx).Error(a.name+": error adding products", zap.Int("count", len(products)), zap.Error(err))
		out.Err = err
		return out
	}

	a.logActivity(ctx, "Added products to vector store", zap.Int("count", n))
	out.Data = n
	return out
}
