package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/shopagent/internal/db"
	"github.com/kailas-cloud/shopagent/internal/domain"
)

// store is the consumer interface for products (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo stores products as hashes with an embedded vector and searches them by KNN.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// New creates a product repository for vectors of the given dimension.
func New(s store, dim int, hnsw HNSWConfig) *Repo {
	return &Repo{store: s, dim: dim, hnsw: hnsw}
}

// EnsureIndex creates the product index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", IndexName, err)
	}
	if exists {
		return nil
	}

	def, err := buildIndex(r.dim, r.hnsw)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", IndexName, err)
	}
	return nil
}

// Upsert writes products and their vectors in one pipelined round-trip.
func (r *Repo) Upsert(ctx context.Context, products []domain.Product, vectors [][]float32) error {
	if len(products) != len(vectors) {
		return fmt.Errorf("upsert: %d products but %d vectors: %w", len(products), len(vectors), domain.ErrInvalidInput)
	}
	if len(products) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(products))
	for i := range products {
		if len(vectors[i]) != r.dim {
			return fmt.Errorf("product %s: vector dim %d, want %d: %w",
				products[i].ID, len(vectors[i]), r.dim, domain.ErrInvalidInput)
		}
		fields, err := toHash(&products[i], vectors[i])
		if err != nil {
			return err
		}
		items[i] = db.HashSetItem{Key: productKey(products[i].ID), Fields: fields}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d products: %w", len(items), err)
	}
	return nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Product, error) {
	m, err := r.store.HGetAll(ctx, productKey(id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("hgetall product %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return fromHash(id, m), nil
}

// KNN returns the k products nearest to vector, with raw cosine distances.
// A non-empty category restricts the search to that category.
func (r *Repo) KNN(ctx context.Context, vector []float32, k int, category string) ([]domain.SearchHit, error) {
	q := &db.KNNQuery{
		IndexName:   IndexName,
		VectorField: fieldVector,
		Vector:      vector,
		K:           k,
		ReturnFields: []string{
			fieldID, fieldName, fieldCategory, fieldPrice, fieldDocument, fieldMetadata,
		},
	}
	if category != "" {
		q.Filter = db.TagQuery(fieldCategory, category)
	}

	res, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("knn %s: %w", IndexName, err)
	}

	hits := make([]domain.SearchHit, 0, len(res.Entries))
	for _, e := range res.Entries {
		id := e.Fields[fieldID]
		if id == "" {
			id = idFromKey(e.Key)
		}
		hits = append(hits, domain.SearchHit{
			ID:       id,
			Document: e.Fields[fieldDocument],
			Metadata: hitMetadata(e.Fields),
			Distance: e.Distance,
		})
	}
	return hits, nil
}

func toHash(p *domain.Product, vec []float32) (map[string]string, error) {
	fields := map[string]string{
		fieldID:       p.ID,
		fieldName:     p.Name,
		fieldCategory: p.Category,
		fieldPrice:    strconv.FormatFloat(p.Price, 'f', -1, 64),
		fieldDocument: p.Document(),
		fieldVector:   string(db.EncodeVector(vec)),
	}
	if p.Description != "" {
		fields[fieldDescription] = p.Description
	}
	if len(p.Metadata) > 0 {
		raw, err := json.Marshal(p.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata for %s: %w", p.ID, err)
		}
		fields[fieldMetadata] = string(raw)
	}
	return fields, nil
}

func fromHash(id string, m map[string]string) domain.Product {
	p := domain.Product{
		ID:          id,
		Name:        m[fieldName],
		Description: m[fieldDescription],
		Category:    m[fieldCategory],
	}
	if v, err := strconv.ParseFloat(m[fieldPrice], 64); err == nil {
		p.Price = v
	}
	if raw := m[fieldMetadata]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &p.Metadata)
	}
	return p
}

// hitMetadata flattens the stored scalar fields into search metadata.
func hitMetadata(fields map[string]string) map[string]any {
	meta := make(map[string]any, 4)
	if raw := fields[fieldMetadata]; raw != "" {
		var extra map[string]string
		if err := json.Unmarshal([]byte(raw), &extra); err == nil {
			for k, v := range extra {
				meta[k] = v
			}
		}
	}
	if v := fields[fieldName]; v != "" {
		meta[fieldName] = v
	}
	if v := fields[fieldCategory]; v != "" {
		meta[fieldCategory] = v
	}
	if v, err := strconv.ParseFloat(fields[fieldPrice], 64); err == nil {
		meta[fieldPrice] = v
	}
	return meta
}
