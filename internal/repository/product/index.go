package product

import (
	"strings"

	"github.com/kailas-cloud/shopagent/internal/db"
	"github.com/kailas-cloud/shopagent/internal/domain"
)

const (
	// IndexName is the FT index over product hashes.
	IndexName = domain.KeyPrefix + "products:idx"
	keyPrefix = domain.KeyPrefix + "product:"

	fieldID          = "id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldPrice       = "price"
	fieldDocument    = "document"
	fieldMetadata    = "metadata"
	fieldVector      = "vector"
)

// HNSWConfig holds HNSW index parameters for the product vector field.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

func productKey(id string) string {
	return keyPrefix + id
}

func idFromKey(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

func buildIndex(dim int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(IndexName).
		Prefix(keyPrefix).
		Text(fieldName).
		Text(fieldDescription).
		Tag(fieldCategory).
		Numeric(fieldPrice).
		VectorHNSW(fieldVector, dim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).
		Build()
}
