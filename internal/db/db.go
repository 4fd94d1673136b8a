// Package db defines the storage façade shared by the repositories: hashes
// for records, plain keys for cached embeddings, and FT indexes for tag,
// numeric and vector search.
package db

import (
	"context"
	"time"
)

// Store is everything the Redis implementation offers. Repositories depend
// on narrower interfaces of their own.
//
//nolint:interfacebloat // aggregate of the role interfaces below
type Store interface {
	Pinger
	Records
	Blobs
	Indexes
	Searcher
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one hash written by Records.HSetMulti.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// Records stores products, reviews and profiles as hashes.
type Records interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Blobs stores opaque values such as serialized embeddings.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Indexes creates FT indexes.
type Indexes interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher queries FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*SearchResult, error)
}
