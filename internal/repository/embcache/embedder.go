// Package embcache memoizes embeddings in the key-value store so repeated
// product and query texts are never sent to the provider twice.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/db"
	"github.com/kailas-cloud/shopagent/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "emb_cache:"

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type inner interface {
	domain.Embedder
	domain.BatchEmbedder
}

// CachedEmbedder wraps a provider and serves vectors from the store when
// the same model has embedded the same text before. Store failures are
// logged and treated as misses.
type CachedEmbedder struct {
	inner   inner
	store   store
	model   string
	ttl     time.Duration
	lookups *prometheus.CounterVec
	logger  *zap.Logger
}

// New wraps e. lookups is a counter vec with a single "result" label
// (hit or miss); nil disables counting.
func New(e inner, s store, model string, lookups *prometheus.CounterVec, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{inner: e, store: s, model: model, lookups: lookups, logger: logger}
}

// WithTTL expires entries after ttl. Zero or negative keeps them forever.
func (c *CachedEmbedder) WithTTL(ttl time.Duration) *CachedEmbedder {
	c.ttl = ttl
	return c
}

// Embed implements domain.Embedder. A hit reports zero tokens.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)
	if v, ok := c.load(ctx, key); ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}

	res, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	c.save(ctx, key, res.Embedding)
	return res, nil
}

// BatchEmbed implements domain.BatchEmbedder. Only misses reach the
// provider, in a single call; output order follows texts.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var pending []int
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
		if v, ok := c.load(ctx, keys[i]); ok {
			vectors[i] = v
		} else {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: vectors}, nil
	}

	misses := make([]string, len(pending))
	for j, i := range pending {
		misses[j] = texts[i]
	}
	res, err := c.inner.BatchEmbed(ctx, misses)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed %d texts: %w", len(misses), err)
	}
	if len(res.Embeddings) != len(misses) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %d vectors for %d texts: %w",
			len(res.Embeddings), len(misses), domain.ErrProviderError)
	}

	for j, i := range pending {
		vectors[i] = res.Embeddings[j]
		c.save(ctx, keys[i], vectors[i])
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   vectors,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// cacheKey scopes entries by model so switching models never serves
// vectors of the wrong dimension.
func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + c.model + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) load(ctx context.Context, key string) ([]float32, bool) {
	v, err := c.fetch(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		}
		c.count("miss")
		return nil, false
	}
	c.count("hit")
	return v, true
}

func (c *CachedEmbedder) fetch(ctx context.Context, key string) ([]float32, error) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return db.DecodeVector(raw)
}

func (c *CachedEmbedder) save(ctx context.Context, key string, v []float32) {
	val := db.EncodeVector(v)
	var err error
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, val, c.ttl)
	} else {
		err = c.store.Set(ctx, key, val)
	}
	if err != nil {
		c.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedEmbedder) count(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}
