// Package embedding adapts a raw provider to the sizes and observability
// the rest of the service expects.
package embedding

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// DefaultMaxBatchSize caps the texts sent in one provider request.
const DefaultMaxBatchSize = 100

// InstrumentedEmbedder chunks batches to the provider limit and logs each
// call. Request counts and latency are recorded by the transport.
type InstrumentedEmbedder struct {
	inner     domain.Embedder
	chunkSize int
	log       *zap.Logger
}

// NewInstrumentedEmbedder wraps inner. maxBatchSize <= 0 uses
// DefaultMaxBatchSize.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string, maxBatchSize int, logger *zap.Logger,
) *InstrumentedEmbedder {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:     inner,
		chunkSize: maxBatchSize,
		log:       logger.With(zap.String("provider", provider), zap.String("model", model)),
	}
}

// Embed implements domain.Embedder.
func (e *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	res, err := e.inner.Embed(ctx, text)
	if err != nil {
		e.log.Error("Embedding request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	e.log.Debug("Embedding request completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}

// BatchEmbed implements domain.BatchEmbedder. Texts go upstream in chunks
// of at most the configured size; vectors come back in input order.
func (e *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	start := time.Now()
	acc := domain.BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(texts))}
	offset := 0
	for chunk := range slices.Chunk(texts, e.chunkSize) {
		res, err := domain.EmbedAll(ctx, e.inner, chunk)
		if err != nil {
			e.log.Error("Batch embedding request failed",
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed [%d:%d]: %w", offset, offset+len(chunk), err)
		}
		acc.Embeddings = append(acc.Embeddings, res.Embeddings...)
		acc.PromptTokens += res.PromptTokens
		acc.TotalTokens += res.TotalTokens
		offset += len(chunk)
	}

	e.log.Debug("Batch embedding completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(texts)),
		zap.Int("chunks", (len(texts)+e.chunkSize-1)/e.chunkSize),
		zap.Int("total_tokens", acc.TotalTokens),
	)
	return acc, nil
}
