package openai

import (
	"context"
	"fmt"
	"slices"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/domain"
)

// Embedder calls the /embeddings endpoint.
type Embedder struct {
	conn
	dimensions int
}

// NewEmbedder creates an embedder. Dimensions <= 0 lets the model choose.
func NewEmbedder(cfg *Config) *Embedder {
	return &Embedder{conn: newConn(cfg), dimensions: cfg.Dimensions}
}

func (e *Embedder) embed(ctx context.Context, input []string) (openai.EmbeddingResponse, error) {
	req := openai.EmbeddingRequest{
		Input:          input,
		Model:          openai.EmbeddingModel(e.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.api.CreateEmbeddings(ctx, req)
	switch {
	case err != nil:
		e.record(start, "error")
		e.logger.Warn("embedding request failed",
			zap.String("model", e.model), zap.Int("inputs", len(input)), zap.Error(err))
		return resp, parseAPIError("embedding", err)
	case len(resp.Data) == 0:
		e.record(start, "empty")
		return resp, fmt.Errorf("embedding response has no vectors: %w", domain.ErrProviderError)
	}
	e.record(start, "success")
	return resp, nil
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	resp, err := e.embed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder in one request. Vectors are
// reordered by their response index to match texts.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	resp, err := e.embed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	if len(resp.Data) != len(texts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embedding: %d vectors for %d inputs: %w",
			len(resp.Data), len(texts), domain.ErrProviderError)
	}

	slices.SortFunc(resp.Data, func(a, b openai.Embedding) int { return a.Index - b.Index })
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   vectors,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}
