package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/config"
	"github.com/kailas-cloud/shopagent/internal/usecase/vectorstore"
)

func TestBuildEmbedder_SatisfiesVectorStore(t *testing.T) {
	cfg := config.Config{}
	cfg.ApplyDefaults()

	embedder, raw := buildEmbedder(cfg, nil, zap.NewNop())
	if raw == nil {
		t.Fatal("expected raw provider for health checks")
	}

	var batch vectorstore.Embedder = embedder
	if batch == nil {
		t.Fatal("expected an embedder")
	}
	_ = vectorstore.New(nil, embedder)
}
