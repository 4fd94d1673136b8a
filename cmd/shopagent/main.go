package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopagent/internal/agent"
	"github.com/kailas-cloud/shopagent/internal/config"
	dbRedis "github.com/kailas-cloud/shopagent/internal/db/redis"
	"github.com/kailas-cloud/shopagent/internal/domain"
	logpkg "github.com/kailas-cloud/shopagent/internal/logger"
	"github.com/kailas-cloud/shopagent/internal/metrics"
	"github.com/kailas-cloud/shopagent/internal/repository/embcache"
	feedbackrepo "github.com/kailas-cloud/shopagent/internal/repository/feedback"
	productrepo "github.com/kailas-cloud/shopagent/internal/repository/product"
	userrepo "github.com/kailas-cloud/shopagent/internal/repository/user"
	anthropicGen "github.com/kailas-cloud/shopagent/internal/transport/anthropic"
	chiTransport "github.com/kailas-cloud/shopagent/internal/transport/chi"
	geminiGen "github.com/kailas-cloud/shopagent/internal/transport/gemini"
	openaiProv "github.com/kailas-cloud/shopagent/internal/transport/openai"
	"github.com/kailas-cloud/shopagent/internal/usecase/coordinator"
	embeddinguc "github.com/kailas-cloud/shopagent/internal/usecase/embedding"
	feedbackuc "github.com/kailas-cloud/shopagent/internal/usecase/feedback"
	"github.com/kailas-cloud/shopagent/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/shopagent/internal/usecase/health"
	recommendationuc "github.com/kailas-cloud/shopagent/internal/usecase/recommendation"
	"github.com/kailas-cloud/shopagent/internal/usecase/vectorstore"
	"github.com/kailas-cloud/shopagent/internal/version"
	"github.com/kailas-cloud/shopagent/internal/workerpool"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("Starting shopagent API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.Database.ReadinessTimeout()); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterAgentMetrics()

	embedder, embedHealth := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	products := productrepo.New(store, cfg.Embedding.Dimensions, productrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := products.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create product index", zap.Error(err))
	}
	reviews := feedbackrepo.New(store)
	if err := reviews.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create feedback index", zap.Error(err))
	}
	users := userrepo.New(store)

	generator, err := buildGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to create text generator", zap.Error(err))
	}

	vectorSvc := vectorstore.New(products, embedder)
	feedbackSvc := feedbackuc.New(reviews)
	genSvc := generation.New(generator).WithTimeout(cfg.LLM.Timeout())
	recSvc := recommendationuc.New(users, vectorSvc, feedbackSvc, genSvc, logger)

	pool := workerpool.New(cfg.Workers.Size)
	recAgent := agent.NewRecommendationAgent(recSvc, pool, logger)
	vecAgent := agent.NewVectorAgent(vectorSvc, pool, logger)
	fbAgent := agent.NewFeedbackAgent(feedbackSvc, pool, logger)
	aiAgent := agent.NewAIAgent(genSvc, pool, logger)

	coord := coordinator.New(recAgent, vecAgent, fbAgent, aiAgent, logger)

	// A typed nil inside the interface would defeat the nil check in health.New.
	checks := map[string]healthuc.ProviderChecker{"embedding": embedHealth}
	if hc, ok := generator.(domain.HealthChecker); ok {
		checks["llm"] = hc
	}
	healthSvc := healthuc.New(store, checks)

	server := chiTransport.NewServer(coord, vecAgent, fbAgent, recAgent, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// The raw provider is returned separately for health checks.
func buildEmbedder(
	cfg config.Config, store *dbRedis.Store, logger *zap.Logger,
) (*embeddinguc.InstrumentedEmbedder, *openaiProv.Embedder) {
	base := openaiProv.NewEmbedder(&openaiProv.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Embedding.Cache {
		embedder = embcache.New(base, store, cfg.Embedding.Model, metrics.EmbeddingCacheTotal, logger).
			WithTTL(cfg.Embedding.CacheTTL())
	}

	return embeddinguc.NewInstrumentedEmbedder(
		embedder, "openai", cfg.Embedding.Model, cfg.Index.MaxBatchSize, logger,
	), base
}

// buildGenerator picks the text generation provider named in the config.
func buildGenerator(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (domain.TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaiProv.NewGenerator(&openaiProv.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Logger:      logger,
		}), nil
	case config.ProviderGemini:
		g, err := geminiGen.NewGenerator(ctx, &geminiGen.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderAnthropic:
		return anthropicGen.NewGenerator(&anthropicGen.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Logger:      logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
