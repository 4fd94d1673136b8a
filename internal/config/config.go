// Package config loads the YAML configuration for the current environment.
package config

import "time"

// Text generation providers accepted in llm.provider.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config is the root of config/<env>.yaml.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Workers   WorkersConfig   `yaml:"workers"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // empty uses the env default
}

// AuthConfig lists accepted API keys. Empty disables authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

func (h HTTPConfig) ReadTimeout() time.Duration     { return seconds(h.ReadTimeoutSec) }
func (h HTTPConfig) WriteTimeout() time.Duration    { return seconds(h.WriteTimeoutSec) }
func (h HTTPConfig) ShutdownTimeout() time.Duration { return seconds(h.ShutdownSec) }

// DatabaseConfig points at the Valkey/Redis deployment holding products,
// feedback, profiles and the embedding cache.
type DatabaseConfig struct {
	Addrs        []string `yaml:"addrs"`
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	DB           int      `yaml:"db"`
	ReadinessSec int      `yaml:"readiness_timeout_sec"`
}

// ReadinessTimeout bounds the startup wait for the store.
func (d DatabaseConfig) ReadinessTimeout() time.Duration { return seconds(d.ReadinessSec) }

// LLMConfig selects the text generation provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// Timeout bounds a single generation call.
func (l LLMConfig) Timeout() time.Duration { return seconds(l.TimeoutSec) }

// EmbeddingConfig configures the OpenAI-compatible embedding provider.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Cache      bool   `yaml:"cache"`
	CacheTTLH  int    `yaml:"cache_ttl_hours"` // 0 keeps entries forever
}

func (e EmbeddingConfig) CacheTTL() time.Duration { return time.Duration(e.CacheTTLH) * time.Hour }

// IndexConfig tunes the product HNSW index and upsert batching.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
	MaxBatchSize    int `yaml:"max_batch_size"`
}

// WorkersConfig sizes the pool that runs blocking collaborator calls.
type WorkersConfig struct {
	Size int `yaml:"size"`
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
