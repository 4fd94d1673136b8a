package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		LLM:      LLMConfig{Provider: ProviderGemini},
	}
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "llama"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid provider")
	}

	expected := `llm.provider must be one of "openai", "gemini", "anthropic", got "llama"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidProviders(t *testing.T) {
	for _, p := range []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic} {
		t.Run("provider="+p, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLM.Provider = p
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for provider %q: %v", p, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_Temperature(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Temperature = 2.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for temperature out of range")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Errorf("expected provider gemini, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gemini-1.5-flash" {
		t.Errorf("expected gemini-1.5-flash, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("expected Dimensions=1536, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Index.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Index.HNSWM)
	}
	if cfg.Workers.Size != 8 {
		t.Errorf("expected Workers.Size=8, got %d", cfg.Workers.Size)
	}
}

func TestApplyDefaults_ProviderModel(t *testing.T) {
	cfg := Config{LLM: LLMConfig{Provider: ProviderAnthropic}}
	cfg.ApplyDefaults()
	if cfg.LLM.Model != "claude-3-5-haiku-latest" {
		t.Errorf("unexpected anthropic default model %q", cfg.LLM.Model)
	}

	cfg = Config{LLM: LLMConfig{Provider: ProviderOpenAI, Model: "custom"}}
	cfg.ApplyDefaults()
	if cfg.LLM.Model != "custom" {
		t.Errorf("explicit model overridden: %q", cfg.LLM.Model)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SHOPAGENT_TEST_KEY", "secret")

	cfg, err := Parse([]byte(`
http:
  port: ${SHOPAGENT_TEST_PORT:-9090}
database:
  addrs: ["localhost:6379"]
llm:
  provider: openai
  api_key: ${SHOPAGENT_TEST_KEY}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090 from default, got %d", cfg.HTTP.Port)
	}
	if cfg.LLM.APIKey != "secret" {
		t.Errorf("expected expanded api key, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected openai default model, got %q", cfg.LLM.Model)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected yaml error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SHOPAGENT_DOTENV_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOPAGENT_DOTENV_VALUE", "")
	_ = os.Unsetenv("SHOPAGENT_DOTENV_VALUE")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("SHOPAGENT_DOTENV_VALUE"); got != "from-file" {
		t.Errorf("expected value from .env, got %q", got)
	}

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := Config{LLM: LLMConfig{Provider: "llama", Temperature: 3}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"http.port", "database.addrs", "llm.provider", "llm.temperature"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("missing %s in %q", key, err)
		}
	}
}

func TestDurations(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Embedding.CacheTTLH = 24

	if got := cfg.HTTP.ShutdownTimeout(); got != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", got)
	}
	if got := cfg.Database.ReadinessTimeout(); got != 10*time.Second {
		t.Errorf("ReadinessTimeout = %v", got)
	}
	if got := cfg.LLM.Timeout(); got != 30*time.Second {
		t.Errorf("LLM.Timeout = %v", got)
	}
	if got := cfg.Embedding.CacheTTL(); got != 24*time.Hour {
		t.Errorf("CacheTTL = %v", got)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("SHOPAGENT_SET", "v")
	t.Setenv("SHOPAGENT_EMPTY", "")

	got := string(expandEnv([]byte("a=${SHOPAGENT_SET:-x} b=${SHOPAGENT_EMPTY:-y} c=${SHOPAGENT_EMPTY}")))
	if want := "a=v b=y c="; got != want {
		t.Errorf("expandEnv = %q, want %q", got, want)
	}
}
