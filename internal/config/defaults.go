package config

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-1.5-flash",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// ApplyDefaults fills unset or non-positive fields.
func (c *Config) ApplyDefaults() {
	positive(&c.HTTP.ReadTimeoutSec, 10)
	positive(&c.HTTP.WriteTimeoutSec, 60)
	positive(&c.HTTP.ShutdownSec, 10)
	positive(&c.Database.ReadinessSec, 10)

	nonEmpty(&c.LLM.Provider, ProviderGemini)
	nonEmpty(&c.LLM.Model, defaultModels[c.LLM.Provider])
	positive(&c.LLM.MaxTokens, 1024)
	positive(&c.LLM.TimeoutSec, 30)

	nonEmpty(&c.Embedding.Model, "text-embedding-3-small")
	positive(&c.Embedding.Dimensions, 1536)

	positive(&c.Index.HNSWM, 16)
	positive(&c.Index.HNSWEFConstruct, 200)
	positive(&c.Index.MaxBatchSize, 100)
	positive(&c.Workers.Size, 8)
}

func positive(p *int, def int) {
	if *p <= 0 {
		*p = def
	}
}

func nonEmpty(p *string, def string) {
	if *p == "" {
		*p = def
	}
}
