package config

import (
	"errors"
	"fmt"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if len(c.Database.Addrs) == 0 {
		errs = append(errs, errors.New("database.addrs is required"))
	}
	if _, ok := defaultModels[c.LLM.Provider]; !ok {
		errs = append(errs, fmt.Errorf("llm.provider must be one of %q, %q, %q, got %q",
			ProviderOpenAI, ProviderGemini, ProviderAnthropic, c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature))
	}
	return errors.Join(errs...)
}
