package config

import (
	"fmt"

	"github.com/entrhq/voicenav/pkg/llm/openai"
	"github.com/entrhq/voicenav/pkg/logging"
)

// ApplyFlags overrides LLM settings with non-empty CLI values. Call it after
// ApplyEnv so flags take precedence over both the file and the environment.
func (c *Config) ApplyFlags(apiKey, baseURL, model string) {
	if apiKey != "" {
		c.LLM.APIKey = apiKey
	}
	if baseURL != "" {
		c.LLM.BaseURL = baseURL
	}
	if model != "" {
		c.LLM.Model = model
	}
}

// BuildProviders creates the selector/plan provider and the describe
// provider. The describe provider shares credentials and endpoint and only
// differs when DescribeModel is set.
func BuildProviders(c *Config, logger *logging.Logger) (main, describe *openai.Provider, err error) {
	if c.LLM.APIKey == "" {
		return nil, nil, fmt.Errorf("API key is required. Set OPENAI_API_KEY environment variable, use --api-key flag, or configure llm.api_key in ~/.voicenav/config.yaml")
	}

	opts := []openai.ProviderOption{
		openai.WithBaseURL(c.LLM.BaseURL),
		openai.WithTimeout(c.LLM.Timeout),
		openai.WithTokenWarning(c.LLM.PromptTokenWarning),
		openai.WithLogger(logger),
	}

	main, err = openai.NewProvider(c.LLM.APIKey, append(opts, openai.WithModel(c.LLM.Model))...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	if c.LLM.DescribeModel == "" || c.LLM.DescribeModel == c.LLM.Model {
		return main, main, nil
	}

	describe, err = openai.NewProvider(c.LLM.APIKey, append(opts, openai.WithModel(c.LLM.DescribeModel))...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create describe provider: %w", err)
	}
	return main, describe, nil
}
