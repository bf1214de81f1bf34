// Package config loads ragcalc settings from defaults, an optional YAML file
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/leofalp/ragcalc/core/cost"
	"github.com/leofalp/ragcalc/providers/observability/slogobs"
)

// DefaultFileName is the config file looked up in the working directory
// when no path is given.
const DefaultFileName = "ragcalc.yaml"

// Supported model providers. Anthropic serves chat only.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultSystemPrompt steers the model towards the tools.
const DefaultSystemPrompt = `You are a helpful assistant. All algebraic operations must use the tools at your disposal. ` +
	`The "lookup" tool can not only be used to look up the definition of a word, but also to find any and all ` +
	`information regarding that word or concept. Use the "lookup" tool thoroughly to ensure you get the most ` +
	`accurate and relevant information. However, if you believe the information you are looking for is already ` +
	`in your context, do not use the "lookup" tool.`

// Config stores all configuration of the application.
type Config struct {
	Provider  string          `mapstructure:"provider"`
	Embedder  string          `mapstructure:"embedder"` // empty follows provider, or gemini for anthropic
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Pricing   cost.ModelCost  `mapstructure:"pricing"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeminiConfig configures the Gemini chat and embedding models.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	EmbeddingDims  int    `mapstructure:"embedding_dims"` // 0 keeps the model default
}

// OpenAIConfig configures the OpenAI chat and embedding models.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// AnthropicConfig configures the Anthropic chat model.
type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// AgentConfig configures the conversation orchestrator.
type AgentConfig struct {
	SystemPrompt      string        `mapstructure:"system_prompt"`
	ContextDocuments  int           `mapstructure:"context_documents"`
	MaxIterations     int           `mapstructure:"max_iterations"`
	ToolErrorFeedback bool          `mapstructure:"tool_error_feedback"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"` // per model call, 0 disables
	MaxRetries        int           `mapstructure:"max_retries"`     // retries of transient model call failures, 0 disables
}

// CorpusConfig selects the corpus to index.
type CorpusConfig struct {
	Path string `mapstructure:"path"` // empty selects the embedded corpus
}

// LogConfig configures the slog observer.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("embedder", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")
	v.SetDefault("gemini.embedding_dims", 768)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("anthropic.model", "claude-3-5-haiku-latest")

	v.SetDefault("agent.system_prompt", DefaultSystemPrompt)
	v.SetDefault("agent.context_documents", 1)
	v.SetDefault("agent.max_iterations", 10)
	v.SetDefault("agent.tool_error_feedback", false)
	v.SetDefault("agent.request_timeout", "0s")
	v.SetDefault("agent.max_retries", 0)

	v.SetDefault("corpus.path", "")

	v.SetDefault("pricing.input_per_million", 0.0)
	v.SetDefault("pricing.output_per_million", 0.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(slogobs.FormatCompact))
}

// Load reads the configuration. With an empty path, ragcalc.yaml in the
// working directory is used when present. Environment variables prefixed
// with RAGCALC_ override file values, and the usual provider variables
// (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY and their
// _API_BASE_URL twins) are honored as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".yaml"))
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("RAGCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"gemini.api_key":  "GEMINI_API_KEY",
		"gemini.base_url": "GEMINI_API_BASE_URL",
		"openai.api_key":  "OPENAI_API_KEY",
		"openai.base_url": "OPENAI_API_BASE_URL",
		"anthropic.api_key":  "ANTHROPIC_API_KEY",
		"anthropic.base_url": "ANTHROPIC_API_BASE_URL",
	} {
		if err := v.BindEnv(key, "RAGCALC_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EmbeddingProvider returns the provider that embeds the corpus and queries.
func (c *Config) EmbeddingProvider() string {
	if c.Embedder != "" {
		return c.Embedder
	}
	if c.Provider == ProviderAnthropic {
		return ProviderGemini
	}
	return c.Provider
}

// ChatModel returns the model configured for the selected provider.
func (c *Config) ChatModel() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderAnthropic:
		return c.Anthropic.Model
	default:
		return c.Gemini.Model
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		errs = append(errs, c.requireKey(c.Provider))
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q, want %q, %q or %q",
			c.Provider, ProviderGemini, ProviderOpenAI, ProviderAnthropic))
	}

	switch embedder := c.EmbeddingProvider(); embedder {
	case ProviderGemini, ProviderOpenAI:
		if embedder != c.Provider {
			errs = append(errs, c.requireKey(embedder))
		}
	default:
		errs = append(errs, fmt.Errorf("embedder %q cannot embed, want %q or %q", embedder, ProviderGemini, ProviderOpenAI))
	}

	if c.Gemini.EmbeddingDims < 0 {
		errs = append(errs, fmt.Errorf("gemini.embedding_dims must not be negative, got %d", c.Gemini.EmbeddingDims))
	}
	if c.Agent.ContextDocuments < 1 {
		errs = append(errs, fmt.Errorf("agent.context_documents must be positive, got %d", c.Agent.ContextDocuments))
	}
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("agent.max_iterations must be positive, got %d", c.Agent.MaxIterations))
	}
	if c.Agent.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("agent.max_retries must not be negative, got %d", c.Agent.MaxRetries))
	}
	if c.Agent.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("agent.request_timeout must not be negative, got %s", c.Agent.RequestTimeout))
	}
	if err := c.Pricing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pricing: %w", err))
	}
	if _, err := slogobs.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// requireKey reports a missing API key for provider. It returns nil when the
// key is present.
func (c *Config) requireKey(provider string) error {
	var key, env string
	switch provider {
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "GEMINI_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "OPENAI_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "ANTHROPIC_API_KEY"
	}
	if key == "" {
		return fmt.Errorf("%s.api_key is required (set %s)", provider, env)
	}
	return nil
}
