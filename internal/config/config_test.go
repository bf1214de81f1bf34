package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	var err error
	s.origDir, err = os.Getwd()
	require.NoError(s.T(), err)

	s.tempDir = s.T().TempDir()
	require.NoError(s.T(), os.Chdir(s.tempDir))

	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_API_BASE_URL", "OPENAI_API_KEY", "OPENAI_API_BASE_URL",
		"ANTHROPIC_API_KEY", "ANTHROPIC_API_BASE_URL", "RAGCALC_EMBEDDER",
		"RAGCALC_PROVIDER", "RAGCALC_GEMINI_API_KEY", "RAGCALC_OPENAI_API_KEY",
		"RAGCALC_AGENT_MAX_ITERATIONS", "RAGCALC_LOG_LEVEL",
	} {
		s.T().Setenv(key, "")
	}
}

func (s *ConfigTestSuite) TearDownTest() {
	if s.origDir != "" {
		_ = os.Chdir(s.origDir)
	}
}

func (s *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(s.tempDir, name)
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	s.T().Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := Load("")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), ProviderGemini, cfg.Provider)
	assert.Equal(s.T(), "gem-key", cfg.Gemini.APIKey)
	assert.Equal(s.T(), "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(s.T(), "text-embedding-004", cfg.Gemini.EmbeddingModel)
	assert.Equal(s.T(), 768, cfg.Gemini.EmbeddingDims)
	assert.Equal(s.T(), "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(s.T(), "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(s.T(), DefaultSystemPrompt, cfg.Agent.SystemPrompt)
	assert.Equal(s.T(), 1, cfg.Agent.ContextDocuments)
	assert.Equal(s.T(), 10, cfg.Agent.MaxIterations)
	assert.False(s.T(), cfg.Agent.ToolErrorFeedback)
	assert.Zero(s.T(), cfg.Agent.RequestTimeout)
	assert.Zero(s.T(), cfg.Agent.MaxRetries)
	assert.Empty(s.T(), cfg.Corpus.Path)
	assert.Equal(s.T(), "info", cfg.Log.Level)
	assert.Equal(s.T(), "compact", cfg.Log.Format)
}

func (s *ConfigTestSuite) TestDefaultFileInWorkingDirectory() {
	s.writeFile(DefaultFileName, `
provider: openai
openai:
  api_key: file-key
  model: gpt-test
agent:
  max_iterations: 4
  tool_error_feedback: true
  request_timeout: 45s
  max_retries: 2
`)

	cfg, err := Load("")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), ProviderOpenAI, cfg.Provider)
	assert.Equal(s.T(), "file-key", cfg.OpenAI.APIKey)
	assert.Equal(s.T(), "gpt-test", cfg.OpenAI.Model)
	assert.Equal(s.T(), 4, cfg.Agent.MaxIterations)
	assert.True(s.T(), cfg.Agent.ToolErrorFeedback)
	assert.Equal(s.T(), 45*time.Second, cfg.Agent.RequestTimeout)
	assert.Equal(s.T(), 2, cfg.Agent.MaxRetries)
}

func (s *ConfigTestSuite) TestEnvironmentOverridesFile() {
	path := s.writeFile("custom.yaml", `
gemini:
  api_key: file-key
agent:
  max_iterations: 4
log:
  level: debug
`)
	s.T().Setenv("RAGCALC_AGENT_MAX_ITERATIONS", "7")
	s.T().Setenv("RAGCALC_GEMINI_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 7, cfg.Agent.MaxIterations)
	assert.Equal(s.T(), "env-key", cfg.Gemini.APIKey)
	assert.Equal(s.T(), "debug", cfg.Log.Level)
}

func (s *ConfigTestSuite) TestProviderVariables() {
	s.T().Setenv("RAGCALC_PROVIDER", "openai")
	s.T().Setenv("OPENAI_API_KEY", "sk-test")
	s.T().Setenv("OPENAI_API_BASE_URL", "http://localhost:8080/v1")

	cfg, err := Load("")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(s.T(), "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
}

func (s *ConfigTestSuite) TestAnthropicWithPricing() {
	path := s.writeFile("anthropic.yaml", `
provider: anthropic
anthropic:
  model: claude-test
pricing:
  input_per_million: 0.8
  output_per_million: 4
`)
	s.T().Setenv("ANTHROPIC_API_KEY", "ant-key")
	s.T().Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := Load(path)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "ant-key", cfg.Anthropic.APIKey)
	assert.Equal(s.T(), "claude-test", cfg.ChatModel())
	assert.Equal(s.T(), ProviderGemini, cfg.EmbeddingProvider())
	assert.Equal(s.T(), 0.8, cfg.Pricing.InputCostPerMillion)
	assert.Equal(s.T(), 4.0, cfg.Pricing.OutputCostPerMillion)
}

func (s *ConfigTestSuite) TestExplicitFileMissing() {
	_, err := Load(filepath.Join(s.tempDir, "missing.yaml"))
	assert.Error(s.T(), err)
}

func (s *ConfigTestSuite) TestMissingAPIKey() {
	_, err := Load("")
	require.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "gemini.api_key is required")
}

func TestChatModel(t *testing.T) {
	cfg := Config{
		Gemini:    GeminiConfig{Model: "g"},
		OpenAI:    OpenAIConfig{Model: "o"},
		Anthropic: AnthropicConfig{Model: "a"},
	}
	for provider, want := range map[string]string{ProviderGemini: "g", ProviderOpenAI: "o", ProviderAnthropic: "a"} {
		cfg.Provider = provider
		assert.Equal(t, want, cfg.ChatModel(), provider)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Provider: ProviderGemini,
			Gemini:   GeminiConfig{APIKey: "k"},
			Agent:    AgentConfig{ContextDocuments: 1, MaxIterations: 10},
			Log:      LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Provider = "llama" }, `unknown provider "llama"`},
		{"openai without key", func(c *Config) { c.Provider = ProviderOpenAI }, "openai.api_key is required"},
		{"zero context documents", func(c *Config) { c.Agent.ContextDocuments = 0 }, "agent.context_documents must be positive"},
		{"zero iterations", func(c *Config) { c.Agent.MaxIterations = 0 }, "agent.max_iterations must be positive"},
		{"negative retries", func(c *Config) { c.Agent.MaxRetries = -1 }, "agent.max_retries must not be negative"},
		{"negative timeout", func(c *Config) { c.Agent.RequestTimeout = -time.Second }, "agent.request_timeout"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative dims", func(c *Config) { c.Gemini.EmbeddingDims = -1 }, "gemini.embedding_dims"},
		{"anthropic without key", func(c *Config) { c.Provider = ProviderAnthropic }, "anthropic.api_key is required"},
		{"anthropic embeds with gemini", func(c *Config) {
			c.Provider = ProviderAnthropic
			c.Anthropic.APIKey = "a"
		}, ""},
		{"openai embedder without key", func(c *Config) { c.Embedder = ProviderOpenAI }, "openai.api_key is required"},
		{"anthropic cannot embed", func(c *Config) { c.Embedder = ProviderAnthropic }, `embedder "anthropic" cannot embed`},
		{"negative pricing", func(c *Config) { c.Pricing.OutputCostPerMillion = -1 }, "pricing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
