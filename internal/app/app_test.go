package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/ragcalc/core/agent"
	"github.com/leofalp/ragcalc/core/agent/middleware"
	"github.com/leofalp/ragcalc/core/index"
	"github.com/leofalp/ragcalc/internal/config"
	"github.com/leofalp/ragcalc/internal/utils"
	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/ai/anthropic"
	"github.com/leofalp/ragcalc/providers/ai/gemini"
	"github.com/leofalp/ragcalc/providers/observability/slogobs"
)

// keywordEmbedder maps text onto one axis per corpus word plus a bias axis.
type keywordEmbedder struct {
	err error
}

func (e keywordEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	text = strings.ToLower(text)
	vector := []float64{0.1, 0, 0, 0}
	for i, word := range []string{"flurbo", "glarb-glarb", "linglingdong"} {
		if strings.Contains(text, word) {
			vector[i+1] = 1
		}
	}
	return vector, nil
}

type scriptedProvider struct {
	mu        sync.Mutex
	responses []*ai.ChatResponse
	requests  []ai.ChatRequest
}

func (p *scriptedProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, request)
	if len(p.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	response := p.responses[0]
	p.responses = p.responses[1:]
	return response, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Provider: config.ProviderGemini,
		Gemini:   config.GeminiConfig{APIKey: "k", Model: "gemini-test"},
		Agent: config.AgentConfig{
			SystemPrompt:     config.DefaultSystemPrompt,
			ContextDocuments: 1,
			MaxIterations:    10,
		},
		Log: config.LogConfig{Level: "info"},
	}
}

func TestNewWithProviders_LookupRoundTrip(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		{Choice: []ai.ContentItem{ai.NewToolCallItem(ai.ToolCall{ID: "c1", Name: "lookup", Arguments: `{"lookup":"glarb-glarb"}`})}},
		{Choice: []ai.ContentItem{ai.NewTextItem("A glarb-glarb is an ancient farming tool.")}},
	}}

	application, err := NewWithProviders(context.Background(), testConfig(), provider, keywordEmbedder{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, application.Index.Len())
	assert.Equal(t, []string{"add", "subtract", "multiply", "divide", "lookup"}, application.Tools.Names())

	answer, err := application.Agent.RunTurn(context.Background(), `What does "glarb-glarb" mean?`)
	require.NoError(t, err)
	assert.Equal(t, "A glarb-glarb is an ancient farming tool.", answer)

	require.Len(t, provider.requests, 2)
	first := provider.requests[0]
	assert.Equal(t, "gemini-test", first.Model)
	assert.Equal(t, config.DefaultSystemPrompt, first.SystemPrompt)
	require.Len(t, first.Documents, 1)
	assert.Equal(t, "doc1", first.Documents[0].ID)

	history, err := application.Agent.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 4)

	var outcome ai.ToolOutcome
	require.NoError(t, json.Unmarshal([]byte(history[2].Content[0].ToolResult.Payload), &outcome))
	assert.True(t, outcome.Success)
	assert.Contains(t, string(outcome.Data), `"word":"glarb-glarb"`)
}

func TestNewWithProviders_ArithmeticRound(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		{Choice: []ai.ContentItem{ai.NewToolCallItem(ai.ToolCall{ID: "c1", Name: "divide", Arguments: `{"x":5,"y":10}`})}},
		{Choice: []ai.ContentItem{ai.NewTextItem("0.5")}},
	}}

	application, err := NewWithProviders(context.Background(), testConfig(), provider, keywordEmbedder{}, nil)
	require.NoError(t, err)

	_, err = application.Agent.RunTurn(context.Background(), "Calculate (2 + 3) / 10")
	require.NoError(t, err)

	history, _ := application.Agent.History(context.Background())
	assert.JSONEq(t, `{"success":true,"data":0.5}`, history[2].Content[0].ToolResult.Payload)
}

func TestNewWithProviders_IndexFailure(t *testing.T) {
	cause := errors.New("embedding service down")
	_, err := NewWithProviders(context.Background(), testConfig(), &scriptedProvider{}, keywordEmbedder{err: cause}, nil)

	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, StageIndex, initErr.Stage)
	assert.ErrorIs(t, err, cause)
}

func TestNewWithProviders_CorpusFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Corpus.Path = "does-not-exist.yaml"

	_, err := NewWithProviders(context.Background(), cfg, &scriptedProvider{}, keywordEmbedder{}, nil)

	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, StageCorpus, initErr.Stage)
}

func TestNewWithProviders_AgentFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Agent.MaxIterations = 0

	_, err := NewWithProviders(context.Background(), cfg, &scriptedProvider{}, keywordEmbedder{}, nil)

	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, StageAgent, initErr.Stage)
}

func TestNewProviders(t *testing.T) {
	for _, name := range []string{config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic} {
		cfg := testConfig()
		cfg.Provider = name
		provider, embedder, err := newProviders(cfg)
		require.NoError(t, err, name)
		assert.NotNil(t, provider)
		assert.NotNil(t, embedder)
	}

	cfg := testConfig()
	cfg.Provider = config.ProviderAnthropic
	provider, embedder, err := newProviders(cfg)
	require.NoError(t, err)
	assert.IsType(t, &anthropic.AnthropicProvider{}, provider)
	assert.IsType(t, &gemini.GeminiProvider{}, embedder)

	cfg = testConfig()
	cfg.Embedder = config.ProviderAnthropic
	_, _, err = newProviders(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Provider = "llama"
	_, _, err = newProviders(cfg)
	assert.Error(t, err)
}

func TestInitializationError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&InitializationError{Stage: StageTools, Err: cause})
	assert.EqualError(t, err, "initialize tools: boom")
	assert.ErrorIs(t, err, cause)
}

func TestNewCatalog_NilIndex(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, catalog.Size())

	_, err = catalog.Call(context.Background(), ai.ToolCall{Name: "lookup", Arguments: `{"lookup":"flurbo"}`})
	assert.ErrorIs(t, err, index.ErrIndexUnavailable)
}

type unavailableProvider struct {
	calls int
}

func (p *unavailableProvider) SendMessage(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
	p.calls++
	return nil, &utils.HTTPError{StatusCode: 503, Body: "overloaded"}
}

func TestNewWithProviders_ModelFailureNotRetriedByDefault(t *testing.T) {
	provider := &unavailableProvider{}
	application, err := NewWithProviders(context.Background(), testConfig(), provider, keywordEmbedder{}, nil)
	require.NoError(t, err)

	_, err = application.Agent.RunTurn(context.Background(), "Calculate 5 - 2")

	var callErr *agent.ModelCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, 1, callErr.Iteration)
	var httpErr *utils.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 503, httpErr.StatusCode)
	assert.NotErrorIs(t, err, middleware.ErrRetryExhausted)
	assert.Equal(t, 1, provider.calls)
}

func TestMiddlewares_RetryOptIn(t *testing.T) {
	cfg := testConfig()
	assert.Len(t, middlewares(cfg, nil), 1)

	cfg.Agent.MaxRetries = 2
	assert.Len(t, middlewares(cfg, nil), 2)
}

func TestNewWithProviders_LogsToolsAndEmbeddings(t *testing.T) {
	var buf bytes.Buffer
	observer := slogobs.New(
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithFormat(slogobs.FormatJSON),
		slogobs.WithOutput(&buf),
	)

	_, err := NewWithProviders(context.Background(), testConfig(), &scriptedProvider{}, keywordEmbedder{}, observer)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "Tools registered")
	assert.Contains(t, logs, "tool.names")
	assert.Contains(t, logs, "lookup")
	assert.Contains(t, logs, "index.document.position")
}
