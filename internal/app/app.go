// Package app wires configuration, model providers, the semantic index, the
// tool catalog and the agent into a ready-to-use application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leofalp/ragcalc/core/agent"
	"github.com/leofalp/ragcalc/core/agent/middleware"
	"github.com/leofalp/ragcalc/core/index"
	"github.com/leofalp/ragcalc/internal/config"
	"github.com/leofalp/ragcalc/internal/corpus"
	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/ai/anthropic"
	"github.com/leofalp/ragcalc/providers/ai/gemini"
	"github.com/leofalp/ragcalc/providers/ai/openai"
	"github.com/leofalp/ragcalc/providers/observability"
	"github.com/leofalp/ragcalc/providers/tool"
	"github.com/leofalp/ragcalc/providers/tool/arithmetic"
)

// Initialization stages reported by InitializationError.
const (
	StageProviders = "providers"
	StageCorpus    = "corpus"
	StageIndex     = "index"
	StageTools     = "tools"
	StageAgent     = "agent"
)

// InitializationError reports which bootstrap stage failed.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// App is a fully wired ragcalc instance.
type App struct {
	Config *config.Config
	Index  *index.Index
	Tools  *tool.Catalog
	Agent  *agent.Agent
}

// New builds the chat and embedding providers selected by cfg, then the rest
// of the application. observer may be nil.
func New(ctx context.Context, cfg *config.Config, observer observability.Provider) (*App, error) {
	provider, embedder, err := newProviders(cfg)
	if err != nil {
		return nil, &InitializationError{Stage: StageProviders, Err: err}
	}
	return NewWithProviders(ctx, cfg, provider, embedder, observer)
}

// NewWithProviders builds the application around the given providers. It
// embeds the corpus, so it fails when the embedder does.
func NewWithProviders(ctx context.Context, cfg *config.Config, provider ai.Provider, embedder ai.Embedder, observer observability.Provider) (*App, error) {
	if observer != nil {
		ctx = observability.ContextWithObserver(ctx, observer)
	}

	defs, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, &InitializationError{Stage: StageCorpus, Err: err}
	}
	docs, err := corpus.Documents(defs)
	if err != nil {
		return nil, &InitializationError{Stage: StageCorpus, Err: err}
	}

	idx, err := index.Build(ctx, index.BatcherFor(embedder), docs)
	if err != nil {
		return nil, &InitializationError{Stage: StageIndex, Err: err}
	}
	if observer != nil {
		observer.Info(ctx, "Semantic index ready",
			observability.Int(observability.AttrIndexDocuments, idx.Len()),
			observability.Int(observability.AttrEmbeddingDimensions, idx.Dimensions()),
		)
	}

	catalog, err := NewCatalog(idx)
	if err != nil {
		return nil, &InitializationError{Stage: StageTools, Err: err}
	}
	if observer != nil {
		observer.Debug(ctx, "Tools registered",
			observability.StringSlice(observability.AttrToolNames, catalog.Names()),
		)
	}

	a, err := agent.New(provider,
		agent.WithModel(cfg.ChatModel()),
		agent.WithSystemPrompt(cfg.Agent.SystemPrompt),
		agent.WithTools(catalog),
		agent.WithContextProvider(idx, cfg.Agent.ContextDocuments),
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
		agent.WithToolErrorFeedback(cfg.Agent.ToolErrorFeedback),
		agent.WithObserver(observer),
		agent.WithMiddleware(middlewares(cfg, observer)...),
	)
	if err != nil {
		return nil, &InitializationError{Stage: StageAgent, Err: err}
	}

	return &App{
		Config: cfg,
		Index:  idx,
		Tools:  catalog,
		Agent:  a,
	}, nil
}

// NewCatalog registers the arithmetic tools followed by the lookup tool over
// idx. A nil idx still yields a complete catalog whose lookups fail with
// index.ErrIndexUnavailable.
func NewCatalog(idx *index.Index) (*tool.Catalog, error) {
	return tool.NewCatalog(append(arithmetic.Tools(), idx.LookupTool())...)
}

func newProviders(cfg *config.Config) (ai.Provider, ai.Embedder, error) {
	var provider ai.Provider
	switch cfg.Provider {
	case config.ProviderGemini:
		provider = newGemini(cfg)
	case config.ProviderOpenAI:
		provider = newOpenAI(cfg)
	case config.ProviderAnthropic:
		provider = anthropic.New().
			WithAPIKey(cfg.Anthropic.APIKey).
			WithBaseURL(cfg.Anthropic.BaseURL)
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	var embedder ai.Embedder
	switch name := cfg.EmbeddingProvider(); name {
	case config.ProviderGemini:
		embedder = newGemini(cfg)
	case config.ProviderOpenAI:
		embedder = newOpenAI(cfg)
	default:
		return nil, nil, fmt.Errorf("provider %q cannot embed", name)
	}
	return provider, embedder, nil
}

func newGemini(cfg *config.Config) *gemini.GeminiProvider {
	return gemini.New().
		WithAPIKey(cfg.Gemini.APIKey).
		WithBaseURL(cfg.Gemini.BaseURL).
		WithEmbeddingModel(cfg.Gemini.EmbeddingModel).
		WithEmbeddingDimensions(cfg.Gemini.EmbeddingDims)
}

func newOpenAI(cfg *config.Config) *openai.OpenAIProvider {
	return openai.New().
		WithAPIKey(cfg.OpenAI.APIKey).
		WithBaseURL(cfg.OpenAI.BaseURL).
		WithEmbeddingModel(cfg.OpenAI.EmbeddingModel)
}

// middlewares returns, outermost first, the request timeout, retries of
// transient failures when agent.max_retries is set and, when the observer
// exposes a slog logger, call logging.
func middlewares(cfg *config.Config, observer observability.Provider) []agent.Middleware {
	chain := []agent.Middleware{
		middleware.NewTimeoutMiddleware(cfg.Agent.RequestTimeout),
	}
	if cfg.Agent.MaxRetries > 0 {
		chain = append(chain, middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: cfg.Agent.MaxRetries}))
	}
	if withLogger, ok := observer.(interface{ Logger() *slog.Logger }); ok {
		chain = append(chain, middleware.NewLoggingMiddleware(withLogger.Logger(), middleware.LogLevelStandard))
	}
	return chain
}
