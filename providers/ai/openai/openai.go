package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/observability"
)

const (
	defaultModel          = "gpt-4o-mini"
	defaultEmbeddingModel = goopenai.SmallEmbedding3
)

// ErrMissingAPIKey is returned when a request is attempted without an API key.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// OpenAIProvider implements ai.Provider and ai.Embedder for OpenAI.
type OpenAIProvider struct {
	apiKey         string
	baseURL        string
	httpClient     *http.Client
	embeddingModel goopenai.EmbeddingModel

	mu     sync.Mutex
	client *goopenai.Client
}

var (
	_ ai.Provider = (*OpenAIProvider)(nil)
	_ ai.Embedder = (*OpenAIProvider)(nil)
)

// New creates a new OpenAI provider with values from the environment.
// Environment variables:
//   - OPENAI_API_KEY: API key for authentication
//   - OPENAI_API_BASE_URL: Base URL for API (optional, defaults to OpenAI)
func New() *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:         os.Getenv("OPENAI_API_KEY"),
		baseURL:        os.Getenv("OPENAI_API_BASE_URL"),
		embeddingModel: defaultEmbeddingModel,
	}
}

// WithAPIKey sets the API key for the provider.
func (p *OpenAIProvider) WithAPIKey(apiKey string) *OpenAIProvider {
	p.apiKey = apiKey
	p.client = nil
	return p
}

// WithBaseURL sets the base URL for the API. An empty value selects the
// official endpoint.
func (p *OpenAIProvider) WithBaseURL(baseURL string) *OpenAIProvider {
	p.baseURL = baseURL
	p.client = nil
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) *OpenAIProvider {
	p.httpClient = httpClient
	p.client = nil
	return p
}

// WithEmbeddingModel sets the model used by Embed and EmbedDocuments. An
// empty value keeps the current one.
func (p *OpenAIProvider) WithEmbeddingModel(model string) *OpenAIProvider {
	if model != "" {
		p.embeddingModel = goopenai.EmbeddingModel(model)
	}
	return p
}

// sdk returns the go-openai client, building it on first use.
func (p *OpenAIProvider) sdk() (*goopenai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if p.client == nil {
		config := goopenai.DefaultConfig(p.apiKey)
		if p.baseURL != "" {
			config.BaseURL = p.baseURL
		}
		if p.httpClient != nil {
			config.HTTPClient = p.httpClient
		}
		p.client = goopenai.NewClientWithConfig(config)
	}
	return p.client, nil
}

// SendMessage implements the ai.Provider interface using the chat
// completions endpoint.
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if request.Model == "" {
		request.Model = defaultModel
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMModel, request.Model),
		)
	}
	if observer != nil {
		observer.Trace(ctx, "OpenAI provider preparing request",
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}

	client, err := p.sdk()
	if err != nil {
		return nil, err
	}

	resp, err := client.CreateChatCompletion(ctx, requestToOpenAI(request))
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "OpenAI request failed", observability.Error(err))
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	result := responseToGeneric(resp)
	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMResponseID, result.Id),
			observability.String(observability.AttrLLMFinishReason, result.FinishReason),
		)
		if result.Usage != nil {
			span.AddEvent(observability.EventTokensReceived,
				observability.Int(observability.AttrLLMTokensTotal, result.Usage.TotalTokens),
			)
		}
	}
	return result, nil
}
