package ai

import "context"

// Provider is the core interface that every LLM provider implementation must
// satisfy. It covers a single request: authentication, message dispatch, and
// response interpretation.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// Embedder turns text into a fixed-length vector. Implementations accept one
// document per call; batching is layered on top by the caller.
type Embedder interface {
	// Embed returns the embedding of text. All vectors produced by one
	// Embedder share the same dimensionality.
	Embed(ctx context.Context, text string) ([]float64, error)
}
