package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/leofalp/ragcalc/providers/observability"
)

// Embed implements ai.Embedder for a single text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := p.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedDocuments embeds texts in one request. The i-th vector belongs to
// texts[i] whatever order the API answers in.
func (p *OpenAIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	client, err := p.sdk()
	if err != nil {
		return nil, err
	}

	resp, err := client.CreateEmbeddings(ctx, goopenai.EmbeddingRequestStrings{
		Input: texts,
		Model: p.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) || vectors[data.Index] != nil {
			return nil, fmt.Errorf("openai embeddings: unexpected index %d", data.Index)
		}
		vectors[data.Index] = toFloat64(data.Embedding)
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventDocumentEmbedded,
			observability.String(observability.AttrEmbeddingModel, string(p.embeddingModel)),
			observability.Int(observability.AttrEmbeddingInputs, len(texts)),
			observability.Int(observability.AttrEmbeddingDimensions, len(vectors[0])),
		)
	}
	return vectors, nil
}

func toFloat64(values []float32) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
