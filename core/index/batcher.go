package index

import (
	"context"
	"fmt"

	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/observability"
)

// EmbeddingBatcher embeds a whole corpus for ingestion and single queries
// afterwards. The i-th vector returned by EmbedDocuments belongs to texts[i].
type EmbeddingBatcher interface {
	ai.Embedder
	EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error)
}

// BatcherFor returns embedder itself when it already batches, and otherwise
// a batcher issuing one request per document, in order.
func BatcherFor(embedder ai.Embedder) EmbeddingBatcher {
	if batcher, ok := embedder.(EmbeddingBatcher); ok {
		return batcher
	}
	return &sequentialBatcher{embedder: embedder}
}

type sequentialBatcher struct {
	embedder ai.Embedder
}

func (b *sequentialBatcher) Embed(ctx context.Context, text string) ([]float64, error) {
	return b.embedder.Embed(ctx, text)
}

func (b *sequentialBatcher) EmbedDocuments(ctx context.Context, texts []string) ([][]float64, error) {
	span := observability.SpanFromContext(ctx)

	vectors := make([][]float64, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vector, err := b.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed document %d: %w", i, err)
		}
		if span != nil {
			span.AddEvent(observability.EventDocumentEmbedded,
				observability.Int(observability.AttrIndexDocumentPosition, i),
				observability.Int(observability.AttrEmbeddingDimensions, len(vector)),
			)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}
