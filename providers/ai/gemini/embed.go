package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/ragcalc/internal/utils"
	"github.com/leofalp/ragcalc/providers/observability"
)

// Embed implements ai.Embedder with the embedContent endpoint. Each call
// embeds exactly one text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	model := p.embeddingModel
	url := fmt.Sprintf("%s/models/%s:embedContent", p.baseURL, model)

	_, resp, err := utils.DoPostSync[embedContentResponse](
		ctx,
		p.client,
		url,
		embedContentRequest{
			Model:                "models/" + model,
			Content:              content{Parts: []part{{Text: text}}},
			OutputDimensionality: p.embeddingDimensions,
		},
		utils.WithHeader("x-goog-api-key", p.apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embedContent: %w", err)
	}

	values := resp.Embedding.Values
	if len(values) == 0 {
		return nil, errors.New("gemini embedContent: empty embedding")
	}

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventDocumentEmbedded,
			observability.String(observability.AttrEmbeddingModel, model),
			observability.Int(observability.AttrEmbeddingDimensions, len(values)),
		)
	}
	return values, nil
}
