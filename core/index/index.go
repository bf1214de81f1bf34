package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/observability"
)

// Document is one corpus entry before ingestion.
type Document struct {
	ID      string
	Label   string
	Texts   []string
	Payload json.RawMessage // returned verbatim by lookups
}

// Text is the string that gets embedded: the text entries joined by newlines,
// or the label when there are none.
func (d Document) Text() string {
	text := strings.Join(d.Texts, "\n")
	if strings.TrimSpace(text) == "" {
		return d.Label
	}
	return text
}

// EmbeddedDocument is a Document paired with its vector.
type EmbeddedDocument struct {
	Document
	Vector []float64
}

// Match is a single query result.
type Match struct {
	ID         string
	Label      string
	Similarity float64
	Payload    json.RawMessage
}

// Index is an immutable, in-memory semantic index. Documents keep their
// corpus order, which breaks similarity ties. A nil *Index stands for an
// index that could not be built and fails every query with
// ErrIndexUnavailable.
type Index struct {
	embedder   ai.Embedder
	documents  []EmbeddedDocument
	dimensions int
}

// Build embeds docs through batcher and returns the resulting index. The
// same batcher embeds query text later on.
func Build(ctx context.Context, batcher EmbeddingBatcher, docs []Document) (*Index, error) {
	if batcher == nil {
		return nil, fmt.Errorf("build index: nil embedding batcher")
	}

	span := observability.SpanFromContext(ctx)
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		var s observability.Span
		ctx, s = observer.StartSpan(ctx, observability.SpanIndexBuild,
			observability.Int(observability.AttrIndexDocuments, len(docs)))
		defer s.End()
		span = s
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text()
	}

	vectors, err := batcher.EmbedDocuments(ctx, texts)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "embedding failed")
		}
		return nil, fmt.Errorf("build index: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w, got %d documents but %d embeddings", ErrDocumentCountMismatch, len(docs), len(vectors))
	}

	idx := &Index{
		embedder:  batcher,
		documents: make([]EmbeddedDocument, len(docs)),
	}
	for i, doc := range docs {
		vector := vectors[i]
		if len(vector) == 0 {
			return nil, fmt.Errorf("build index: document %q has an empty embedding", doc.ID)
		}
		if i == 0 {
			idx.dimensions = len(vector)
		} else if len(vector) != idx.dimensions {
			return nil, fmt.Errorf("%w: document %q has %d dimensions, expected %d", ErrDimensionMismatch, doc.ID, len(vector), idx.dimensions)
		}
		if len(doc.Payload) == 0 {
			doc.Payload, _ = json.Marshal(doc.Text())
		}
		idx.documents[i] = EmbeddedDocument{Document: doc, Vector: vector}
	}

	if span != nil {
		span.SetAttributes(observability.Int(observability.AttrEmbeddingDimensions, idx.dimensions))
		span.SetStatus(observability.StatusOK, "")
	}
	return idx, nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.documents)
}

// Dimensions returns the vector length shared by all documents, 0 when empty.
func (idx *Index) Dimensions() int {
	if idx == nil {
		return 0
	}
	return idx.dimensions
}

// Documents returns the indexed documents in corpus order.
func (idx *Index) Documents() []EmbeddedDocument {
	if idx == nil {
		return nil
	}
	return append([]EmbeddedDocument(nil), idx.documents...)
}

// TopN embeds query once and returns up to n documents ranked by cosine
// similarity, highest first. Equal similarities keep corpus order.
func (idx *Index) TopN(ctx context.Context, query string, n int) ([]Match, error) {
	if idx == nil {
		return nil, ErrIndexUnavailable
	}
	if n <= 0 || len(idx.documents) == 0 {
		return []Match{}, nil
	}

	queryVector, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVector) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(queryVector), idx.dimensions)
	}

	matches := make([]Match, len(idx.documents))
	for i, doc := range idx.documents {
		matches[i] = Match{
			ID:         doc.ID,
			Label:      doc.Label,
			Similarity: cosineSimilarity(queryVector, doc.Vector),
			Payload:    doc.Payload,
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if n < len(matches) {
		matches = matches[:n]
	}

	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Counter(observability.MetricIndexQueries).Add(ctx, 1)
		observer.Debug(ctx, "Index queried",
			observability.String(observability.AttrIndexQuery, query),
			observability.Int(observability.AttrIndexTopN, n),
			observability.Float64(observability.AttrIndexBestScore, matches[0].Similarity),
		)
	}
	return matches, nil
}

// TopDocuments returns the k best matches for query as context documents.
func (idx *Index) TopDocuments(ctx context.Context, query string, k int) ([]ai.Document, error) {
	matches, err := idx.TopN(ctx, query, k)
	if err != nil {
		return nil, err
	}
	documents := make([]ai.Document, len(matches))
	for i, match := range matches {
		documents[i] = ai.Document{ID: match.ID, Text: string(match.Payload)}
	}
	return documents, nil
}

// cosineSimilarity returns 0 when either vector has zero norm.
func cosineSimilarity(a, b []float64) float64 {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}
