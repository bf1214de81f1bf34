// Package index implements the semantic index behind the lookup tool and
// the per-turn context injection.
//
// [Build] embeds a corpus through an [EmbeddingBatcher]; providers that can
// batch do so natively, others are wrapped by [BatcherFor] and embed one
// document per request. Queries embed the text once and rank every document
// by cosine similarity, computed with gonum.
package index
