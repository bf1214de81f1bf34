// Package openai implements [ai.Provider] and [ai.Embedder] for OpenAI and
// OpenAI-compatible chat completion APIs, on top of the go-openai client.
//
// Tool results are sent back as tool-role messages linked to their call id,
// and the system prompt together with any context documents travels as the
// leading system message. [OpenAIProvider.EmbedDocuments] embeds a whole
// corpus in a single request, which lets the semantic index ingest without
// one round trip per document.
//
// The main entry point is [New], which reads OPENAI_API_KEY and
// OPENAI_API_BASE_URL from the environment.
package openai
