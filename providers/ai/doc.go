// Package ai defines the shared, provider-agnostic types and interfaces used
// across the LLM provider implementations (Gemini, OpenAI). Each provider's
// conversion layer is responsible for mapping these types to its own wire
// format, keeping the rest of the codebase decoupled from provider details.
//
// The central interfaces are [Provider] for chat completions and [Embedder]
// for text embeddings. Requests flow through [ChatRequest] and responses come
// back as [ChatResponse], whose Choice holds ordered [ContentItem] values:
// text, tool calls and tool results.
package ai
