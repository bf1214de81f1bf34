// Package gemini implements [ai.Provider] and [ai.Embedder] for Google's
// Gemini generative language API.
//
// Chat requests are converted to the generateContent wire format: history
// messages become contents, tool calls become functionCall parts and tool
// results go back as functionResponse parts on the user role. The system
// prompt and any context documents of the request form the system
// instruction. Embeddings use the embedContent endpoint, one document per
// call.
//
// The primary entry point is [New], which reads GEMINI_API_KEY and
// GEMINI_API_BASE_URL from the environment. Use [GeminiProvider.WithAPIKey],
// [GeminiProvider.WithBaseURL] or [GeminiProvider.WithHttpClient] to configure
// the provider programmatically.
package gemini
