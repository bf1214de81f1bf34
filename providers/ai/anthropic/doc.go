// Package anthropic implements [ai.Provider] for Anthropic's Messages API.
//
// It converts the generic [ai.ChatRequest] to the Messages wire format, with
// tool calls as tool_use blocks and tool results as tool_result blocks on the
// user role, and maps responses back to [ai.ChatResponse]. Anthropic offers
// no embedding endpoint, so an index served by this provider must embed with
// another one.
//
// The entry point is [New], which reads ANTHROPIC_API_KEY and
// ANTHROPIC_API_BASE_URL from the environment.
package anthropic
