// Package agent implements the conversation orchestrator.
//
// An [Agent] keeps one conversation history. [Agent.RunTurn] appends the
// user prompt, calls the model with the full history, every tool descriptor,
// temperature 0 and, when configured, documents retrieved for the prompt.
// While the model answers with a tool call, the agent executes the first one
// through the tool catalog, records the call and its result, and calls the
// model again. The first response without a tool call ends the turn.
//
// Model calls go through a chain of [Middleware]; the middleware subpackage
// provides logging and timeouts.
package agent
