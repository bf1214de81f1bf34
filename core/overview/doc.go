// Package overview tracks what happens during one execution: turns, model
// calls, token usage and tool calls. The central type is [Overview]; attach
// one to a context with [Overview.ToContext] and the agent records into it.
// [Overview.CostSummary] prices the collected usage.
package overview
