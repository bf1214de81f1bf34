// Package slogobs provides an observability.Provider backed by log/slog.
//
// Spans and metrics are rendered as debug-level log records; counters keep a
// running total in memory so it can be read back with [Observer.CounterValue].
// Output goes to stderr by default so that stdout stays free for command
// results and the MCP stdio transport.
package slogobs
