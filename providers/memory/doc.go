// Package memory defines the Provider interface for conversation history.
// Read methods return errors so that a store backed by I/O can surface
// failures. The in-process implementation lives in
// [github.com/leofalp/ragcalc/providers/memory/inmemory].
package memory
