// Package inmemory provides a concurrency-safe, slice-backed [memory.Provider]
// holding one conversation history in process memory.
package inmemory
