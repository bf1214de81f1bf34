package agent

import (
	"github.com/leofalp/ragcalc/providers/memory"
	"github.com/leofalp/ragcalc/providers/observability"
	"github.com/leofalp/ragcalc/providers/tool"
)

const (
	// DefaultMaxIterations bounds the model calls of a single turn.
	DefaultMaxIterations = 10

	// DefaultContextDocuments is the number of documents injected per call
	// when a context provider is set without an explicit count.
	DefaultContextDocuments = 1
)

// Option configures an Agent.
type Option func(*Agent)

// WithModel sets the model identifier sent with every request. Providers
// fall back to their own default when it is empty.
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithSystemPrompt sets the system instruction of every request.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithTools sets the catalog of tools offered to the model.
func WithTools(catalog *tool.Catalog) Option {
	return func(a *Agent) {
		a.tools = catalog
	}
}

// WithMemory replaces the default in-memory history.
func WithMemory(history memory.Provider) Option {
	return func(a *Agent) {
		a.memory = history
	}
}

// WithContextProvider injects the k best documents for the user prompt into
// every model call of a turn.
func WithContextProvider(provider ContextProvider, k int) Option {
	return func(a *Agent) {
		a.contextProvider = provider
		a.contextDocuments = k
	}
}

// WithMaxIterations bounds the number of model calls in one turn.
func WithMaxIterations(n int) Option {
	return func(a *Agent) {
		a.maxIterations = n
	}
}

// WithToolErrorFeedback makes tool domain errors, such as a division by
// zero, go back to the model as a failed tool result instead of aborting
// the turn.
func WithToolErrorFeedback(enabled bool) Option {
	return func(a *Agent) {
		a.toolErrorFeedback = enabled
	}
}

// WithObserver enables spans, metrics and logs for turns, model calls and
// tool calls.
func WithObserver(observer observability.Provider) Option {
	return func(a *Agent) {
		a.observer = observer
	}
}

// WithMiddleware appends middlewares around every model call.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(a *Agent) {
		a.middlewares = append(a.middlewares, middlewares...)
	}
}
