package memory

import (
	"context"

	"github.com/leofalp/ragcalc/providers/ai"
)

// Provider stores the ordered message history of one conversation.
type Provider interface {
	// AppendMessage adds message at the end of the history. Nil is ignored.
	AppendMessage(ctx context.Context, message *ai.Message)

	// AllMessages returns the history in causal order. The returned slice
	// is owned by the caller.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// ClearMessages empties the history. Clearing an empty history is a no-op.
	ClearMessages(ctx context.Context)
}
