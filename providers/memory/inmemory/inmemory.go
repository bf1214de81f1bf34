package inmemory

import (
	"context"
	"sync"

	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/memory"
	"github.com/leofalp/ragcalc/providers/observability"
)

// ArrayMemory is a simple, concurrency-safe in-memory message store.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New returns a new, empty ArrayMemory.
func New() *ArrayMemory {
	return &ArrayMemory{
		messages: []ai.Message{},
	}
}

var _ memory.Provider = (*ArrayMemory)(nil)

// AppendMessage stores a copy of message at the end of the history.
// When a span is present in ctx, an append event is recorded with the message
// role and item count, and the new history length is set on the span.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	m.mu.Lock()
	m.messages = append(m.messages, cloneMessage(*message))
	total := len(m.messages)
	m.mu.Unlock()

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageItems, len(message.Content)),
		)
		span.SetAttributes(observability.Int(observability.AttrMemoryTotalMessages, total))
	}
}

// Count returns the number of messages stored. The error is always nil.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// AllMessages returns a deep copy of the history, so callers cannot mutate
// stored content items. The error is always nil.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ai.Message, len(m.messages))
	for i, msg := range m.messages {
		out[i] = cloneMessage(msg)
	}
	return out, nil
}

// ClearMessages removes all messages while retaining the slice capacity.
func (m *ArrayMemory) ClearMessages(ctx context.Context) {
	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	m.mu.Lock()
	clear(m.messages)
	m.messages = m.messages[:0]
	m.mu.Unlock()
}

func cloneMessage(msg ai.Message) ai.Message {
	content := make([]ai.ContentItem, len(msg.Content))
	for i, item := range msg.Content {
		if item.ToolCall != nil {
			call := *item.ToolCall
			item.ToolCall = &call
		}
		if item.ToolResult != nil {
			result := *item.ToolResult
			item.ToolResult = &result
		}
		content[i] = item
	}
	return ai.Message{Role: msg.Role, Content: content}
}
