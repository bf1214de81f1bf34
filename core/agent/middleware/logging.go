package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leofalp/ragcalc/core/agent"
	"github.com/leofalp/ragcalc/internal/utils"
	"github.com/leofalp/ragcalc/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs the model, the duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the message count, the number of injected
	// documents and the finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the current input and the response items,
	// truncated to 500 characters.
	//
	// WARNING: verbose logs carry raw prompts and answers. Use it for local
	// debugging only.
	LogLevelVerbose
)

const truncateLen = 500

// NewLoggingMiddleware logs every model call before and after it runs. The
// logger must not be nil; pass slog.Default() when no logger is configured.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) agent.Middleware {
	return func(next agent.SendFunc) agent.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			logger.InfoContext(ctx, "llm send", buildRequestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "llm send failed",
					slog.String("model", request.Model),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			logger.InfoContext(ctx, "llm send completed", buildResponseAttrs(response, elapsed, level)...)
			return response, nil
		}
	}
}

func buildRequestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.Int("message_count", len(request.Messages)),
			slog.Int("document_count", len(request.Documents)),
		)
	}

	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs,
			slog.String("input_role", string(last.Role)),
			slog.String("input_content", utils.TruncateString(describeItems(last.Content), truncateLen)),
		)
	}

	return attrs
}

func buildResponseAttrs(response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", response.Model),
		slog.Duration("duration", elapsed),
	}

	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}

	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
	}

	if level >= LogLevelVerbose && len(response.Choice) > 0 {
		attrs = append(attrs,
			slog.String("response_content", utils.TruncateString(describeItems(response.Choice), truncateLen)),
		)
	}

	return attrs
}

// describeItems renders content items on one line: text as is, tool calls
// as name(arguments) and tool results as name => payload.
func describeItems(items []ai.ContentItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(" | ")
		}
		switch {
		case item.Type == ai.ContentTypeToolCall && item.ToolCall != nil:
			b.WriteString(item.ToolCall.Name + "(" + item.ToolCall.Arguments + ")")
		case item.Type == ai.ContentTypeToolResult && item.ToolResult != nil:
			b.WriteString(item.ToolResult.Name + " => " + item.ToolResult.Payload)
		default:
			b.WriteString(item.Text)
		}
	}
	return b.String()
}
