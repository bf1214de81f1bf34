package middleware

import (
	"context"
	"time"

	"github.com/leofalp/ragcalc/core/agent"
	"github.com/leofalp/ragcalc/providers/ai"
)

// NewTimeoutMiddleware bounds each model call with context.WithTimeout. A
// shorter deadline already on the caller's context still wins. A timeout of
// zero or less disables the middleware.
func NewTimeoutMiddleware(timeout time.Duration) agent.Middleware {
	return func(next agent.SendFunc) agent.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
