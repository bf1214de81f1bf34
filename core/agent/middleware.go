package agent

import (
	"context"
	"time"

	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/observability"
)

// SendFunc sends one chat request to the model.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps a SendFunc. Middlewares are applied outermost-first: the
// first one given to [WithMiddleware] sees the request first.
type Middleware func(next SendFunc) SendFunc

func buildSendChain(provider ai.Provider, middlewares []Middleware) SendFunc {
	var chain SendFunc = provider.SendMessage
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}

// observabilityMiddleware opens a span per model call and counts calls by
// outcome. The agent installs it outermost when an observer is configured.
func observabilityMiddleware(observer observability.Provider) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, span := observer.StartSpan(ctx, observability.SpanAgentModelCall,
				observability.String(observability.AttrLLMModel, request.Model),
				observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
				observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
				observability.Int(observability.AttrRequestDocumentsCount, len(request.Documents)),
			)
			defer span.End()
			span.AddEvent(observability.EventLLMRequestStart)

			start := time.Now()
			response, err := next(ctx, request)
			duration := time.Since(start)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "model call failed")
				observer.Counter(observability.MetricAgentModelCalls).Add(ctx, 1,
					observability.String(observability.AttrStatus, "error"))
				return nil, err
			}

			attrs := []observability.Attribute{
				observability.String(observability.AttrLLMResponseID, response.Id),
				observability.String(observability.AttrLLMFinishReason, response.FinishReason),
				observability.Duration(observability.AttrDuration, duration),
			}
			if response.Usage != nil {
				attrs = append(attrs, observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens))
			}
			span.AddEvent(observability.EventLLMRequestEnd, attrs...)
			span.SetStatus(observability.StatusOK, "")
			observer.Counter(observability.MetricAgentModelCalls).Add(ctx, 1,
				observability.String(observability.AttrStatus, "ok"))
			return response, nil
		}
	}
}
