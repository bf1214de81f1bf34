package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/ragcalc/core/overview"
	"github.com/leofalp/ragcalc/internal/utils"
	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/memory"
	"github.com/leofalp/ragcalc/providers/memory/inmemory"
	"github.com/leofalp/ragcalc/providers/observability"
	"github.com/leofalp/ragcalc/providers/tool"
)

// ContextProvider supplies documents relevant to a query. The agent asks it
// before every model call, always with the user prompt of the turn.
type ContextProvider interface {
	TopDocuments(ctx context.Context, query string, k int) ([]ai.Document, error)
}

// Agent runs multi-turn conversations in which the model may call tools.
// A turn alternates model calls and tool executions until the model answers
// with text. Turns on one Agent are serialized.
type Agent struct {
	provider          ai.Provider
	send              SendFunc
	model             string
	systemPrompt      string
	tools             *tool.Catalog
	memory            memory.Provider
	contextProvider   ContextProvider
	contextDocuments  int
	maxIterations     int
	toolErrorFeedback bool
	observer          observability.Provider
	middlewares       []Middleware

	mu        sync.Mutex
	sessionID string
}

// New creates an Agent around provider. Without options it has no tools, an
// in-memory history and no injected context.
func New(provider ai.Provider, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, errors.New("agent: nil provider")
	}

	a := &Agent{
		provider:         provider,
		maxIterations:    DefaultMaxIterations,
		contextDocuments: DefaultContextDocuments,
		sessionID:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.maxIterations < 1 {
		return nil, fmt.Errorf("agent: max iterations must be at least 1, got %d", a.maxIterations)
	}
	if a.contextProvider != nil && a.contextDocuments < 0 {
		return nil, fmt.Errorf("agent: context documents must not be negative, got %d", a.contextDocuments)
	}
	if a.memory == nil {
		a.memory = inmemory.New()
	}

	middlewares := a.middlewares
	if a.observer != nil {
		middlewares = append([]Middleware{observabilityMiddleware(a.observer)}, middlewares...)
	}
	a.send = buildSendChain(provider, middlewares)

	return a, nil
}

// RunTurn sends prompt to the model and drives tool calls until the model
// returns a final text, which is returned and stored in the history.
//
// Only the first tool call of a response is executed; later items of that
// response are ignored. Each executed call adds the assistant tool call and
// a user message holding only its result to the history, so a turn with one
// tool round grows the history by four messages.
//
// Model failures are returned as *ModelCallError. An unknown tool aborts the
// turn, and so does a tool domain error unless WithToolErrorFeedback is set.
// A tool that finds nothing is reported to the model as a failed result.
// History written before a failure is kept; the caller decides whether to
// clear it.
//
// When ctx carries an *overview.Overview, the turn, its model calls and its
// tool calls are recorded there.
func (a *Agent) RunTurn(ctx context.Context, prompt string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.observer == nil {
		return a.runTurn(ctx, prompt)
	}

	ctx = observability.ContextWithObserver(ctx, a.observer)
	ctx, span := a.observer.StartSpan(ctx, observability.SpanAgentRunTurn,
		observability.String(observability.AttrAgentSessionID, a.sessionID),
		observability.String(observability.AttrAgentPrompt, utils.TruncateString(prompt, utils.DefaultMaxStringLength)),
	)
	defer span.End()

	start := time.Now()
	answer, err := a.runTurn(ctx, prompt)
	a.observer.Histogram(observability.MetricAgentTurnDuration).Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "turn failed")
		a.observer.Counter(observability.MetricAgentTurnErrors).Add(ctx, 1)
		a.observer.Error(ctx, "Turn failed",
			observability.String(observability.AttrAgentSessionID, a.sessionID),
			observability.Error(err),
		)
		return "", err
	}
	span.SetStatus(observability.StatusOK, "")
	return answer, nil
}

func (a *Agent) runTurn(ctx context.Context, prompt string) (string, error) {
	usage := overview.FromContext(ctx)
	if usage != nil {
		usage.AddTurn()
	}

	user := ai.NewUserMessage(prompt)
	a.memory.AppendMessage(ctx, &user)

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		request, err := a.buildRequest(ctx, prompt)
		if err != nil {
			return "", err
		}

		response, err := a.send(ctx, request)
		if err != nil {
			return "", &ModelCallError{Iteration: iteration, Err: err}
		}
		if usage != nil {
			usage.AddModelCall(response)
		}

		answer, hasText, call, dropped := interpret(response)
		if call == nil {
			if !hasText {
				return "", &ModelCallError{Iteration: iteration, Err: ErrEmptyResponse}
			}
			final := ai.NewAssistantText(answer)
			a.memory.AppendMessage(ctx, &final)
			return answer, nil
		}

		if dropped > 0 {
			a.debug(ctx, "Ignoring tool calls after the first",
				observability.Int(observability.AttrAgentIteration, iteration),
				observability.Int(observability.AttrAgentDroppedToolCalls, dropped),
			)
		}
		if call.ID == "" {
			call.ID = uuid.NewString()
		}
		if usage != nil {
			usage.AddToolCall(call.Name)
		}

		payload, err := a.executeTool(ctx, *call)
		if err != nil {
			return "", err
		}

		callMessage := ai.NewAssistantToolCall(*call)
		a.memory.AppendMessage(ctx, &callMessage)
		resultMessage := ai.NewToolResultMessage(ai.ToolResult{ID: call.ID, Name: call.Name, Payload: payload})
		a.memory.AppendMessage(ctx, &resultMessage)
	}

	return "", fmt.Errorf("%w (%d)", ErrMaxIterations, a.maxIterations)
}

// buildRequest assembles the request for the next model call. Context
// documents are always retrieved for the original user prompt, even when the
// current input is a tool result.
func (a *Agent) buildRequest(ctx context.Context, prompt string) (ai.ChatRequest, error) {
	history, err := a.memory.AllMessages(ctx)
	if err != nil {
		return ai.ChatRequest{}, fmt.Errorf("read history: %w", err)
	}

	request := ai.ChatRequest{
		Model:            a.model,
		Messages:         history,
		SystemPrompt:     a.systemPrompt,
		Tools:            a.tools.Descriptions(),
		GenerationConfig: &ai.GenerationConfig{Temperature: utils.Ptr(0.0)},
	}

	if a.contextProvider != nil && a.contextDocuments > 0 {
		documents, err := a.contextProvider.TopDocuments(ctx, prompt, a.contextDocuments)
		if err != nil {
			return ai.ChatRequest{}, fmt.Errorf("retrieve context: %w", err)
		}
		request.Documents = documents
		if span := observability.SpanFromContext(ctx); span != nil {
			span.AddEvent(observability.EventContextRetrieved,
				observability.Int(observability.AttrRequestDocumentsCount, len(documents)))
		}
	}
	return request, nil
}

// interpret scans the response in order. Every text item replaces the
// candidate answer; scanning stops at the first tool call, whose presence
// discards the answer. dropped counts the tool calls after the first.
func interpret(response *ai.ChatResponse) (answer string, hasText bool, call *ai.ToolCall, dropped int) {
	if response == nil {
		return "", false, nil, 0
	}
	for _, item := range response.Choice {
		switch item.Type {
		case ai.ContentTypeText:
			if call == nil {
				answer, hasText = item.Text, true
			}
		case ai.ContentTypeToolCall:
			if item.ToolCall == nil {
				continue
			}
			if call == nil {
				c := *item.ToolCall
				call = &c
			} else {
				dropped++
			}
		}
	}
	if call != nil {
		return "", false, call, dropped
	}
	return answer, hasText, nil, 0
}

// executeTool runs call and returns the JSON tool outcome to send back.
func (a *Agent) executeTool(ctx context.Context, call ai.ToolCall) (string, error) {
	a.info(ctx, "Calling tool",
		observability.String(observability.AttrToolName, call.Name),
		observability.String(observability.AttrToolCallID, call.ID),
		observability.String(observability.AttrToolInput, call.Arguments),
	)
	if a.observer != nil {
		a.observer.Counter(observability.MetricAgentToolCalls).Add(ctx, 1,
			observability.String(observability.AttrToolName, call.Name))
	}

	output, err := a.tools.Call(ctx, call)

	var outcome ai.ToolOutcome
	var domainErr *tool.DomainError
	switch {
	case err == nil:
		outcome = ai.NewToolOutcomeSuccess(output)
	case errors.Is(err, tool.ErrUnknownTool):
		return "", err
	case errors.Is(err, tool.ErrNoResult):
		outcome = ai.NewToolOutcomeError("no_match", err.Error())
	case errors.As(err, &domainErr) && a.toolErrorFeedback:
		code := "domain_error"
		if errors.Is(err, tool.ErrInvalidArguments) {
			code = "invalid_arguments"
		}
		outcome = ai.NewToolOutcomeError(code, err.Error())
	default:
		return "", err
	}

	payload, err := outcome.ToJSON()
	if err != nil {
		return "", fmt.Errorf("encode tool outcome: %w", err)
	}
	a.info(ctx, "Tool returned",
		observability.String(observability.AttrToolName, call.Name),
		observability.String(observability.AttrToolOutput, utils.TruncateString(payload, utils.DefaultMaxStringLength)),
	)
	return payload, nil
}

// ClearHistory empties the history and starts a new session. It waits for a
// running turn to finish.
func (a *Agent) ClearHistory(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.memory.ClearMessages(ctx)
	a.sessionID = uuid.NewString()
}

// History returns the messages of the current session.
func (a *Agent) History(ctx context.Context) ([]ai.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.AllMessages(ctx)
}

// Tools returns the catalog offered to the model, possibly nil.
func (a *Agent) Tools() *tool.Catalog {
	return a.tools
}

func (a *Agent) info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if a.observer != nil {
		a.observer.Info(ctx, msg, attrs...)
	}
}

func (a *Agent) debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if a.observer != nil {
		a.observer.Debug(ctx, msg, attrs...)
	}
}
