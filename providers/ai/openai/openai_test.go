package openai

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/leofalp/ragcalc/internal/utils"
	"github.com/leofalp/ragcalc/providers/ai"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New().WithAPIKey("test-key").WithBaseURL(server.URL + "/v1")
}

func TestNew_WithoutEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	p := New()
	if p == nil {
		t.Fatal("expected provider to be created even without env variable")
	}
	if _, err := p.SendMessage(context.Background(), ai.ChatRequest{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSendMessage_Text(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}

		var req goopenai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != defaultModel {
			t.Errorf("expected default model, got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != goopenai.ChatMessageRoleSystem {
			t.Errorf("expected system + user messages, got %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{ //nolint:errcheck
			ID:    "chatcmpl-1",
			Model: "gpt-4o-mini",
			Choices: []goopenai.ChatCompletionChoice{{
				Message:      goopenai.ChatCompletionMessage{Role: "assistant", Content: "Hello!"},
				FinishReason: goopenai.FinishReasonStop,
			}},
			Usage: goopenai.Usage{PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7},
		})
	})

	resp, err := p.SendMessage(context.Background(), ai.ChatRequest{
		SystemPrompt: "be brief",
		Messages:     []ai.Message{ai.NewUserMessage("Hi")},
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if resp.Id != "chatcmpl-1" || resp.FinishReason != "stop" {
		t.Errorf("unexpected response header: %+v", resp)
	}
	if len(resp.Choice) != 1 || resp.Choice[0].Text != "Hello!" {
		t.Errorf("unexpected choice: %+v", resp.Choice)
	}
	if resp.Usage.TotalTokens != 7 {
		t.Errorf("expected 7 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestSendMessage_ToolCall(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{ //nolint:errcheck
			ID: "chatcmpl-2",
			Choices: []goopenai.ChatCompletionChoice{{
				Message: goopenai.ChatCompletionMessage{
					Role: "assistant",
					ToolCalls: []goopenai.ToolCall{{
						ID:       "call_1",
						Type:     goopenai.ToolTypeFunction,
						Function: goopenai.FunctionCall{Name: "subtract", Arguments: `{"x":5,"y":2}`},
					}},
				},
				FinishReason: goopenai.FinishReasonToolCalls,
			}},
		})
	})

	resp, err := p.SendMessage(context.Background(), ai.ChatRequest{Messages: []ai.Message{ai.NewUserMessage("5-2")}})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	calls := resp.ToolCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0] != (ai.ToolCall{ID: "call_1", Name: "subtract", Arguments: `{"x":5,"y":2}`}) {
		t.Errorf("unexpected call: %+v", calls[0])
	}
}

func TestSendMessage_APIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`)) //nolint:errcheck
	})

	_, err := p.SendMessage(context.Background(), ai.ChatRequest{Messages: []ai.Message{ai.NewUserMessage("hi")}})
	var apiErr *goopenai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.HTTPStatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", apiErr.HTTPStatusCode)
	}
}

func TestRequestToOpenAI_History(t *testing.T) {
	request := ai.ChatRequest{
		Model:        "gpt-test",
		SystemPrompt: "sys",
		Documents:    []ai.Document{{ID: "doc1", Text: "{}"}},
		Messages: []ai.Message{
			ai.NewUserMessage("5 - 2?"),
			ai.NewAssistantToolCall(ai.ToolCall{ID: "c1", Name: "subtract", Arguments: `{"x":5,"y":2}`}),
			ai.NewToolResultMessage(ai.ToolResult{ID: "c1", Name: "subtract", Payload: `{"success":true,"data":3}`}),
		},
		Tools:            []ai.ToolDescription{{Name: "subtract", Description: "Subtract y from x"}},
		GenerationConfig: &ai.GenerationConfig{Temperature: utils.Ptr(0.0), MaxOutputTokens: 64},
	}

	req := requestToOpenAI(request)

	if len(req.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != goopenai.ChatMessageRoleSystem || req.Messages[0].Content != request.SystemInstruction() {
		t.Errorf("unexpected system message: %+v", req.Messages[0])
	}
	if len(req.Messages[2].ToolCalls) != 1 || req.Messages[2].ToolCalls[0].ID != "c1" {
		t.Errorf("unexpected assistant message: %+v", req.Messages[2])
	}
	tool := req.Messages[3]
	if tool.Role != goopenai.ChatMessageRoleTool || tool.ToolCallID != "c1" || tool.Content != `{"success":true,"data":3}` {
		t.Errorf("unexpected tool message: %+v", tool)
	}
	if req.Temperature != math.SmallestNonzeroFloat32 {
		t.Errorf("expected explicit zero temperature workaround, got %v", req.Temperature)
	}
	if req.MaxCompletionTokens != 64 {
		t.Errorf("expected 64 max tokens, got %d", req.MaxCompletionTokens)
	}
	if len(req.Tools) != 1 || req.Tools[0].Function.Name != "subtract" {
		t.Errorf("unexpected tools: %+v", req.Tools)
	}
}

func TestTemperature(t *testing.T) {
	if got := temperature(0.7); got != float32(0.7) {
		t.Errorf("temperature(0.7) = %v", got)
	}
	if got := temperature(0); got == 0 {
		t.Error("temperature(0) must not be zero")
	}
}

func TestResponseToGeneric_NoChoices(t *testing.T) {
	resp := responseToGeneric(goopenai.ChatCompletionResponse{ID: "x"})
	if resp.FinishReason != "error" || len(resp.Choice) != 0 {
		t.Errorf("unexpected response: %+v", resp)
	}
}
