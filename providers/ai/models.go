package ai

import (
	"encoding/json"

	"github.com/leofalp/ragcalc/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message.
// Messages carries the whole session history in causal order; its last
// element is the current input (a user prompt or a tool result).
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Full history, current input last
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	Tools            []ToolDescription `json:"tools,omitempty"`             // Contains tool definitions if any
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
	Documents        []Document        `json:"documents,omitempty"`         // Context injected for this call only
}

// ToolDescription is the wire description of a tool advertised to the model.
type ToolDescription struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// GenerationConfig holds sampling parameters. Pointer fields distinguish an
// explicit zero from "not set", so Temperature 0 reaches the provider.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`       // Sampling temperature [0..2]. 0 => deterministic.
	MaxOutputTokens int      `json:"max_output_tokens,omitempty"` // Optional cap on generated tokens
}

// Document is a piece of retrieved context supplied to the model alongside
// the conversation. Text is usually the JSON payload of a corpus entry.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole   `json:"role"`
	Content []ContentItem `json:"content"`
}

// ContentType identifies which variant a [ContentItem] holds.
type ContentType string

const (
	ContentTypeText       ContentType = "text"        // Plain text
	ContentTypeToolCall   ContentType = "tool_call"   // Tool invocation requested by the model
	ContentTypeToolResult ContentType = "tool_result" // Outcome of a tool invocation
)

// ContentItem is a tagged variant. Exactly one of Text, ToolCall or
// ToolResult is meaningful, selected by Type.
type ContentItem struct {
	Type       ContentType `json:"type"`
	Text       string      `json:"text,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// ToolCall represents a function/tool call request from the LLM.
type ToolCall struct {
	ID        string `json:"id"`        // Correlates the call with its ToolResult
	Name      string `json:"name"`      // Registered tool name
	Arguments string `json:"arguments"` // JSON string
}

// ToolResult carries a tool output back to the model.
type ToolResult struct {
	ID      string `json:"id"`      // Same ID as the originating ToolCall
	Name    string `json:"name"`    // Name of the tool that produced it
	Payload string `json:"payload"` // JSON encoded ToolOutcome
}

/*
	##### PROVIDER OUTPUT #####
*/

// Usage reports token accounting for a single call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion.
// Choice keeps the order in which the model produced its items.
type ChatResponse struct {
	Id           string        `json:"id"`
	Model        string        `json:"model"`
	Choice       []ContentItem `json:"choice"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Usage        *Usage        `json:"usage,omitempty"`
}

// ToolCalls returns the tool calls in the response, in order.
func (r *ChatResponse) ToolCalls() []ToolCall {
	if r == nil {
		return nil
	}
	var calls []ToolCall
	for _, item := range r.Choice {
		if item.Type == ContentTypeToolCall && item.ToolCall != nil {
			calls = append(calls, *item.ToolCall)
		}
	}
	return calls
}

/*
	##### TOOL OUTCOME #####
*/

// ToolOutcome represents a standardized tool execution result.
// This structure provides consistent error handling and success reporting
// for tool executions, making it easier for LLMs to understand outcomes.
type ToolOutcome struct {
	Success bool            `json:"success"`           // Whether the tool executed successfully
	Error   string          `json:"error,omitempty"`   // Error type if success=false (e.g., "no_match", "invalid_arguments")
	Message string          `json:"message,omitempty"` // Human-readable message or error description
	Data    json.RawMessage `json:"data,omitempty"`    // Tool output if success=true
}

// NewToolOutcomeSuccess creates a successful outcome around a JSON-encoded tool output.
// Output that is not valid JSON is stored as a JSON string.
func NewToolOutcomeSuccess(output string) ToolOutcome {
	data := json.RawMessage(output)
	if !json.Valid(data) {
		quoted, _ := json.Marshal(output)
		data = quoted
	}
	return ToolOutcome{
		Success: true,
		Data:    data,
	}
}

// NewToolOutcomeError creates a failed outcome with error details.
// errorType should be a machine-readable error code (e.g., "no_match").
func NewToolOutcomeError(errorType, message string) ToolOutcome {
	return ToolOutcome{
		Success: false,
		Error:   errorType,
		Message: message,
	}
}

// ToJSON converts the ToolOutcome to a JSON string.
func (o ToolOutcome) ToJSON() (string, error) {
	bytes, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleUser      MessageRole = "user"      // End-user message, also carries tool results
	RoleAssistant MessageRole = "assistant" // LLM response
)
