package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/leofalp/ragcalc/providers/ai"
)

// defaultMaxTokens is sent when the request sets no output cap; Anthropic
// requires max_tokens on every call.
const defaultMaxTokens = 1024

// emptyObjectSchema is advertised for tools without parameters.
var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// requestToAnthropic converts an ai.ChatRequest to the Messages wire format.
// The system prompt and the rendered documents go to the top-level system
// field.
func requestToAnthropic(request ai.ChatRequest, model string) (anthropicRequest, error) {
	req := anthropicRequest{
		Model:     model,
		Messages:  buildMessages(request.Messages),
		System:    request.SystemInstruction(),
		MaxTokens: defaultMaxTokens,
	}

	if gc := request.GenerationConfig; gc != nil {
		req.Temperature = gc.Temperature
		if gc.MaxOutputTokens > 0 {
			req.MaxTokens = gc.MaxOutputTokens
		}
	}

	tools, err := buildTools(request.Tools)
	if err != nil {
		return anthropicRequest{}, err
	}
	req.Tools = tools

	return req, nil
}

// buildMessages converts the history into Anthropic messages.
//
// Anthropic requires strictly alternating user/assistant turns. Consecutive
// messages with the same role, such as a prompt left behind by a failed turn
// followed by a new prompt, are merged into one message.
func buildMessages(messages []ai.Message) []anthropicMessage {
	var result []anthropicMessage

	for _, msg := range messages {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "assistant"
		}

		var blocks []anthropicContentBlock
		for _, item := range msg.Content {
			switch item.Type {
			case ai.ContentTypeText:
				if item.Text != "" {
					blocks = append(blocks, anthropicContentBlock{Type: "text", Text: item.Text})
				}

			case ai.ContentTypeToolCall:
				if item.ToolCall == nil {
					continue
				}
				blocks = append(blocks, anthropicContentBlock{
					Type:  "tool_use",
					ID:    item.ToolCall.ID,
					Name:  item.ToolCall.Name,
					Input: argumentsToJSON(item.ToolCall.Arguments),
				})

			case ai.ContentTypeToolResult:
				if item.ToolResult == nil {
					continue
				}
				blocks = append(blocks, anthropicContentBlock{
					Type:      "tool_result",
					ToolUseID: item.ToolResult.ID,
					Content:   item.ToolResult.Payload,
					IsError:   isFailedOutcome(item.ToolResult.Payload),
				})
			}
		}
		if len(blocks) == 0 {
			continue
		}

		if last := len(result) - 1; last >= 0 && result[last].Role == role {
			result[last].Content = append(result[last].Content, blocks...)
			continue
		}
		result = append(result, anthropicMessage{Role: role, Content: blocks})
	}

	return result
}

// argumentsToJSON returns the arguments as a JSON object, or {} when they
// are empty or not valid JSON.
func argumentsToJSON(arguments string) json.RawMessage {
	if strings.TrimSpace(arguments) == "" || !json.Valid([]byte(arguments)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(arguments)
}

// isFailedOutcome reports whether payload is a tool outcome with success
// false. Payloads that are not outcomes count as successful.
func isFailedOutcome(payload string) bool {
	var outcome struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(payload), &outcome); err != nil || outcome.Success == nil {
		return false
	}
	return !*outcome.Success
}

// buildTools converts tool descriptions to Anthropic tool definitions.
func buildTools(tools []ai.ToolDescription) ([]anthropicTool, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	result := make([]anthropicTool, 0, len(tools))
	for _, t := range tools {
		schema := emptyObjectSchema
		if t.Parameters != nil {
			raw, err := json.Marshal(t.Parameters)
			if err != nil {
				return nil, err
			}
			schema = raw
		}
		result = append(result, anthropicTool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schema,
		})
	}
	return result, nil
}

// anthropicToGeneric converts a Messages API response to the
// provider-agnostic format. Text and tool_use blocks keep their order;
// unknown block types are skipped.
func anthropicToGeneric(response anthropicResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    responseIDOrFallback(response.ID),
		Model: response.Model,
	}

	hasToolCalls := false
	for _, block := range response.Content {
		switch block.Type {
		case "text":
			result.Choice = append(result.Choice, ai.NewTextItem(block.Text))

		case "tool_use":
			id := block.ID
			if id == "" {
				id = uuid.NewString()
			}
			arguments := "{}"
			if len(block.Input) > 0 {
				arguments = string(block.Input)
			}
			result.Choice = append(result.Choice, ai.NewToolCallItem(ai.ToolCall{
				ID:        id,
				Name:      block.Name,
				Arguments: arguments,
			}))
			hasToolCalls = true
		}
	}

	result.FinishReason = mapStopReason(response.StopReason)
	if hasToolCalls && result.FinishReason == "stop" {
		result.FinishReason = "tool_calls"
	}

	result.Usage = &ai.Usage{
		PromptTokens:     response.Usage.InputTokens,
		CompletionTokens: response.Usage.OutputTokens,
		TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
	}

	return result
}

// mapStopReason converts an Anthropic stop_reason value to the canonical
// finish_reason string used by ai.ChatResponse.
func mapStopReason(stopReason string) string {
	switch stopReason {
	case "end_turn", "stop_sequence":
		return "stop"
	case "tool_use":
		return "tool_calls"
	case "max_tokens":
		return "length"
	case "refusal":
		return "content_filter"
	default:
		return "stop"
	}
}

// responseIDOrFallback returns the response ID when present, or a generated
// one.
func responseIDOrFallback(id string) string {
	if id != "" {
		return id
	}
	return "anthropic-" + uuid.NewString()
}
