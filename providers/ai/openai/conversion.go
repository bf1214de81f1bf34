package openai

import (
	"math"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/leofalp/ragcalc/providers/ai"
)

// requestToOpenAI converts an ai.ChatRequest to a chat completion request.
func requestToOpenAI(request ai.ChatRequest) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{
		Model:    request.Model,
		Messages: buildMessages(request),
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil {
			req.Temperature = temperature(*cfg.Temperature)
		}
		if cfg.MaxOutputTokens > 0 {
			req.MaxCompletionTokens = cfg.MaxOutputTokens
		}
	}

	for _, t := range request.Tools {
		definition := &goopenai.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.Parameters != nil {
			definition.Parameters = t.Parameters
		}
		req.Tools = append(req.Tools, goopenai.Tool{
			Type:     goopenai.ToolTypeFunction,
			Function: definition,
		})
	}

	return req
}

// temperature maps t to the float32 field of go-openai. The field is
// omitted when zero, so an explicit zero is sent as the smallest positive
// float32 instead.
func temperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// buildMessages converts the history. Assistant tool calls become tool_calls
// entries and tool results become tool-role messages.
func buildMessages(request ai.ChatRequest) []goopenai.ChatCompletionMessage {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(request.Messages)+1)

	if instruction := request.SystemInstruction(); instruction != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: instruction,
		})
	}

	for _, msg := range request.Messages {
		switch msg.Role {
		case ai.RoleAssistant:
			out := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleAssistant}
			for _, item := range msg.Content {
				if item.Type == ai.ContentTypeToolCall && item.ToolCall != nil {
					out.ToolCalls = append(out.ToolCalls, goopenai.ToolCall{
						ID:   item.ToolCall.ID,
						Type: goopenai.ToolTypeFunction,
						Function: goopenai.FunctionCall{
							Name:      item.ToolCall.Name,
							Arguments: item.ToolCall.Arguments,
						},
					})
				}
			}
			out.Content = msg.Text()
			messages = append(messages, out)

		default:
			var text []ai.ContentItem
			for _, item := range msg.Content {
				if item.Type == ai.ContentTypeToolResult && item.ToolResult != nil {
					messages = append(messages, goopenai.ChatCompletionMessage{
						Role:       goopenai.ChatMessageRoleTool,
						Content:    item.ToolResult.Payload,
						Name:       item.ToolResult.Name,
						ToolCallID: item.ToolResult.ID,
					})
					continue
				}
				text = append(text, item)
			}
			if len(text) > 0 {
				messages = append(messages, goopenai.ChatCompletionMessage{
					Role:    goopenai.ChatMessageRoleUser,
					Content: ai.Message{Role: ai.RoleUser, Content: text}.Text(),
				})
			}
		}
	}

	return messages
}

// responseToGeneric converts the first choice of resp. Its text, if any,
// precedes its tool calls.
func responseToGeneric(resp goopenai.ChatCompletionResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ID,
		Model: resp.Model,
		Usage: &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if len(resp.Choices) == 0 {
		result.FinishReason = "error"
		return result
	}

	choice := resp.Choices[0]
	result.FinishReason = string(choice.FinishReason)

	if choice.Message.Content != "" {
		result.Choice = append(result.Choice, ai.NewTextItem(choice.Message.Content))
	}
	for _, call := range choice.Message.ToolCalls {
		arguments := call.Function.Arguments
		if arguments == "" {
			arguments = "{}"
		}
		result.Choice = append(result.Choice, ai.NewToolCallItem(ai.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: arguments,
		}))
	}

	return result
}
