package gemini

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/leofalp/ragcalc/providers/ai"
)

// requestToGemini converts an ai.ChatRequest to a Gemini generateContentRequest.
func requestToGemini(request ai.ChatRequest) generateContentRequest {
	req := generateContentRequest{
		Contents:         buildContents(request.Messages),
		GenerationConfig: buildGenerationConfig(request.GenerationConfig),
	}

	if instruction := request.SystemInstruction(); instruction != "" {
		req.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: instruction}},
		}
	}

	if len(request.Tools) > 0 {
		req.Tools = buildTools(request.Tools)
	}

	return req
}

// buildContents converts the history to Gemini contents.
// Role mapping: user -> user, assistant -> model. Tool results travel on the
// user role as functionResponse parts.
func buildContents(messages []ai.Message) []content {
	contents := make([]content, 0, len(messages))

	for _, msg := range messages {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}

		c := content{Role: role}
		for _, item := range msg.Content {
			switch item.Type {
			case ai.ContentTypeText:
				c.Parts = append(c.Parts, part{Text: item.Text})

			case ai.ContentTypeToolCall:
				if item.ToolCall == nil {
					continue
				}
				c.Parts = append(c.Parts, part{
					FunctionCall: &functionCall{
						ID:   item.ToolCall.ID,
						Name: item.ToolCall.Name,
						Args: argumentsToJSON(item.ToolCall.Arguments),
					},
				})

			case ai.ContentTypeToolResult:
				if item.ToolResult == nil {
					continue
				}
				c.Parts = append(c.Parts, part{
					FunctionResponse: &functionResponse{
						ID:       item.ToolResult.ID,
						Name:     item.ToolResult.Name,
						Response: wrapResult(item.ToolResult.Payload),
					},
				})
			}
		}

		if len(c.Parts) > 0 {
			contents = append(contents, c)
		}
	}

	return contents
}

// argumentsToJSON returns args as raw JSON, or an empty object when args is
// empty or not valid JSON.
func argumentsToJSON(args string) json.RawMessage {
	if args == "" || !json.Valid([]byte(args)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(args)
}

// wrapResult places payload under "result". Gemini requires the function
// response to be a JSON object.
func wrapResult(payload string) json.RawMessage {
	var value any = payload
	if json.Valid([]byte(payload)) {
		value = json.RawMessage(payload)
	}
	wrapped, err := json.Marshal(map[string]any{"result": value})
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return wrapped
}

// buildGenerationConfig converts ai.GenerationConfig. The temperature is sent
// whenever it is set, including an explicit zero.
func buildGenerationConfig(cfg *ai.GenerationConfig) *generationConfig {
	if cfg == nil {
		return nil
	}

	gc := &generationConfig{Temperature: cfg.Temperature}
	if cfg.MaxOutputTokens > 0 {
		tokens := cfg.MaxOutputTokens
		gc.MaxOutputTokens = &tokens
	}
	return gc
}

// buildTools converts tool descriptions to a single Gemini tool holding all
// function declarations.
func buildTools(aiTools []ai.ToolDescription) []tool {
	declarations := make([]functionDeclaration, 0, len(aiTools))
	for _, t := range aiTools {
		fd := functionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.Parameters != nil {
			if params, err := json.Marshal(t.Parameters); err == nil {
				fd.Parameters = params
			}
		}
		declarations = append(declarations, fd)
	}
	return []tool{{FunctionDeclarations: declarations}}
}

// geminiToGeneric converts a Gemini generateContentResponse to ai.ChatResponse.
// Parts keep their order. Calls without an id get a fresh one so the result
// can be matched to them.
func geminiToGeneric(resp generateContentResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ResponseID,
		Model: resp.ModelVersion,
	}
	if result.Id == "" {
		result.Id = "gemini-" + uuid.NewString()
	}

	if resp.UsageMetadata != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		result.FinishReason = "error"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			result.FinishReason = "content_filter"
		}
		return result
	}

	candidate := resp.Candidates[0]
	result.FinishReason = mapFinishReason(candidate.FinishReason)

	if candidate.Content == nil {
		return result
	}

	for _, p := range candidate.Content.Parts {
		switch {
		case p.FunctionCall != nil:
			id := p.FunctionCall.ID
			if id == "" {
				id = uuid.NewString()
			}
			args := string(p.FunctionCall.Args)
			if args == "" || args == "null" {
				args = "{}"
			}
			result.Choice = append(result.Choice, ai.NewToolCallItem(ai.ToolCall{
				ID:        id,
				Name:      p.FunctionCall.Name,
				Arguments: args,
			}))
		case p.Text != "" && !p.Thought:
			result.Choice = append(result.Choice, ai.NewTextItem(p.Text))
		}
	}

	if len(result.ToolCalls()) > 0 && result.FinishReason == "stop" {
		result.FinishReason = "tool_calls"
	}

	return result
}

// mapFinishReason converts Gemini finish reason to ai.ChatResponse finish reason.
func mapFinishReason(geminiReason string) string {
	switch geminiReason {
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return "content_filter"
	default:
		return "stop"
	}
}
