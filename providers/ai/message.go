package ai

import (
	"fmt"
	"strings"
)

// NewTextItem returns a text content item.
func NewTextItem(text string) ContentItem {
	return ContentItem{Type: ContentTypeText, Text: text}
}

// NewToolCallItem returns a content item carrying call.
func NewToolCallItem(call ToolCall) ContentItem {
	return ContentItem{Type: ContentTypeToolCall, ToolCall: &call}
}

// NewToolResultItem returns a content item carrying result.
func NewToolResultItem(result ToolResult) ContentItem {
	return ContentItem{Type: ContentTypeToolResult, ToolResult: &result}
}

// NewUserMessage builds a user message holding a single text item.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentItem{NewTextItem(text)}}
}

// NewAssistantText builds an assistant message holding a single text item.
func NewAssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentItem{NewTextItem(text)}}
}

// NewAssistantToolCall builds an assistant message holding only call.
func NewAssistantToolCall(call ToolCall) Message {
	return Message{Role: RoleAssistant, Content: []ContentItem{NewToolCallItem(call)}}
}

// NewToolResultMessage builds the user-role message that returns a tool
// result to the model. It holds nothing but the result.
func NewToolResultMessage(result ToolResult) Message {
	return Message{Role: RoleUser, Content: []ContentItem{NewToolResultItem(result)}}
}

// Text concatenates the text items of the message.
func (m Message) Text() string {
	var parts []string
	for _, item := range m.Content {
		if item.Type == ContentTypeText {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// RenderDocuments formats documents as an attachments block that can be
// appended to a prompt. It returns "" when there are no documents.
func RenderDocuments(documents []Document) string {
	if len(documents) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<attachments>\n")
	for _, doc := range documents {
		fmt.Fprintf(&b, "<file id: %s>\n%s\n</file>\n", doc.ID, doc.Text)
	}
	b.WriteString("</attachments>")
	return b.String()
}

// SystemInstruction merges the system prompt with the rendered documents of
// the request. Providers use it so injected context reaches every model the
// same way, regardless of where tool results sit in the history.
func (r ChatRequest) SystemInstruction() string {
	attachments := RenderDocuments(r.Documents)
	switch {
	case attachments == "":
		return r.SystemPrompt
	case r.SystemPrompt == "":
		return attachments
	default:
		return r.SystemPrompt + "\n\n" + attachments
	}
}
