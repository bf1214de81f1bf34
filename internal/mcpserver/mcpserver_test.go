package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/ragcalc/providers/tool"
	"github.com/leofalp/ragcalc/providers/tool/arithmetic"
)

type echoInput struct {
	Word string `json:"word" jsonschema:"description=Word to echo"`
}

func newCatalog(t *testing.T, extra ...tool.GenericTool) *tool.Catalog {
	t.Helper()
	catalog, err := tool.NewCatalog(append(arithmetic.Tools(), extra...)...)
	require.NoError(t, err)
	return catalog
}

func callRequest(name string, arguments map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Name = name
	request.Params.Arguments = arguments
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", result.Content[0])
	return text.Text
}

func TestToMCPTool(t *testing.T) {
	catalog := newCatalog(t)
	add, ok := catalog.Get("add")
	require.True(t, ok)

	converted := toMCPTool(add.ToolInfo())

	assert.Equal(t, "add", converted.Name)
	assert.Equal(t, "Add x and y together", converted.Description)
	assert.Equal(t, "object", converted.InputSchema.Type)
	assert.ElementsMatch(t, []string{"x", "y"}, converted.InputSchema.Required)
	require.Contains(t, converted.InputSchema.Properties, "x")
	x := converted.InputSchema.Properties["x"].(map[string]any)
	assert.Equal(t, "number", x["type"])
	assert.Equal(t, "The first number", x["description"])
}

func TestHandler_Success(t *testing.T) {
	h := handler(newCatalog(t), "divide")

	result, err := h(context.Background(), callRequest("divide", map[string]any{"x": 5, "y": 10}))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "0.5", resultText(t, result))
}

func TestHandler_DomainErrorIsToolError(t *testing.T) {
	h := handler(newCatalog(t), "divide")

	result, err := h(context.Background(), callRequest("divide", map[string]any{"x": 1, "y": 0}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "division by zero")
}

func TestHandler_InvalidArgumentsIsToolError(t *testing.T) {
	h := handler(newCatalog(t), "add")

	result, err := h(context.Background(), callRequest("add", map[string]any{"x": "one"}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandler_NoResultIsToolError(t *testing.T) {
	empty := tool.NewTool("find", func(context.Context, echoInput) (string, error) {
		return "", tool.ErrNoResult
	})
	h := handler(newCatalog(t, empty), "find")

	result, err := h(context.Background(), callRequest("find", map[string]any{"word": "zork"}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandler_UnexpectedErrorIsProtocolError(t *testing.T) {
	cause := errors.New("disk on fire")
	broken := tool.NewTool("broken", func(context.Context, echoInput) (string, error) {
		return "", cause
	})
	h := handler(newCatalog(t, broken), "broken")

	result, err := h(context.Background(), callRequest("broken", map[string]any{"word": "x"}))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, cause)
}

func TestNew_ListsCatalogTools(t *testing.T) {
	s := New(newCatalog(t), "test")

	response := s.HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`,
	))

	raw, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var names []string
	for _, listed := range decoded.Result.Tools {
		names = append(names, listed.Name)
	}
	assert.ElementsMatch(t, []string{"add", "subtract", "multiply", "divide"}, names)
}
