package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leofalp/ragcalc/internal/jsonschema"
	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/tool"
)

// Name is the server name announced during the MCP handshake.
const Name = "ragcalc"

// New returns an MCP server advertising every tool of catalog.
func New(catalog *tool.Catalog, version string) *server.MCPServer {
	s := server.NewMCPServer(Name, version, server.WithToolCapabilities(false))
	for _, description := range catalog.Descriptions() {
		s.AddTool(toMCPTool(description), handler(catalog, description.Name))
	}
	return s
}

// Serve runs s over stdin and stdout until ctx is done or the input closes.
func Serve(ctx context.Context, s *server.MCPServer) error {
	return ServeIO(ctx, s, os.Stdin, os.Stdout)
}

// ServeIO runs s over the given streams.
func ServeIO(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func toMCPTool(description ai.ToolDescription) mcp.Tool {
	input := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]any{},
	}
	if description.Parameters != nil {
		input.Properties = schemaProperties(description.Parameters)
		input.Required = description.Parameters.Required
	}
	return mcp.Tool{
		Name:        description.Name,
		Description: description.Description,
		InputSchema: input,
	}
}

// schemaProperties converts the property schemas into the loosely typed maps
// mcp-go serializes.
func schemaProperties(schema *jsonschema.Schema) map[string]any {
	properties := make(map[string]any, len(schema.Properties))
	for name, property := range schema.Properties {
		raw, err := json.Marshal(property)
		if err != nil {
			continue
		}
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			continue
		}
		properties[name] = decoded
	}
	return properties
}

func handler(catalog *tool.Catalog, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arguments, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode arguments: %v", err)), nil
		}

		output, err := catalog.Call(ctx, ai.ToolCall{Name: name, Arguments: string(arguments)})
		switch {
		case err == nil:
			return mcp.NewToolResultText(output), nil
		case errors.Is(err, tool.ErrNoResult):
			return mcp.NewToolResultError(err.Error()), nil
		default:
			var domainErr *tool.DomainError
			if errors.As(err, &domainErr) || errors.Is(err, tool.ErrUnknownTool) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, fmt.Errorf("call %s: %w", name, err)
		}
	}
}
