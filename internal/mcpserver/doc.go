// Package mcpserver exposes a tool catalog as a Model Context Protocol server.
//
// Every registered tool becomes an MCP tool with the same name, description
// and parameter schema. Calls are dispatched through the catalog, so schema
// validation and argument repair behave exactly as they do for the agent.
// Tool failures are reported as MCP error results rather than protocol
// errors, letting the client model read and react to them.
package mcpserver
