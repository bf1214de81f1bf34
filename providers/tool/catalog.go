package tool

import (
	"context"
	"fmt"

	"github.com/leofalp/ragcalc/providers/ai"
)

// Catalog is the immutable registry of the tools offered to a model. Names
// are matched exactly. A nil *Catalog is an empty catalog.
type Catalog struct {
	order []GenericTool
	tools map[string]GenericTool
}

// NewCatalog builds a catalog from tools, keeping their order for
// [Catalog.Descriptions]. Empty and duplicate names are rejected.
func NewCatalog(tools ...GenericTool) (*Catalog, error) {
	catalog := &Catalog{
		order: make([]GenericTool, 0, len(tools)),
		tools: make(map[string]GenericTool, len(tools)),
	}
	for _, t := range tools {
		if t == nil {
			return nil, fmt.Errorf("nil tool")
		}
		name := t.ToolInfo().Name
		if name == "" {
			return nil, fmt.Errorf("tool with empty name")
		}
		if _, exists := catalog.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		catalog.tools[name] = t
		catalog.order = append(catalog.order, t)
	}
	return catalog, nil
}

// Get retrieves a tool by name.
func (c *Catalog) Get(name string) (GenericTool, bool) {
	if c == nil {
		return nil, false
	}
	t, exists := c.tools[name]
	return t, exists
}

// Has checks if a tool with the given name exists.
func (c *Catalog) Has(name string) bool {
	_, exists := c.Get(name)
	return exists
}

// Size returns the number of tools in the catalog.
func (c *Catalog) Size() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Names returns the tool names in registration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.order))
	for i, t := range c.order {
		names[i] = t.ToolInfo().Name
	}
	return names
}

// Descriptions returns the descriptor of every tool in registration order.
func (c *Catalog) Descriptions() []ai.ToolDescription {
	if c == nil {
		return nil
	}
	descriptions := make([]ai.ToolDescription, len(c.order))
	for i, t := range c.order {
		descriptions[i] = t.ToolInfo()
	}
	return descriptions
}

// Call dispatches call to the tool it names. An unregistered name yields an
// *UnknownToolError.
func (c *Catalog) Call(ctx context.Context, call ai.ToolCall) (string, error) {
	t, ok := c.Get(call.Name)
	if !ok {
		return "", &UnknownToolError{Name: call.Name}
	}
	return t.Call(ctx, call.Arguments)
}
