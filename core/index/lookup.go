package index

import (
	"context"
	"encoding/json"

	"github.com/leofalp/ragcalc/providers/tool"
)

// LookupName is the name the lookup tool is registered under.
const LookupName = "lookup"

// LookupInput is the single argument of the lookup tool.
type LookupInput struct {
	Lookup string `json:"lookup" jsonschema:"description=The query to lookup"`
}

// LookupTool exposes the index as a tool returning the payload of the best
// match. An empty index yields ErrNoMatch; a nil index yields
// ErrIndexUnavailable.
func (idx *Index) LookupTool() *tool.Tool[LookupInput, json.RawMessage] {
	return tool.NewTool(LookupName, idx.lookup,
		tool.WithDescription("Looks up real and fictional concepts and returns the result, which may contain its definition and possibly other information related to it."),
	)
}

func (idx *Index) lookup(ctx context.Context, in LookupInput) (json.RawMessage, error) {
	matches, err := idx.TopN(ctx, in.Lookup, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoMatch
	}
	return matches[0].Payload, nil
}
