package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leofalp/ragcalc/core/parse"
	"github.com/leofalp/ragcalc/internal/jsonschema"
	"github.com/leofalp/ragcalc/providers/ai"
	"github.com/leofalp/ragcalc/providers/observability"
)

// Tool represents a typed, callable tool that can be advertised to a model.
// It binds a name and description to a strongly-typed Go function, and derives
// the JSON schema of its input (I) and output (O) via reflection.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)

	validator *validator
}

// GenericTool is the provider-agnostic interface for all tools. It hides the
// type parameters of [Tool] so tools can be stored and dispatched together.
type GenericTool interface {
	// ToolInfo returns the name, description and parameter schema used to
	// advertise this tool to a model.
	ToolInfo() ai.ToolDescription

	// Call invokes the tool with a JSON-encoded input string and returns a
	// JSON-encoded output string.
	Call(ctx context.Context, inputJSON string) (string, error)
}

type funcToolOptions struct {
	Description string
}

// WithDescription sets the description the model sees for the tool.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// NewTool constructs a [Tool] with the given name and handler function.
// It panics if I or O cannot be described as a JSON schema, which can only
// happen for types such as maps or channels and is a programming error.
//
// Example:
//
//	add := tool.NewTool("add", arithmetic.Add,
//	    tool.WithDescription("Add x and y together"),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	parameters, err := jsonschema.GenerateJSONSchema[I]()
	if err != nil {
		panic(fmt.Sprintf("tool %s: input schema: %v", name, err))
	}
	output, err := jsonschema.GenerateJSONSchema[O]()
	if err != nil {
		panic(fmt.Sprintf("tool %s: output schema: %v", name, err))
	}
	v, err := newValidator(parameters)
	if err != nil {
		panic(fmt.Sprintf("tool %s: %v", name, err))
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  parameters,
		Output:      output,
		Function:    function,
		validator:   v,
	}
}

// ToolInfo returns the [ai.ToolDescription] used to advertise this tool.
func (t *Tool[I, O]) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Call decodes inputJSON into I, runs the function and returns its output as
// JSON. Model-supplied arguments are repaired when slightly malformed, then
// validated against the strict parameter schema.
//
// Arguments that fail to decode or validate yield a *DomainError wrapping
// ErrInvalidArguments. A *DomainError returned by the function is passed
// through with its Tool field set; any other error is wrapped with the tool
// name.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, inputJSON),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd,
			observability.String(observability.AttrToolName, t.Name),
		)
	}

	start := time.Now()
	output, err := t.call(ctx, inputJSON)
	duration := time.Since(start)

	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, duration),
			)
		}
		return "", err
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, output),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}
	return output, nil
}

func (t *Tool[I, O]) call(ctx context.Context, inputJSON string) (string, error) {
	normalized, err := parse.NormalizeJSON(inputJSON)
	if err != nil {
		return "", &DomainError{Tool: t.Name, Err: fmt.Errorf("%w: %v", ErrInvalidArguments, err)}
	}
	if err := t.validator.validate(normalized); err != nil {
		return "", &DomainError{Tool: t.Name, Err: err}
	}

	input, err := parse.ParseStringAs[I](normalized)
	if err != nil {
		return "", &DomainError{Tool: t.Name, Err: fmt.Errorf("%w: %v", ErrInvalidArguments, err)}
	}

	output, err := t.Function(ctx, input)
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			if domainErr.Tool == "" {
				domainErr.Tool = t.Name
			}
			return "", domainErr
		}
		return "", fmt.Errorf("tool %s: %w", t.Name, err)
	}

	outputBytes, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("tool %s: encode output: %w", t.Name, err)
	}
	return string(outputBytes), nil
}
