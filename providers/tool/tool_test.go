package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leofalp/ragcalc/providers/observability"
)

// testSpan records event names and attributes for assertions.
type testSpan struct {
	events     []string
	attributes []observability.Attribute
	errs       []error
}

func (s *testSpan) End() {}

func (s *testSpan) SetAttributes(attrs ...observability.Attribute) {
	s.attributes = append(s.attributes, attrs...)
}

func (s *testSpan) SetStatus(code observability.StatusCode, description string) {}

func (s *testSpan) RecordError(err error) {
	s.errs = append(s.errs, err)
}

func (s *testSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.events = append(s.events, name)
}

type pairInput struct {
	X float64 `json:"x" jsonschema:"description=The first number"`
	Y float64 `json:"y" jsonschema:"description=The second number"`
}

func sumHandler(_ context.Context, in pairInput) (float64, error) {
	return in.X + in.Y, nil
}

func TestNewTool_Info(t *testing.T) {
	sum := NewTool("sum", sumHandler, WithDescription("Add x and y together"))

	info := sum.ToolInfo()
	if info.Name != "sum" || info.Description != "Add x and y together" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Parameters == nil || info.Parameters.Type != "object" {
		t.Fatalf("expected object parameters, got %v", info.Parameters)
	}
	if len(info.Parameters.Required) != 2 {
		t.Errorf("expected x and y required, got %v", info.Parameters.Required)
	}
	if info.Parameters.Properties["x"].Description != "The first number" {
		t.Errorf("expected property description, got %+v", info.Parameters.Properties["x"])
	}
	// the advertised schema stays permissive, strictness is for validation only
	if info.Parameters.AdditionalProperties != nil {
		t.Errorf("expected no additionalProperties in advertised schema, got %v", info.Parameters.AdditionalProperties)
	}
}

func TestCall_Success(t *testing.T) {
	sum := NewTool("sum", sumHandler)

	out, err := sum.Call(context.Background(), `{"x": 1.5, "y": 2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3.5" {
		t.Errorf("expected 3.5, got %q", out)
	}
}

func TestCall_RepairsArguments(t *testing.T) {
	sum := NewTool("sum", sumHandler)

	out, err := sum.Call(context.Background(), `{x: 5, 'y': 2,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7" {
		t.Errorf("expected 7, got %q", out)
	}
}

func TestCall_InvalidArguments(t *testing.T) {
	sum := NewTool("sum", sumHandler)

	tests := []struct {
		name string
		args string
	}{
		{"missing field", `{"x": 1}`},
		{"extra field", `{"x": 1, "y": 2, "z": 3}`},
		{"non numeric", `{"x": "one", "y": 2}`},
		{"not an object", `[1, 2]`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sum.Call(context.Background(), tt.args)
			var domainErr *DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("expected *DomainError, got %T (%v)", err, err)
			}
			if domainErr.Tool != "sum" {
				t.Errorf("expected tool name sum, got %q", domainErr.Tool)
			}
			if !errors.Is(err, ErrInvalidArguments) {
				t.Errorf("expected ErrInvalidArguments, got %v", err)
			}
		})
	}
}

func TestCall_HandlerErrors(t *testing.T) {
	errZero := errors.New("division by zero")

	t.Run("domain error gets tool name", func(t *testing.T) {
		div := NewTool("divide", func(_ context.Context, in pairInput) (float64, error) {
			return 0, &DomainError{Err: errZero}
		})
		_, err := div.Call(context.Background(), `{"x": 1, "y": 0}`)

		var domainErr *DomainError
		if !errors.As(err, &domainErr) || domainErr.Tool != "divide" {
			t.Fatalf("expected DomainError for divide, got %v", err)
		}
		if !errors.Is(err, errZero) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
		if err.Error() != "tool divide: division by zero" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("no result stays matchable", func(t *testing.T) {
		lookup := NewTool("lookup", func(_ context.Context, in pairInput) (string, error) {
			return "", ErrNoResult
		})
		_, err := lookup.Call(context.Background(), `{"x": 1, "y": 0}`)

		if !errors.Is(err, ErrNoResult) {
			t.Fatalf("expected ErrNoResult, got %v", err)
		}
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			t.Error("ErrNoResult must not become a DomainError")
		}
	})
}

func TestCall_WithSpan(t *testing.T) {
	span := &testSpan{}
	ctx := observability.ContextWithSpan(context.Background(), span)

	if _, err := NewTool("sum", sumHandler).Call(ctx, `{"x": 1, "y": 2}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(span.events) != 2 || span.events[0] != observability.EventToolExecutionStart || span.events[1] != observability.EventToolExecutionEnd {
		t.Errorf("unexpected events: %v", span.events)
	}

	var sawOutput bool
	for _, attr := range span.attributes {
		if attr.Key == observability.AttrToolOutput && attr.Value == "3" {
			sawOutput = true
		}
	}
	if !sawOutput {
		t.Errorf("expected tool output attribute, got %v", span.attributes)
	}

	span = &testSpan{}
	ctx = observability.ContextWithSpan(context.Background(), span)
	if _, err := NewTool("sum", sumHandler).Call(ctx, `{}`); err == nil {
		t.Fatal("expected error")
	}
	if len(span.errs) != 1 || !strings.Contains(span.errs[0].Error(), "invalid arguments") {
		t.Errorf("expected recorded error, got %v", span.errs)
	}
}

func TestUnknownToolError(t *testing.T) {
	err := error(&UnknownToolError{Name: "sqrt"})
	if !errors.Is(err, ErrUnknownTool) {
		t.Error("expected errors.Is(err, ErrUnknownTool)")
	}
	if err.Error() != `unknown tool "sqrt"` {
		t.Errorf("unexpected message %q", err.Error())
	}
}
