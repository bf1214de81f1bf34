package tool

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTool is matched by every UnknownToolError.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments marks arguments that fail to parse or do not
	// match the tool's parameter schema.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrNoResult marks a tool that ran correctly but had nothing to return.
	// It is a normal outcome and is reported back to the model.
	ErrNoResult = errors.New("no result")
)

// UnknownToolError is returned when a call names a tool that is not in the
// catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// Is makes errors.Is(err, ErrUnknownTool) hold.
func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// DomainError reports arguments that are malformed or outside the domain of
// the tool, such as a division by zero.
type DomainError struct {
	Tool string
	Err  error
}

func (e *DomainError) Error() string {
	if e.Tool == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
