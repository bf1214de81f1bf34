package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned, inside a ModelCallError, when a response
	// carries neither text nor a tool call.
	ErrEmptyResponse = errors.New("model returned neither text nor a tool call")

	// ErrMaxIterations is returned when a turn needs more model calls than
	// the configured maximum.
	ErrMaxIterations = errors.New("maximum number of model calls reached")
)

// ModelCallError reports a failed request to the language model. It is
// fatal to the current turn and never retried by the agent; only an
// explicitly installed retry middleware repeats the underlying call.
type ModelCallError struct {
	Iteration int // 1-based model call within the turn
	Err       error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call %d: %v", e.Iteration, e.Err)
}

func (e *ModelCallError) Unwrap() error {
	return e.Err
}
