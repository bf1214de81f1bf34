package index

import (
	"errors"
	"fmt"

	"github.com/leofalp/ragcalc/providers/tool"
)

var (
	// ErrNoMatch is returned by the lookup tool when the index holds no
	// document. It wraps tool.ErrNoResult, so the agent reports it back to
	// the model instead of failing the turn.
	ErrNoMatch = fmt.Errorf("no matching document: %w", tool.ErrNoResult)

	// ErrIndexUnavailable is returned by every query on an index that was
	// never built.
	ErrIndexUnavailable = errors.New("semantic index unavailable")

	// ErrDimensionMismatch is returned when vectors of different lengths
	// would be compared or stored together.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDocumentCountMismatch is returned when a batcher yields a number of
	// vectors different from the number of documents it was given.
	ErrDocumentCountMismatch = errors.New("document count mismatch")
)
