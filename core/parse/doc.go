// Package parse provides utilities for decoding structured data produced by a
// language model. Tool arguments arrive as JSON text that is often slightly
// malformed, so this package repairs it with jsonrepair and unwraps
// schema-style envelopes before decoding.
//
// [NormalizeJSON] returns canonical JSON text; [ParseStringAs] decodes it into
// any Go type.
package parse
