// Package tool provides the types for defining and executing tools that a
// language model can invoke.
//
// A [Tool] wraps a typed Go function together with its name, description and
// reflected JSON schemas. Arguments coming from the model are repaired with
// jsonrepair, validated with gojsonschema against the strict parameter schema
// and decoded before the function runs.
//
// The [Catalog] is the fixed registry handed to the agent. Errors follow a
// small taxonomy: [UnknownToolError] for unregistered names, [DomainError]
// for invalid or out-of-domain arguments, and [ErrNoResult] for calls that
// legitimately found nothing.
package tool
