// Package jsonschema provides utilities for generating and representing JSON Schema
// structures from Go types using reflection.
//
// The main entry point is [GenerateJSONSchema], which derives a [Schema] from any
// Go type T without requiring a runtime value. [Schema.Strict] produces the
// closed variant used to validate tool arguments.
package jsonschema
