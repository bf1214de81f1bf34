// Package utils holds small helpers shared by the providers: [DoPostSync]
// for JSON round-trips over HTTP, [TruncateString] for log-safe payloads and
// [Ptr] for taking the address of a value.
package utils
