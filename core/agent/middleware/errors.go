package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every attempt
// failed. It is wrapped together with the last provider error.
var ErrRetryExhausted = errors.New("ragcalc: all retry attempts exhausted")
