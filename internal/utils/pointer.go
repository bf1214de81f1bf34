package utils

// Ptr returns a pointer to v.
//
//	cfg := ai.GenerationConfig{Temperature: utils.Ptr(0.0)}
func Ptr[T any](v T) *T {
	return &v
}
