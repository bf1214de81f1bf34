// Package middleware provides model-call middlewares for [agent.Agent].
// Each constructor returns an [agent.Middleware] ready to be passed to
// [agent.WithMiddleware].
//
//   - [NewRetryMiddleware] retries transient provider failures (HTTP 429 and
//     5xx) with exponential backoff and jitter. It is opt-in: a zero
//     MaxRetries passes calls straight through.
//   - [NewTimeoutMiddleware] bounds every model call with a deadline.
//   - [NewLoggingMiddleware] logs each call and its outcome through slog at
//     three verbosity levels.
//
// Middlewares execute outermost-first:
//
//	a, err := agent.New(provider,
//	    agent.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 2}),
//	        middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
//	    ),
//	)
//
// A request travels Timeout → Retry → Logging → Provider, so the deadline
// covers every retry and each attempt is logged.
package middleware
