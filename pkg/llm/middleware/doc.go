// Package middleware provides llm.Middleware implementations: per-call
// timeouts, retries with exponential backoff, empty-response validation,
// structured logging and Prometheus metrics.
package middleware
