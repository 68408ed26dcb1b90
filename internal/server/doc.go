// Package server provides HTTP routing and middleware for the predictx web client.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
// [RequestLogger] logs each request with its status and duration through charmbracelet/log.
// [RateLimit] rejects requests beyond a token-bucket budget with 429 Too Many Requests.
package server
