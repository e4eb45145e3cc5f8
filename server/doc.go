// Package server hosts the HTTP side of a cascade node: a Gin engine behind
// an h2c handler, the standard middleware stack, and the /health and
// /version endpoints. The cascade endpoint itself is mounted by the caller
// with Mount.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - Tracing: W3C trace context extraction and a server span per request
//   - RequestLogger: request logging with duration
//   - BodySizeLimit: request body size cap
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /version: build information
package server
