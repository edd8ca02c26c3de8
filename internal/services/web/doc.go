// Package web owns the browser-facing school search service.
//
// It composes the schools module with static assets, health checks and the
// shared middleware, and runs the HTTP server until its context ends.
package web
