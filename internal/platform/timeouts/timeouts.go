// Package timeouts defines the shared durations used by the web service and
// its outbound lookup calls.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Lookup caps a single call to the school lookup endpoint when no explicit
// timeout is configured.
const Lookup = 10 * time.Second

// BreakerCooldown is how long an open lookup breaker rejects calls before
// letting a trial request through.
const BreakerCooldown = 30 * time.Second
