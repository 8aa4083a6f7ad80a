// Package websocket maintains the live result feed. A single hub goroutine
// owns all client state and processes registrations, disconnects, and
// broadcasts through a command channel, so no locks are needed. Each client
// gets a dedicated writer goroutine with a bounded send buffer; clients that
// cannot keep up are evicted rather than allowed to stall the feed.
package websocket
