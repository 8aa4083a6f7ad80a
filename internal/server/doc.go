// Package server exposes the HTTP and WebSocket surface: classification and
// combination endpoints, speaker feedback and arc inspection, the live result
// feed, and the usual health and metrics plumbing.
package server
