// Package redis wraps the go-redis client with connection lifecycle helpers
// and hooks for metrics and circuit breaker protection. All Redis access in
// echopulse goes through a client constructed here so every command is
// observed and protected uniformly.
package redis
