// Package config loads and validates process configuration from the
// environment. Every tunable has a default suitable for local development;
// only malformed values are errors, never absent ones.
package config
