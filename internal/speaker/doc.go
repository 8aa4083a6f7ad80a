// Package speaker owns all per-speaker mutable state: calibration
// multipliers adjusted by feedback and the append-only narrative arc log.
//
// The in-memory implementation serves single-instance deployments; the Redis
// implementation enables horizontal scaling. Both serialize read-modify-write
// access per speaker; cross-speaker operations never coordinate.
package speaker
