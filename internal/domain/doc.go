// Package domain defines the core types shared across echopulse: emotion
// categories, analyzer verdicts, classification and combination results, and
// the flat record format consumed by storage and rendering.
package domain
