// Package classify implements the heuristic emotion classification engine.
//
// A static library of weighted linguistic patterns is matched against
// normalized utterance text; matches are aggregated into per-category scores
// with ambivalence detection, priority overrides, sentiment gating, speaker
// calibration, and narrative-arc bonuses; the winning category is reported
// with a confidence value and a human-readable explanation.
package classify
