// Package combine reconciles two independently produced sentiment verdicts
// into a single result under a selectable strategy. It never invents emotion
// categories: the output category always comes from one of the inputs.
package combine
