package domain

import "errors"

var (
	// ErrNoSources is returned when a combination is requested with neither
	// analyzer verdict present. Callers must supply at least one verdict.
	ErrNoSources = errors.New("no analyzer verdicts to combine")

	// ErrUnknownStrategy is returned for an unrecognized combination strategy name.
	ErrUnknownStrategy = errors.New("unknown combination strategy")

	// ErrUnknownCategory is returned when input names a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown emotion category")

	// ErrSpeakerNotFound is returned when a speaker has no recorded state.
	ErrSpeakerNotFound = errors.New("speaker not found")
)
