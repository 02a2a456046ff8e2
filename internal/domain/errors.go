package domain

import "errors"

var (
	// ErrInsufficientData marks a SKU or cursor that lacks the minimum
	// history a forecaster needs. Recovered locally: the unit is skipped,
	// never surfaced as a run failure.
	ErrInsufficientData = errors.New("insufficient history")

	// ErrAlignment marks forecast series of mismatched length or dates
	// handed to the combiner. This is a contract violation between
	// forecaster variants and is surfaced to the batch caller.
	ErrAlignment = errors.New("forecast series misaligned")
)
