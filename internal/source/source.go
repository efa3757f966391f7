package source

import (
	"context"

	"airqualitypredict/internal/airquality"
)

// Source abstracts a raw measurement supplier: a live API client or a
// synthetic generator. Both yield the same tabular shape.
type Source interface {
	Name() string
	FetchMeasurements(ctx context.Context) ([]airquality.Measurement, error)
}

// Outcome describes how a collection run obtained (or failed to obtain) its
// data. Empty and unavailable are ordinary outcomes, not faults: the
// collector branches on them instead of catching errors.
type Outcome string

const (
	// OutcomeFetched means the primary source returned data.
	OutcomeFetched Outcome = "fetched"
	// OutcomeEmpty means the primary source succeeded but returned nothing.
	OutcomeEmpty Outcome = "empty"
	// OutcomeUnavailable means the primary source failed.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeSynthetic means the fallback generator supplied the data.
	OutcomeSynthetic Outcome = "synthetic"
)

// FetchResult pairs a primary fetch's measurements with how the fetch ended.
// Err is set only for OutcomeUnavailable.
type FetchResult struct {
	Measurements []airquality.Measurement
	Outcome      Outcome
	Err          error
}
