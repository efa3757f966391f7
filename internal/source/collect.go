package source

import (
	"context"
	"fmt"
	"log"

	"airqualitypredict/internal/airquality"
)

// Collector acquires raw measurements from a primary source and falls back
// to a synthetic generator when the primary yields nothing. Source
// unavailability is recovered here and never propagated as a hard failure of
// the offline pipeline.
type Collector struct {
	primary  Source // may be nil, forcing the fallback
	fallback Source
}

// NewCollector creates a Collector. A nil primary skips straight to the
// fallback, which is how sample-only collection runs.
func NewCollector(primary, fallback Source) *Collector {
	return &Collector{primary: primary, fallback: fallback}
}

// Collect runs the primary source and branches on its outcome: fetched data
// is returned as-is, while an empty or unavailable primary invokes the
// fallback exactly once. Only a failing fallback is an error.
func (c *Collector) Collect(ctx context.Context) ([]airquality.Measurement, Outcome, error) {
	res := c.fetchPrimary(ctx)
	switch res.Outcome {
	case OutcomeFetched:
		log.Printf("collector: %s returned %d measurements", c.primary.Name(), len(res.Measurements))
		return res.Measurements, OutcomeFetched, nil
	case OutcomeEmpty:
		if c.primary != nil {
			log.Printf("collector: %s returned no measurements; falling back to %s", c.primary.Name(), c.fallback.Name())
		}
	case OutcomeUnavailable:
		log.Printf("collector: %s unavailable (%v); falling back to %s", c.primary.Name(), res.Err, c.fallback.Name())
	}

	measurements, err := c.fallback.FetchMeasurements(ctx)
	if err != nil {
		return nil, OutcomeUnavailable, fmt.Errorf("fallback source %s: %w", c.fallback.Name(), err)
	}
	return measurements, OutcomeSynthetic, nil
}

func (c *Collector) fetchPrimary(ctx context.Context) FetchResult {
	if c.primary == nil {
		return FetchResult{Outcome: OutcomeEmpty}
	}
	measurements, err := c.primary.FetchMeasurements(ctx)
	if err != nil {
		return FetchResult{Outcome: OutcomeUnavailable, Err: err}
	}
	if len(measurements) == 0 {
		return FetchResult{Outcome: OutcomeEmpty}
	}
	return FetchResult{Measurements: measurements, Outcome: OutcomeFetched}
}
