package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"airqualitypredict/internal/airquality"
)

type stubSource struct {
	name         string
	measurements []airquality.Measurement
	err          error
	calls        int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchMeasurements(context.Context) ([]airquality.Measurement, error) {
	s.calls++
	return s.measurements, s.err
}

func someMeasurements(n int) []airquality.Measurement {
	out := make([]airquality.Measurement, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = airquality.Measurement{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Value:     float64(10 + i),
			Location:  "Centar",
			Unit:      airquality.Unit,
		}
	}
	return out
}

func TestCollectUsesPrimaryWhenItHasData(t *testing.T) {
	primary := &stubSource{name: "live", measurements: someMeasurements(3)}
	fallback := &stubSource{name: "synthetic", measurements: someMeasurements(99)}

	got, outcome, err := NewCollector(primary, fallback).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeFetched, outcome)
	require.Len(t, got, 3)
	require.Equal(t, 0, fallback.calls)
}

func TestCollectFallsBackOnEmptyPrimaryExactlyOnce(t *testing.T) {
	primary := &stubSource{name: "live"} // succeeds with zero records
	fallback := &stubSource{name: "synthetic", measurements: someMeasurements(5)}

	got, outcome, err := NewCollector(primary, fallback).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSynthetic, outcome)
	require.Len(t, got, 5)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, fallback.calls)
}

func TestCollectFallsBackOnUnavailablePrimary(t *testing.T) {
	primary := &stubSource{name: "live", err: errors.New("connection refused")}
	fallback := &stubSource{name: "synthetic", measurements: someMeasurements(5)}

	got, outcome, err := NewCollector(primary, fallback).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSynthetic, outcome)
	require.Len(t, got, 5)
	require.Equal(t, 1, fallback.calls)
}

func TestCollectNilPrimarySkipsToFallback(t *testing.T) {
	fallback := &stubSource{name: "synthetic", measurements: someMeasurements(2)}

	got, outcome, err := NewCollector(nil, fallback).Collect(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSynthetic, outcome)
	require.Len(t, got, 2)
}

func TestCollectFailingFallbackIsAnError(t *testing.T) {
	primary := &stubSource{name: "live"}
	fallback := &stubSource{name: "synthetic", err: errors.New("boom")}

	_, outcome, err := NewCollector(primary, fallback).Collect(context.Background())
	require.Error(t, err)
	require.Equal(t, OutcomeUnavailable, outcome)
}
