package model

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"airqualitypredict/internal/airquality"
)

func TestRidgeFitRecoversLinearRelation(t *testing.T) {
	// y = 3 + 2*x0 - 0.5*x1, no noise. With a negligible penalty the fit
	// should recover the coefficients almost exactly.
	rng := rand.New(rand.NewSource(7))
	var features [][]float64
	var targets []float64
	for i := 0; i < 50; i++ {
		x0 := rng.Float64() * 100
		x1 := rng.Float64() * 100
		features = append(features, []float64{x0, x1})
		targets = append(targets, 3+2*x0-0.5*x1)
	}

	r := &Ridge{Lambda: 1e-9}
	require.NoError(t, r.Fit(features, targets))

	require.InDelta(t, 3.0, r.Intercept, 1e-4)
	require.InDelta(t, 2.0, r.Coefficients[0], 1e-6)
	require.InDelta(t, -0.5, r.Coefficients[1], 1e-6)

	got, err := r.Predict([]float64{10, 20})
	require.NoError(t, err)
	require.InDelta(t, 3+20-10, got, 1e-4)
}

func TestRidgePredictBeforeFit(t *testing.T) {
	r := NewRidge(1.0)
	_, err := r.Predict([]float64{1, 2})
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestRidgeDimensionMismatch(t *testing.T) {
	r := &Ridge{Lambda: 1, Intercept: 0, Coefficients: []float64{1, 2}}
	_, err := r.Predict([]float64{1})
	require.ErrorIs(t, err, ErrDimension)

	err = r.Fit([][]float64{{1, 2}, {1}}, []float64{1, 2})
	require.ErrorIs(t, err, ErrDimension)
}

func TestRidgeFitRejectsEmptyInput(t *testing.T) {
	r := NewRidge(1.0)
	require.Error(t, r.Fit(nil, nil))
	require.Error(t, r.Fit([][]float64{{1}}, []float64{1, 2}))
}

// fitSchemaWideRidge fits a model with one coefficient per schema column,
// which is what Save/Load require.
func fitSchemaWideRidge(t *testing.T) *Ridge {
	t.Helper()
	p := len(airquality.FeatureColumns)
	rng := rand.New(rand.NewSource(11))

	var features [][]float64
	var targets []float64
	for i := 0; i < 60; i++ {
		row := make([]float64, p)
		y := 1.5
		for j := range row {
			row[j] = rng.Float64() * 50
			y += float64(j+1) * 0.1 * row[j]
		}
		features = append(features, row)
		targets = append(targets, y)
	}

	r := &Ridge{Lambda: 1e-6}
	require.NoError(t, r.Fit(features, targets))
	return r
}

func TestArtifactRoundTrip(t *testing.T) {
	r := fitSchemaWideRidge(t)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, Save(path, r))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.InDelta(t, r.Intercept, loaded.Intercept, 1e-12)
	require.Equal(t, r.Coefficients, loaded.Coefficients)

	vec := make([]float64, len(airquality.FeatureColumns))
	for j := range vec {
		vec[j] = float64(j)
	}
	want, err := r.Predict(vec)
	require.NoError(t, err)
	got, err := loaded.Predict(vec)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSaveRejectsUnfittedModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.ErrorIs(t, Save(path, NewRidge(1.0)), ErrNotFitted)
}

func TestLoadRejectsSchemaMismatch(t *testing.T) {
	// An artifact trained against a different column order must be refused.
	bad := `{
  "schema_version": 1,
  "feature_columns": ["pm25_lag_1", "pm25", "pm25_lag_2", "pm25_lag_7", "pm25_rolling_3", "pm25_rolling_7", "day_of_week", "month"],
  "intercept": 1,
  "coefficients": [1, 2, 3, 4, 5, 6, 7, 8],
  "lambda": 1
}`
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := Load(path)
	require.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestLoadRejectsCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err) || errors.Is(err, os.ErrNotExist))
}
