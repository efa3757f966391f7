package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"airqualitypredict/internal/airquality"
)

// Artifact is the on-disk form of a trained model. The feature columns are
// stored alongside the weights so a loader can refuse an artifact trained
// against a different schema; silently serving such a model would be a
// train/serve skew bug with no visible symptom.
type Artifact struct {
	SchemaVersion  int       `json:"schema_version"`
	FeatureColumns []string  `json:"feature_columns"`
	Intercept      float64   `json:"intercept"`
	Coefficients   []float64 `json:"coefficients"`
	Lambda         float64   `json:"lambda"`
	TrainedAt      time.Time `json:"trained_at"`
}

// ErrSchemaMismatch is returned when an artifact's feature schema does not
// match the one this build was compiled with.
var ErrSchemaMismatch = errors.New("model: artifact feature schema mismatch")

// Save persists a fitted Ridge to path, tagged with the current schema.
func Save(path string, r *Ridge) error {
	if len(r.Coefficients) == 0 {
		return ErrNotFitted
	}

	art := Artifact{
		SchemaVersion:  airquality.SchemaVersion,
		FeatureColumns: airquality.FeatureColumns,
		Intercept:      r.Intercept,
		Coefficients:   r.Coefficients,
		Lambda:         r.Lambda,
		TrainedAt:      time.Now().UTC(),
	}

	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads an artifact and verifies it against the compiled-in feature
// schema before handing the model to the caller.
func Load(path string) (*Ridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("model: corrupt artifact %s: %w", path, err)
	}

	if art.SchemaVersion != airquality.SchemaVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrSchemaMismatch, art.SchemaVersion, airquality.SchemaVersion)
	}
	if len(art.FeatureColumns) != len(airquality.FeatureColumns) {
		return nil, fmt.Errorf("%w: %d columns, want %d", ErrSchemaMismatch, len(art.FeatureColumns), len(airquality.FeatureColumns))
	}
	for i, name := range art.FeatureColumns {
		if name != airquality.FeatureColumns[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, name, airquality.FeatureColumns[i])
		}
	}
	if len(art.Coefficients) != len(art.FeatureColumns) {
		return nil, fmt.Errorf("%w: %d coefficients for %d columns", ErrSchemaMismatch, len(art.Coefficients), len(art.FeatureColumns))
	}

	return &Ridge{
		Lambda:       art.Lambda,
		Intercept:    art.Intercept,
		Coefficients: art.Coefficients,
	}, nil
}
