// Package inference reconstructs, for one live observation, the exact
// feature vector shape the model was trained on, and produces a calibrated
// prediction from it.
package inference

import (
	"errors"
	"fmt"

	"airqualitypredict/internal/airquality"
	"airqualitypredict/internal/model"
)

// Observation is one caller-supplied description of "today": the current
// PM2.5, its lag values, its rolling averages, and the calendar attributes
// of the day being predicted (tomorrow). Every field is required: a request
// that omits one is invalid, never defaulted to zero. Pointer fields keep
// "absent" distinguishable from a legitimate 0. The caller is responsible
// for computing lag and rolling values the same way the offline pipeline
// does; the adapter assembles the vector but never recomputes history. That
// agreement is the train/serve consistency seam.
type Observation struct {
	PM25         *float64 `json:"pm25" validate:"required,gte=0"`
	PM25Lag1     *float64 `json:"pm25_lag_1" validate:"required,gte=0"`
	PM25Lag2     *float64 `json:"pm25_lag_2" validate:"required,gte=0"`
	PM25Lag7     *float64 `json:"pm25_lag_7" validate:"required,gte=0"`
	PM25Rolling3 *float64 `json:"pm25_rolling_3" validate:"required,gte=0"`
	PM25Rolling7 *float64 `json:"pm25_rolling_7" validate:"required,gte=0"`
	DayOfWeek    *int     `json:"day_of_week" validate:"required,gte=0,lte=6"`
	Month        *int     `json:"month" validate:"required,gte=1,lte=12"`
}

// Vector returns the observation's values in FeatureColumns order — the same
// order the dataset assembler emits, verified by the parity test against
// FeatureRow.Features. It must only be called on a validated observation:
// every field is set once validation has passed.
func (o Observation) Vector() []float64 {
	return []float64{
		*o.PM25,
		*o.PM25Lag1,
		*o.PM25Lag2,
		*o.PM25Lag7,
		*o.PM25Rolling3,
		*o.PM25Rolling7,
		float64(*o.DayOfWeek),
		float64(*o.Month),
	}
}

// ErrModelNotLoaded is returned by Predict when the context was constructed
// without a model; callers translate it to a service-unavailable response.
var ErrModelNotLoaded = errors.New("inference: model not loaded")

// Context owns the loaded model and the serving identity. It is constructed
// once at startup and injected into every handler; a Context without a model
// reports not-ready instead of crashing the process. The model is immutable
// after load and safe to share across concurrent requests.
type Context struct {
	city      string
	regressor model.Regressor
}

// NewContext builds a Context. A nil regressor yields a not-ready context.
func NewContext(city string, regressor model.Regressor) *Context {
	return &Context{city: city, regressor: regressor}
}

// Ready reports whether a model is loaded.
func (c *Context) Ready() bool { return c.regressor != nil }

// City returns the city this context serves forecasts for.
func (c *Context) City() string { return c.city }

// Predict assembles the feature vector in schema order, invokes the model,
// clamps the result to the non-negative floor (concentration cannot be
// negative) and rounds to one decimal.
func (c *Context) Predict(obs Observation) (airquality.PredictionResult, error) {
	if !c.Ready() {
		return airquality.PredictionResult{}, ErrModelNotLoaded
	}

	raw, err := c.regressor.Predict(obs.Vector())
	if err != nil {
		return airquality.PredictionResult{}, fmt.Errorf("inference: %w", err)
	}

	pm25 := raw
	if pm25 < 0 {
		pm25 = 0
	}
	pm25 = airquality.Round1(pm25)

	return airquality.PredictionResult{
		City:          c.city,
		PredictedPM25: pm25,
		AQICategory:   airquality.AQICategory(pm25),
		Unit:          airquality.Unit,
	}, nil
}
