package airquality

import (
	"math"
	"time"
)

// SchemaVersion identifies the feature layout persisted alongside a trained
// model. Bump it whenever FeatureColumns changes.
const SchemaVersion = 1

// FeatureColumns is the single source of truth for feature identity and
// order. The dataset assembler emits columns in this order and the inference
// adapter assembles vectors in this order; training and serving must never
// maintain the ordering separately.
var FeatureColumns = []string{
	"pm25",           // today's PM2.5
	"pm25_lag_1",     // yesterday
	"pm25_lag_2",     // 2 days ago
	"pm25_lag_7",     // 1 week ago
	"pm25_rolling_3", // 3-day average
	"pm25_rolling_7", // 7-day average
	"day_of_week",    // 0=Monday, 6=Sunday (for tomorrow)
	"month",          // 1-12 (for tomorrow)
}

// TargetColumn is the supervised target: the next day's PM2.5.
const TargetColumn = "pm25_next_day"

// Unit is the concentration unit for all PM2.5 values in the system.
const Unit = "µg/m³"

// Measurement is a single raw pollutant reading as supplied by a source.
type Measurement struct {
	Timestamp time.Time // always UTC
	Value     float64
	Location  string
	Unit      string
}

// DailyRecord is the mean of one UTC calendar day's measurements,
// rounded to one decimal.
type DailyRecord struct {
	Date time.Time // midnight UTC
	PM25 float64
}

// PredictionResult is the serving-side response payload.
type PredictionResult struct {
	City          string  `json:"city"`
	PredictedPM25 float64 `json:"predicted_pm25"`
	AQICategory   string  `json:"aqi_category"`
	Unit          string  `json:"unit"`
}

// Round1 rounds to one decimal place, the precision used for every stored
// and served PM2.5 value.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
