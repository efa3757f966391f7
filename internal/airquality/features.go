package airquality

import (
	"math"
	"time"
)

// FeatureRow holds the derived features and the target for one daily record.
// Values lacking sufficient history (or, for the target, a following row)
// are NaN; the dataset assembler drops such rows.
type FeatureRow struct {
	Date time.Time

	PM25     float64
	Lag1     float64
	Lag2     float64
	Lag7     float64
	Rolling3 float64
	Rolling7 float64

	// Calendar attributes of the day being predicted (Date + 1 day),
	// not of Date itself. Monday=0..Sunday=6; month 1-12.
	DayOfWeek float64
	Month     float64

	NextDayPM25 float64 // target
}

// BuildFeatures derives lag, rolling-average and calendar features from an
// ascending daily series. Lags and windows are positional: "2 back" means two
// rows back in the series, not two calendar days back, so a calendar gap
// shifts what a lag refers to rather than producing an undefined value.
// Purely windowed arithmetic over a sorted sequence; deterministic.
func BuildFeatures(daily []DailyRecord) []FeatureRow {
	rows := make([]FeatureRow, len(daily))
	for i, rec := range daily {
		row := FeatureRow{
			Date:     rec.Date,
			PM25:     rec.PM25,
			Lag1:     lag(daily, i, 1),
			Lag2:     lag(daily, i, 2),
			Lag7:     lag(daily, i, 7),
			Rolling3: rolling(daily, i, 3),
			Rolling7: rolling(daily, i, 7),
		}

		tomorrow := rec.Date.AddDate(0, 0, 1)
		row.DayOfWeek = float64(mondayIndexed(tomorrow.Weekday()))
		row.Month = float64(tomorrow.Month())

		if i+1 < len(daily) {
			row.NextDayPM25 = daily[i+1].PM25
		} else {
			row.NextDayPM25 = math.NaN()
		}

		rows[i] = row
	}
	return rows
}

func lag(daily []DailyRecord, i, k int) float64 {
	if i-k < 0 {
		return math.NaN()
	}
	return daily[i-k].PM25
}

func rolling(daily []DailyRecord, i, w int) float64 {
	if i-w+1 < 0 {
		return math.NaN()
	}
	var sum float64
	for j := i - w + 1; j <= i; j++ {
		sum += daily[j].PM25
	}
	return Round1(sum / float64(w))
}

// mondayIndexed converts Go's Sunday=0 weekday to the 0=Monday..6=Sunday
// convention used throughout the pipeline.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Features returns the row's feature values in FeatureColumns order.
func (r FeatureRow) Features() []float64 {
	return []float64{
		r.PM25,
		r.Lag1,
		r.Lag2,
		r.Lag7,
		r.Rolling3,
		r.Rolling7,
		r.DayOfWeek,
		r.Month,
	}
}

// Complete reports whether every feature and the target are defined.
func (r FeatureRow) Complete() bool {
	for _, v := range r.Features() {
		if math.IsNaN(v) {
			return false
		}
	}
	return !math.IsNaN(r.NextDayPM25)
}
