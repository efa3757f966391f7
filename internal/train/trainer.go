// Package train fits the regressor and reports accuracy and overfitting
// diagnostics. Everything here is advisory output, not control flow: a bad
// metric is logged, never turned into a pipeline failure.
package train

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"airqualitypredict/internal/airquality"
	"airqualitypredict/internal/model"
)

// Metrics holds the evaluation numbers for one data partition. R2 is NaN
// when the partition's targets have zero variance.
type Metrics struct {
	RMSE float64
	MAE  float64
	R2   float64
}

// Importance scores one feature's contribution to the fitted model.
type Importance struct {
	Feature string
	Score   float64
}

// Report is the outcome of one training run.
type Report struct {
	Train       Metrics
	Test        Metrics
	R2Gap       float64
	Overfit     bool
	Importances []Importance
}

// Trainer fits a regressor on the train partition and evaluates it on both
// partitions, comparing train against test R² to flag overfitting.
type Trainer struct {
	regressor      *model.Ridge
	r2GapThreshold float64
}

func New(regressor *model.Ridge, r2GapThreshold float64) *Trainer {
	return &Trainer{regressor: regressor, r2GapThreshold: r2GapThreshold}
}

// Run fits and evaluates. Fit and predict failures are errors; degenerate
// metrics are reported in the Report and logged, not swallowed.
func (t *Trainer) Run(trainSet, testSet *airquality.Dataset) (*Report, error) {
	if err := t.regressor.Fit(trainSet.Features, trainSet.Targets); err != nil {
		return nil, err
	}

	rep := &Report{}
	var err error
	if rep.Train, err = t.evaluate(trainSet); err != nil {
		return nil, fmt.Errorf("evaluating train partition: %w", err)
	}
	if rep.Test, err = t.evaluate(testSet); err != nil {
		return nil, fmt.Errorf("evaluating test partition: %w", err)
	}

	rep.R2Gap = rep.Train.R2 - rep.Test.R2
	rep.Overfit = !math.IsNaN(rep.R2Gap) && rep.R2Gap > t.r2GapThreshold
	rep.Importances = t.importances(trainSet)
	return rep, nil
}

func (t *Trainer) evaluate(ds *airquality.Dataset) (Metrics, error) {
	if ds.Len() == 0 {
		return Metrics{}, fmt.Errorf("no samples to evaluate")
	}

	predicted := make([]float64, ds.Len())
	for i, features := range ds.Features {
		p, err := t.regressor.Predict(features)
		if err != nil {
			return Metrics{}, err
		}
		predicted[i] = p
	}
	return computeMetrics(ds.Targets, predicted), nil
}

func computeMetrics(actual, predicted []float64) Metrics {
	var m Metrics
	var sqSum, absSum float64
	for i := range actual {
		d := predicted[i] - actual[i]
		sqSum += d * d
		absSum += math.Abs(d)
	}
	n := float64(len(actual))
	m.RMSE = math.Sqrt(sqSum / n)
	m.MAE = absSum / n

	meanY := stat.Mean(actual, nil)
	var ssTot float64
	for _, y := range actual {
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		m.R2 = math.NaN()
	} else {
		m.R2 = 1 - sqSum/ssTot
	}
	return m
}

// importances scores features by |coefficient| scaled by the feature's
// standard deviation over the train partition, normalized to sum to one.
// Scale-aware scoring keeps the calendar columns comparable with the
// pollutant columns.
func (t *Trainer) importances(trainSet *airquality.Dataset) []Importance {
	p := len(t.regressor.Coefficients)
	raw := make([]float64, p)
	var total float64

	col := make([]float64, trainSet.Len())
	for j := 0; j < p; j++ {
		for i := range trainSet.Features {
			col[i] = trainSet.Features[i][j]
		}
		raw[j] = math.Abs(t.regressor.Coefficients[j]) * stat.StdDev(col, nil)
		total += raw[j]
	}

	out := make([]Importance, p)
	for j := 0; j < p; j++ {
		score := 0.0
		if total > 0 {
			score = raw[j] / total
		}
		out[j] = Importance{Feature: airquality.FeatureColumns[j], Score: score}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Log prints the evaluation table, the overfitting verdict and the feature
// importance bars.
func (r *Report) Log() {
	log.Printf("%-8s %10s %10s", "metric", "train", "test")
	log.Printf("%-8s %10.2f %10.2f", "RMSE", r.Train.RMSE, r.Test.RMSE)
	log.Printf("%-8s %10.2f %10.2f", "MAE", r.Train.MAE, r.Test.MAE)
	log.Printf("%-8s %10.3f %10.3f", "R2", r.Train.R2, r.Test.R2)

	switch {
	case math.IsNaN(r.R2Gap):
		log.Printf("WARN: R2 undefined on a partition (zero target variance)")
	case r.Overfit:
		log.Printf("WARN: possible overfitting (R2 gap: %.3f)", r.R2Gap)
	default:
		log.Printf("train/test R2 gap: %.3f", r.R2Gap)
	}

	log.Printf("feature importance:")
	for _, imp := range r.Importances {
		bar := strings.Repeat("#", int(imp.Score*50))
		log.Printf("  %-18s %.3f %s", imp.Feature, imp.Score, bar)
	}
}
