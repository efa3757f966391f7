package airquality

import "time"

// Dataset is the assembled supervised table: one entry per complete sample,
// features in FeatureColumns order, targets aligned by index. Dates are kept
// when known (they are not part of the on-disk format) so the chronological
// split can be verified against them.
type Dataset struct {
	Dates    []time.Time
	Features [][]float64
	Targets  []float64
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Targets) }

// Assemble drops every row with an undefined feature or target and emits the
// remainder in chronological order. For a gapless series this removes exactly
// the first seven rows (lag and rolling history) and the last row (no next
// day to predict), and no others.
func Assemble(rows []FeatureRow) *Dataset {
	ds := &Dataset{}
	for _, row := range rows {
		if !row.Complete() {
			continue
		}
		ds.Dates = append(ds.Dates, row.Date)
		ds.Features = append(ds.Features, row.Features())
		ds.Targets = append(ds.Targets, row.NextDayPM25)
	}
	return ds
}

// SplitChronological partitions the dataset at floor(N*(1-testFraction)):
// rows before the boundary train, rows from it onward test, original order
// preserved in both. Randomized splitting is deliberately absent: row order
// encodes time order, and shuffling would leak future rows into training.
func (d *Dataset) SplitChronological(testFraction float64) (train, test *Dataset) {
	idx := int(float64(d.Len()) * (1 - testFraction))
	if idx < 0 {
		idx = 0
	}
	if idx > d.Len() {
		idx = d.Len()
	}

	train = &Dataset{Features: d.Features[:idx], Targets: d.Targets[:idx]}
	test = &Dataset{Features: d.Features[idx:], Targets: d.Targets[idx:]}
	if len(d.Dates) == d.Len() {
		train.Dates = d.Dates[:idx]
		test.Dates = d.Dates[idx:]
	}
	return train, test
}
