package airquality

import (
	"sort"
	"time"
)

// AggregateDaily collapses raw measurements into one record per UTC calendar
// day: group by date, arithmetic mean, round to one decimal, sort ascending.
// Missing days are not imputed; a day with no measurements simply produces no
// record, and any lag or rolling window spanning it comes out undefined
// downstream. Empty input yields empty output, not an error.
func AggregateDaily(measurements []Measurement) []DailyRecord {
	if len(measurements) == 0 {
		return nil
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)

	for _, m := range measurements {
		ts := m.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		sums[day] += m.Value
		counts[day]++
	}

	records := make([]DailyRecord, 0, len(sums))
	for day, sum := range sums {
		records = append(records, DailyRecord{
			Date: day,
			PM25: Round1(sum / float64(counts[day])),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records
}
