package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"airqualitypredict/internal/airquality"
)

var rawHeader = []string{"datetime", "value", "location", "unit"}

// WriteRaw writes raw measurements to the interchange CSV:
// datetime,value,location,unit with RFC3339 timestamps.
func WriteRaw(path string, measurements []airquality.Measurement) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if len(measurements) == 0 {
		return os.WriteFile(path, []byte(strings.Join(rawHeader, ",")+"\n"), 0o644)
	}

	records := make([][]string, 0, len(measurements)+1)
	records = append(records, rawHeader)
	for _, m := range measurements {
		records = append(records, []string{
			m.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(m.Value, 'f', -1, 64),
			m.Location,
			m.Unit,
		})
	}

	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false))
	if df.Error() != nil {
		return fmt.Errorf("building raw frame: %w", df.Error())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return df.WriteCSV(f)
}

// ReadRaw loads a raw measurement CSV written by WriteRaw.
func ReadRaw(path string) ([]airquality.Measurement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// WriteRaw emits a header-only file for an empty collection; gota cannot
	// represent a zero-row frame, so short-circuit before handing it one.
	if strings.TrimSpace(string(data)) == strings.Join(rawHeader, ",") {
		return nil, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.DetectTypes(false))
	if df.Error() != nil {
		return nil, fmt.Errorf("reading raw data %s: %w", path, df.Error())
	}

	names := df.Names()
	if len(names) != len(rawHeader) {
		return nil, fmt.Errorf("raw data %s has %d columns, want %d", path, len(names), len(rawHeader))
	}
	for i, name := range names {
		if name != rawHeader[i] {
			return nil, fmt.Errorf("raw data %s column %d is %q, want %q", path, i, name, rawHeader[i])
		}
	}

	var measurements []airquality.Measurement
	for _, record := range df.Records()[1:] {
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("raw data %s datetime: %w", path, err)
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("raw data %s value: %w", path, err)
		}
		measurements = append(measurements, airquality.Measurement{
			Timestamp: ts.UTC(),
			Value:     value,
			Location:  record[2],
			Unit:      record[3],
		})
	}
	return measurements, nil
}
