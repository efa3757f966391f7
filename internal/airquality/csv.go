package airquality

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// WriteDataset writes the processed dataset file: one row per sample, columns
// exactly FeatureColumns followed by TargetColumn.
func WriteDataset(path string, ds *Dataset) error {
	header := append(append([]string{}, FeatureColumns...), TargetColumn)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// A too-short series assembles to zero samples; that is an empty file
	// with a header, not an error.
	if ds.Len() == 0 {
		return os.WriteFile(path, []byte(strings.Join(header, ",")+"\n"), 0o644)
	}

	records := make([][]string, 0, ds.Len()+1)
	records = append(records, header)

	for i := 0; i < ds.Len(); i++ {
		row := make([]string, 0, len(header))
		for _, v := range ds.Features[i] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, strconv.FormatFloat(ds.Targets[i], 'f', -1, 64))
		records = append(records, row)
	}

	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false))
	if df.Error() != nil {
		return fmt.Errorf("building dataset frame: %w", df.Error())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return df.WriteCSV(f)
}

// ReadDataset loads a processed dataset file and verifies its column layout
// against the feature schema before parsing any values.
func ReadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	want := append(append([]string{}, FeatureColumns...), TargetColumn)

	// WriteDataset emits a header-only file for an empty dataset; gota cannot
	// represent a zero-row frame, so short-circuit before handing it one.
	if strings.TrimSpace(string(data)) == strings.Join(want, ",") {
		return &Dataset{}, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data), dataframe.DetectTypes(false))
	if df.Error() != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, df.Error())
	}

	names := df.Names()
	if len(names) != len(want) {
		return nil, fmt.Errorf("dataset %s has %d columns, want %d", path, len(names), len(want))
	}
	for i, name := range names {
		if name != want[i] {
			return nil, fmt.Errorf("dataset %s column %d is %q, want %q", path, i, name, want[i])
		}
	}

	ds := &Dataset{}
	for _, record := range df.Records()[1:] {
		features := make([]float64, len(FeatureColumns))
		for j := range FeatureColumns {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s column %s: %w", path, want[j], err)
			}
			features[j] = v
		}
		target, err := strconv.ParseFloat(record[len(record)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("dataset %s column %s: %w", path, TargetColumn, err)
		}
		ds.Features = append(ds.Features, features)
		ds.Targets = append(ds.Targets, target)
	}
	return ds, nil
}
