package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"solar-risk/internal/model"
)

// ErrEmptyDataset is returned when a file parses but yields no usable rows.
var ErrEmptyDataset = errors.New("no usable rows in dataset")

// FormatError reports an unparsable input row.
type FormatError struct {
	Path  string
	Line  int
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: cannot parse %q: %v", e.Path, e.Line, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Date layouts seen in SSRD exports. Day-first forms come first because
// that's what the upstream CSVs use.
var dateLayouts = []string{
	"02/01/2006 15:04",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadSolarCSV loads a delimited SSRD file into a time-ordered reading slice.
//
// The file must carry a header with Date and SSRD columns (any order, case
// insensitive). The separator is auto-detected: tab first, then comma, the
// same probe order as the upstream exports expect.
func ReadSolarCSV(path string) ([]model.Reading, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, sep := range []rune{'\t', ','} {
		readings, err := parseReadings(path, string(raw), sep)
		if err == nil {
			return readings, nil
		}
		lastErr = err
		// A structural failure with one separator may just mean the
		// other one is in use; a FormatError on a data row is real.
		var fe *FormatError
		if errors.As(err, &fe) || errors.Is(err, ErrEmptyDataset) {
			return nil, err
		}
	}
	return nil, lastErr
}

func parseReadings(path, raw string, sep rune) ([]model.Reading, error) {
	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = sep
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	dateCol, valueCol, err := findColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	readings := make([]model.Reading, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) <= dateCol || len(row) <= valueCol {
			return nil, &FormatError{Path: path, Line: line, Value: strings.Join(row, string(sep)), Err: errors.New("missing columns")}
		}
		ts, err := parseDate(strings.TrimSpace(row[dateCol]))
		if err != nil {
			return nil, &FormatError{Path: path, Line: line, Value: row[dateCol], Err: err}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[valueCol]), 64)
		if err != nil {
			return nil, &FormatError{Path: path, Line: line, Value: row[valueCol], Err: err}
		}
		if v < 0 {
			return nil, &FormatError{Path: path, Line: line, Value: row[valueCol], Err: errors.New("negative irradiance")}
		}
		readings = append(readings, model.Reading{Timestamp: ts, Value: v})
	}
	if len(readings) == 0 {
		return nil, ErrEmptyDataset
	}

	sorted, err := model.SortReadings(readings)
	if err != nil {
		return nil, &FormatError{Path: path, Line: 0, Value: "", Err: err}
	}
	return sorted, nil
}

func findColumns(header []string) (dateCol, valueCol int, err error) {
	dateCol, valueCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "time", "timestamp":
			if dateCol < 0 {
				dateCol = i
			}
		case "ssrd", "generation", "value":
			if valueCol < 0 {
				valueCol = i
			}
		}
	}
	if dateCol < 0 || valueCol < 0 {
		return 0, 0, errors.New("header must contain Date and SSRD columns")
	}
	return dateCol, valueCol, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
