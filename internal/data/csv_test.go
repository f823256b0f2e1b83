package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadSolarCSV_Comma(t *testing.T) {
	path := writeTemp(t, "ssrd.csv",
		"Date,SSRD\n"+
			"2020-01-01 10:00:00,1800000\n"+
			"2020-01-01 11:00:00,2400000\n")

	readings, err := ReadSolarCSV(path)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	require.Equal(t, time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC), readings[0].Timestamp)
	require.Equal(t, 1800000.0, readings[0].Value)
}

func TestReadSolarCSV_TabSeparatedDayFirst(t *testing.T) {
	path := writeTemp(t, "ssrd.tsv",
		"Date\tSSRD\n"+
			"02/01/2020 10:00\t1000\n"+
			"02/01/2020 11:00\t2000\n")

	readings, err := ReadSolarCSV(path)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	// Day-first: 2 January, not 1 February.
	require.Equal(t, time.January, readings[0].Timestamp.Month())
	require.Equal(t, 2, readings[0].Timestamp.Day())
}

func TestReadSolarCSV_SortsOutOfOrderRows(t *testing.T) {
	path := writeTemp(t, "ssrd.csv",
		"Date,SSRD\n"+
			"2020-01-01 11:00:00,2\n"+
			"2020-01-01 10:00:00,1\n")

	readings, err := ReadSolarCSV(path)
	require.NoError(t, err)
	require.True(t, readings[0].Timestamp.Before(readings[1].Timestamp))
}

func TestReadSolarCSV_DuplicateTimestamp(t *testing.T) {
	path := writeTemp(t, "ssrd.csv",
		"Date,SSRD\n"+
			"2020-01-01 10:00:00,1\n"+
			"2020-01-01 10:00:00,2\n")

	_, err := ReadSolarCSV(path)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestReadSolarCSV_BadValue(t *testing.T) {
	path := writeTemp(t, "ssrd.csv",
		"Date,SSRD\n"+
			"2020-01-01 10:00:00,not-a-number\n")

	_, err := ReadSolarCSV(path)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 2, fe.Line)
	require.Equal(t, "not-a-number", fe.Value)
}

func TestReadSolarCSV_NegativeValue(t *testing.T) {
	path := writeTemp(t, "ssrd.csv",
		"Date,SSRD\n"+
			"2020-01-01 10:00:00,-5\n")

	_, err := ReadSolarCSV(path)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestReadSolarCSV_HeaderOnly(t *testing.T) {
	path := writeTemp(t, "ssrd.csv", "Date,SSRD\n")

	_, err := ReadSolarCSV(path)
	require.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestReadSolarCSV_MissingColumns(t *testing.T) {
	path := writeTemp(t, "other.csv", "foo,bar\n1,2\n")

	_, err := ReadSolarCSV(path)
	require.Error(t, err)
}

func TestDatasetCache_ReusesParsedFile(t *testing.T) {
	path := writeTemp(t, "ssrd.csv",
		"Date,SSRD\n"+
			"2020-01-01 10:00:00,1\n")

	cache := NewDatasetCache()
	first, err := cache.Load(path)
	require.NoError(t, err)
	second, err := cache.Load(path)
	require.NoError(t, err)
	require.Equal(t, &first[0], &second[0]) // same backing array, no re-parse
}
