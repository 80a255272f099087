package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
)

// Load reads and parses the CSV export at path.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return records, nil
}

// Parse reads every record from r. Any malformed row aborts the whole parse.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Column: ColumnDate, Reason: "missing header row"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	records := []Record{}
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		record, err := parseRow(row, fields, index)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// columnIndex maps each required column to its position in the header.
func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	index := make(map[string]int, len(RequiredColumns))
	for _, column := range RequiredColumns {
		pos, ok := positions[strings.ToLower(column)]
		if !ok {
			return nil, &SchemaError{Column: column, Reason: "missing required column"}
		}
		index[column] = pos
	}
	return index, nil
}

func parseRow(row int, fields []string, index map[string]int) (Record, error) {
	field := func(column string) string {
		return strings.TrimSpace(fields[index[column]])
	}

	date, err := ParseDate(field(ColumnDate))
	if err != nil {
		return Record{}, &SchemaError{Row: row, Column: ColumnDate, Value: field(ColumnDate), Reason: err.Error()}
	}

	clicks, err := parseCount(field(ColumnClicks))
	if err != nil {
		return Record{}, &SchemaError{Row: row, Column: ColumnClicks, Value: field(ColumnClicks), Reason: err.Error()}
	}

	impressions, err := parseCount(field(ColumnImpressions))
	if err != nil {
		return Record{}, &SchemaError{Row: row, Column: ColumnImpressions, Value: field(ColumnImpressions), Reason: err.Error()}
	}

	ctr, err := ParseRate(field(ColumnCTR))
	if err != nil {
		return Record{}, &SchemaError{Row: row, Column: ColumnCTR, Value: field(ColumnCTR), Reason: err.Error()}
	}

	return Record{
		Date:        date,
		Country:     countryKey(field(ColumnCountry)),
		Device:      deviceKey(field(ColumnDevice)),
		URL:         groupKey(field(ColumnURL)),
		Keyword:     field(ColumnKeyword),
		Clicks:      clicks,
		Impressions: impressions,
		CTR:         ctr,
	}, nil
}

// ParseDate parses a date in any of the common export layouts and truncates it to
// a UTC calendar date. Ambiguous slash dates are read month first.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date: %w", err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseRate parses a click-through rate given either as a fraction ("0.1") or as
// a percentage ("10%").
func ParseRate(value string) (float64, error) {
	percent := strings.HasSuffix(value, "%")
	if percent {
		value = strings.TrimSpace(strings.TrimSuffix(value, "%"))
	}

	rate, err := cast.ToFloat64E(value)
	if err != nil || value == "" {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return 0, errors.New("must be a non-negative number")
	}

	if percent {
		rate /= 100
	}
	return rate, nil
}

// parseCount accepts non-negative integers up to math.MaxInt64. Integral
// decimals such as "10.0" are accepted as well.
func parseCount(value string) (int64, error) {
	if value == "" {
		return 0, errors.New("not a number")
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if n < 0 {
			return 0, errors.New("must be a non-negative integer")
		}
		return n, nil
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, errors.New("not a number")
	}
	// 2^63 is the first float64 that no longer fits in an int64
	if f < 0 || f != math.Trunc(f) || f >= math.Exp2(63) {
		return 0, errors.New("must be a non-negative integer")
	}
	return int64(f), nil
}

func groupKey(value string) string {
	if value == "" {
		return NotSet
	}
	return value
}
