// Package dataset loads search-console CSV exports into typed records.
package dataset

import (
	"fmt"
	"time"
)

// Column names expected in the header of a search-console export.
const (
	ColumnDate        = "Date"
	ColumnCountry     = "Country"
	ColumnDevice      = "Device"
	ColumnURL         = "URL"
	ColumnKeyword     = "Keyword"
	ColumnClicks      = "Clicks"
	ColumnImpressions = "Impressions"
	ColumnCTR         = "CTR"
)

// RequiredColumns lists every column a valid export must carry.
var RequiredColumns = []string{
	ColumnDate,
	ColumnCountry,
	ColumnDevice,
	ColumnURL,
	ColumnKeyword,
	ColumnClicks,
	ColumnImpressions,
	ColumnCTR,
}

// NotSet replaces empty grouping values so every record belongs to a group.
const NotSet = "(not set)"

// DayLayout is the canonical calendar-date format used for grouping.
const DayLayout = "2006-01-02"

// Record is one row of the source table.
type Record struct {
	Date        time.Time
	Country     string
	Device      string
	URL         string
	Keyword     string
	Clicks      int64
	Impressions int64
	CTR         float64
}

// Day returns the record's calendar date formatted with DayLayout.
func (r Record) Day() string {
	return r.Date.Format(DayLayout)
}

// SchemaError reports an input that does not match the expected export schema.
// Row is the 1-based data row (header excluded); zero means the header.
type SchemaError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error: row %d, column %q, value %q: %s", e.Row, e.Column, e.Value, e.Reason)
}
