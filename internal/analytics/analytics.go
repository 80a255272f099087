// Package analytics computes the aggregate views shown on the dashboard.
//
// The package is organized into focused modules:
//   - analytics.go: Aggregate view types
//   - metrics.go: Grouped and top-N queries over the records table
//   - normalize.go: Min-max scaling of the daily trend
//   - build.go: One-shot construction of the immutable Aggregates
package analytics

import (
	"time"
)

// Ranking limits for the top-N views.
const (
	TopCountriesLimit = 5
	TopURLsLimit      = 10
)

// MetricCountResult represents a generic key-count pair for query results
type MetricCountResult struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DateStat is one row of the daily trend. Raw sums are kept next to their
// min-max normalized values.
type DateStat struct {
	Date                  time.Time `json:"date"`
	Clicks                int64     `json:"clicks"`
	Impressions           int64     `json:"impressions"`
	CTR                   float64   `json:"ctr"`
	NormalizedClicks      float64   `json:"normalized_clicks"`
	NormalizedImpressions float64   `json:"normalized_impressions"`
	NormalizedCTR         float64   `json:"normalized_ctr"`
}

// DeviceStat holds per-device sums.
type DeviceStat struct {
	Device      string  `json:"device"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr" gorm:"column:ctr"`
}

// Totals summarizes the whole dataset.
type Totals struct {
	Records     int64 `json:"records"`
	Clicks      int64 `json:"clicks"`
	Impressions int64 `json:"impressions"`
}

// Aggregates is the read-only result of data preparation. It is built once by
// Build and shared by pointer; nothing mutates it afterwards.
type Aggregates struct {
	ByDate        []DateStat          `json:"by_date"`
	TopCountries  []MetricCountResult `json:"top_countries"`
	ByDevice      []DeviceStat        `json:"by_device"`
	TopURLs       []MetricCountResult `json:"top_urls"`
	KeywordCorpus string              `json:"-"`
	Totals        Totals              `json:"totals"`
	LoadedAt      time.Time           `json:"loaded_at"`
}
