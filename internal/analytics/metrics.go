package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"datapulse/internal/dataset"
)

// DailyTotals sums clicks, impressions and CTR per calendar date, oldest first.
// Normalized fields are left zero; see NormalizeDailyTotals.
func DailyTotals(ctx context.Context, db *gorm.DB) ([]DateStat, error) {
	var rawResults []struct {
		Day         string
		Clicks      int64
		Impressions int64
		CTR         float64 `gorm:"column:ctr"`
	}

	query := `
    SELECT
        day,
        SUM(clicks) as clicks,
        SUM(impressions) as impressions,
        SUM(ctr) as ctr
    FROM records
    GROUP BY day
    ORDER BY day ASC
    `

	err := db.WithContext(ctx).Raw(query).Scan(&rawResults).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching daily totals: %w", err)
	}

	results := make([]DateStat, len(rawResults))
	for i, r := range rawResults {
		date, err := time.Parse(dataset.DayLayout, r.Day)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored day %q: %w", r.Day, err)
		}
		results[i] = DateStat{
			Date:        date,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
			CTR:         r.CTR,
		}
	}

	return results, nil
}

// TopCountries returns the countries with the most clicks. Equal totals are
// ordered by country code.
func TopCountries(ctx context.Context, db *gorm.DB, limit int) ([]MetricCountResult, error) {
	results, err := topByClicks(ctx, db, "country", limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching top countries: %w", err)
	}
	return results, nil
}

// TopURLs returns the URLs with the most clicks. Equal totals are ordered by URL.
func TopURLs(ctx context.Context, db *gorm.DB, limit int) ([]MetricCountResult, error) {
	results, err := topByClicks(ctx, db, "url", limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching top URLs: %w", err)
	}
	return results, nil
}

// topByClicks groups records by column and ranks the groups by summed clicks.
// column must be a trusted identifier.
func topByClicks(ctx context.Context, db *gorm.DB, column string, limit int) ([]MetricCountResult, error) {
	var rawResults []struct {
		Name  string
		Count int64
	}

	query := fmt.Sprintf(`
    SELECT
        %[1]s as name,
        SUM(clicks) as count
    FROM records
    GROUP BY %[1]s
    ORDER BY count DESC, name ASC
    LIMIT ?
    `, column)

	err := db.WithContext(ctx).Raw(query, limit).Scan(&rawResults).Error
	if err != nil {
		return nil, err
	}

	results := make([]MetricCountResult, len(rawResults))
	for i, r := range rawResults {
		results[i] = MetricCountResult{Name: r.Name, Count: r.Count}
	}

	return results, nil
}

// DeviceTotals sums clicks, impressions and CTR per device category.
func DeviceTotals(ctx context.Context, db *gorm.DB) ([]DeviceStat, error) {
	var results []DeviceStat

	query := `
    SELECT
        device,
        SUM(clicks) as clicks,
        SUM(impressions) as impressions,
        SUM(ctr) as ctr
    FROM records
    GROUP BY device
    ORDER BY device ASC
    `

	err := db.WithContext(ctx).Raw(query).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching device totals: %w", err)
	}

	if results == nil {
		results = []DeviceStat{}
	}
	return results, nil
}

// KeywordCorpus joins every non-empty keyword, in source order, with a space.
func KeywordCorpus(ctx context.Context, db *gorm.DB) (string, error) {
	var keywords []string

	err := db.WithContext(ctx).
		Table("records").
		Where("keyword <> ''").
		Order("id ASC").
		Pluck("keyword", &keywords).Error
	if err != nil {
		return "", fmt.Errorf("error fetching keywords: %w", err)
	}

	return strings.Join(keywords, " "), nil
}

// DatasetTotals returns record count and overall click and impression sums.
func DatasetTotals(ctx context.Context, db *gorm.DB) (Totals, error) {
	var totals Totals

	query := `
    SELECT
        COUNT(*) as records,
        COALESCE(SUM(clicks), 0) as clicks,
        COALESCE(SUM(impressions), 0) as impressions
    FROM records
    `

	err := db.WithContext(ctx).Raw(query).Scan(&totals).Error
	if err != nil {
		return Totals{}, fmt.Errorf("error fetching dataset totals: %w", err)
	}

	return totals, nil
}
