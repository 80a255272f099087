package presentation

import (
	"errors"

	"datapulse/internal/analytics"
	"datapulse/internal/keywords"
)

// URL table column headers.
var urlTableColumns = []string{"URL", "Clicks"}

// TableRow is one line of the URL table.
type TableRow struct {
	URL    string
	Clicks int64
}

// Table is a literal tabular rendering of an aggregate view.
type Table struct {
	Title   string
	Columns []string
	Rows    []TableRow
}

// Dashboard holds every descriptor placed on the page.
type Dashboard struct {
	Layout    Layout
	Trend     Figure
	WordCloud Figure
	Country   Figure
	Device    Figure
	URLTable  Table
	Words     []keywords.WordCount
}

// Build creates the four figures and the URL table from the aggregates.
func Build(layout Layout, aggregates *analytics.Aggregates) (*Dashboard, error) {
	if aggregates == nil {
		return nil, errors.New("aggregates are required")
	}

	words := keywords.Frequencies(aggregates.KeywordCorpus, keywords.Options{})

	trend, err := newFigure(TrendChartID, layout.Trend, NewTrendChart(layout.Trend, aggregates.ByDate))
	if err != nil {
		return nil, err
	}

	cloud, err := newFigure(WordCloudChartID, layout.WordCloud, NewWordCloud(layout.WordCloud, words))
	if err != nil {
		return nil, err
	}

	country, err := newFigure(CountryChartID, layout.Country, NewCountryChart(layout.Country, aggregates.TopCountries))
	if err != nil {
		return nil, err
	}

	device, err := newFigure(DeviceChartID, layout.Device, NewDeviceChart(layout.Device, aggregates.ByDevice))
	if err != nil {
		return nil, err
	}

	rows := make([]TableRow, len(aggregates.TopURLs))
	for i, u := range aggregates.TopURLs {
		rows[i] = TableRow{URL: u.Name, Clicks: u.Count}
	}

	return &Dashboard{
		Layout:    layout,
		Trend:     trend,
		WordCloud: cloud,
		Country:   country,
		Device:    device,
		URLTable: Table{
			Title:   layout.URLTable.Title,
			Columns: urlTableColumns,
			Rows:    rows,
		},
		Words: words,
	}, nil
}
