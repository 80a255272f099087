package presentation

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"datapulse/internal/analytics"
	"datapulse/internal/dataset"
	"datapulse/internal/keywords"
)

// Element ids of the dashboard figures.
const (
	TrendChartID     = "trend-chart"
	WordCloudChartID = "wordcloud-chart"
	CountryChartID   = "country-chart"
	DeviceChartID    = "device-chart"
)

const defaultChartHeight = 450

// chart is the part of a go-echarts chart a Figure is built from.
type chart interface {
	Validate()
	JSON() map[string]interface{}
}

// Figure is a chart ready to be placed on the page: its element id, size and
// serialized ECharts option object.
type Figure struct {
	ID      string
	Width   string
	Height  string
	Options template.JS
}

func newFigure(id string, o ChartOptions, c chart) (Figure, error) {
	c.Validate()
	data, err := json.Marshal(c.JSON())
	if err != nil {
		return Figure{}, fmt.Errorf("failed to serialize %s options: %w", id, err)
	}

	width := "100%"
	if o.Width > 0 {
		width = fmt.Sprintf("%dpx", o.Width)
	}
	height := defaultChartHeight
	if o.Height > 0 {
		height = o.Height
	}

	return Figure{
		ID:      id,
		Width:   width,
		Height:  fmt.Sprintf("%dpx", height),
		Options: template.JS(data),
	}, nil
}

func initOpts(id string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{ChartID: id})
}

func axisOpts(o ChartOptions) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: o.XAxisName, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: o.YAxisName, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	}
}

// NewTrendChart plots normalized clicks, impressions and CTR per day as three
// lines. The legend toggles each series.
func NewTrendChart(o ChartOptions, stats []analytics.DateStat) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append([]charts.GlobalOpts{initOpts(TrendChartID)}, axisOpts(o)...)...)

	dates := make([]string, len(stats))
	clicks := make([]opts.LineData, len(stats))
	impressions := make([]opts.LineData, len(stats))
	ctr := make([]opts.LineData, len(stats))
	for i, s := range stats {
		dates[i] = s.Date.Format(dataset.DayLayout)
		clicks[i] = opts.LineData{Value: s.NormalizedClicks}
		impressions[i] = opts.LineData{Value: s.NormalizedImpressions}
		ctr[i] = opts.LineData{Value: s.NormalizedCTR}
	}

	line.SetXAxis(dates).
		AddSeries("Clicks", clicks).
		AddSeries("Impressions", impressions).
		AddSeries("CTR", ctr)
	return line
}

// NewCountryChart draws one bar per country sized by summed clicks.
func NewCountryChart(o ChartOptions, countries []analytics.MetricCountResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append([]charts.GlobalOpts{initOpts(CountryChartID)}, axisOpts(o)...)...)

	labeler := newCountryLabeler()
	names := make([]string, len(countries))
	clicks := make([]opts.BarData, len(countries))
	for i, c := range countries {
		names[i] = labeler.Label(c.Name)
		clicks[i] = opts.BarData{Name: names[i], Value: c.Count}
	}

	bar.SetXAxis(names).AddSeries("Clicks", clicks)
	return bar
}

// NewDeviceChart draws clicks, impressions and CTR per device, grouped side by
// side or stacked depending on the bar mode.
func NewDeviceChart(o ChartOptions, devices []analytics.DeviceStat) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append([]charts.GlobalOpts{initOpts(DeviceChartID)}, axisOpts(o)...)...)

	names := make([]string, len(devices))
	clicks := make([]opts.BarData, len(devices))
	impressions := make([]opts.BarData, len(devices))
	ctr := make([]opts.BarData, len(devices))
	for i, d := range devices {
		names[i] = deviceLabel(d.Device)
		clicks[i] = opts.BarData{Value: d.Clicks}
		impressions[i] = opts.BarData{Value: d.Impressions}
		ctr[i] = opts.BarData{Value: d.CTR}
	}

	var seriesOpts []charts.SeriesOpts
	if o.BarMode == BarModeStack {
		seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: "device"}))
	}

	bar.SetXAxis(names).
		AddSeries("Clicks", clicks, seriesOpts...).
		AddSeries("Impressions", impressions, seriesOpts...).
		AddSeries("Click Through Rate", ctr, seriesOpts...)
	return bar
}

// NewWordCloud sizes each keyword by its frequency. An empty word list renders
// an empty cloud with an explanatory subtitle.
func NewWordCloud(o ChartOptions, words []keywords.WordCount) *charts.WordCloud {
	wc := charts.NewWordCloud()

	title := opts.Title{Title: o.Title}
	if len(words) == 0 {
		title.Subtitle = "No keyword data"
	}
	wc.SetGlobalOptions(
		initOpts(WordCloudChartID),
		charts.WithTitleOpts(title),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	data := make([]opts.WordCloudData, len(words))
	for i, w := range words {
		data[i] = opts.WordCloudData{Name: w.Word, Value: w.Count}
	}

	wc.AddSeries("Keywords", data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
		Shape:     "circle",
		SizeRange: []float32{12, 72},
	}))
	return wc
}
