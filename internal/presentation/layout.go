// Package presentation turns the aggregate views into chart and table
// descriptors for the dashboard page.
package presentation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"datapulse/web"
)

// Theme names the colour theme the charts are initialized with.
type Theme string

// Recognized themes
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// BarMode controls how multi-series bar charts are laid out.
type BarMode string

// Recognized bar modes
const (
	BarModeGroup BarMode = "group"
	BarModeStack BarMode = "stack"
)

// ChartOptions are the recognized visual options of one chart.
// Zero Width means the chart spans its container.
type ChartOptions struct {
	Title     string  `yaml:"title"`
	XAxisName string  `yaml:"x_axis"`
	YAxisName string  `yaml:"y_axis"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	BarMode   BarMode `yaml:"bar_mode"`
}

// TableOptions are the recognized options of the URL table.
type TableOptions struct {
	Title string `yaml:"title"`
}

// Layout describes the fixed dashboard page. Text blocks are Markdown.
type Layout struct {
	Title        string       `yaml:"title"`
	Tagline      string       `yaml:"tagline"`
	Theme        Theme        `yaml:"theme"`
	Intro        string       `yaml:"intro"`
	TrendText    string       `yaml:"trend_text"`
	AudienceText string       `yaml:"audience_text"`
	DeviceText   string       `yaml:"device_text"`
	Trend        ChartOptions `yaml:"trend"`
	WordCloud    ChartOptions `yaml:"word_cloud"`
	Country      ChartOptions `yaml:"country"`
	Device       ChartOptions `yaml:"device"`
	URLTable     TableOptions `yaml:"url_table"`
}

// LayoutError reports an invalid layout option.
type LayoutError struct {
	Field  string
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid layout: %s: %s", e.Field, e.Reason)
}

// DefaultLayout returns the embedded default layout.
func DefaultLayout() (Layout, error) {
	var layout Layout
	if err := decodeLayout(bytes.NewReader(web.DefaultLayoutYAML()), &layout); err != nil {
		return Layout{}, fmt.Errorf("failed to decode default layout: %w", err)
	}
	return layout, layout.Validate()
}

// LoadLayout returns the default layout overlaid with the YAML file at path.
// An empty path yields the default layout.
func LoadLayout(path string) (Layout, error) {
	layout, err := DefaultLayout()
	if err != nil {
		return Layout{}, err
	}
	if path == "" {
		return layout, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to open layout %s: %w", path, err)
	}
	defer f.Close()

	if err := decodeLayout(f, &layout); err != nil {
		return Layout{}, fmt.Errorf("failed to decode layout %s: %w", path, err)
	}
	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// decodeLayout decodes strictly: unknown keys are rejected.
func decodeLayout(r io.Reader, layout *Layout) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(layout); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks enumerated options and chart dimensions.
func (l Layout) Validate() error {
	switch l.Theme {
	case ThemeDark, ThemeLight:
	default:
		return &LayoutError{Field: "theme", Reason: fmt.Sprintf("unknown theme %q", l.Theme)}
	}

	chartOptions := map[string]ChartOptions{
		"trend":      l.Trend,
		"word_cloud": l.WordCloud,
		"country":    l.Country,
		"device":     l.Device,
	}
	for name, chart := range chartOptions {
		if chart.Width < 0 || chart.Height < 0 {
			return &LayoutError{Field: name, Reason: "dimensions must not be negative"}
		}
		switch chart.BarMode {
		case "", BarModeGroup, BarModeStack:
		default:
			return &LayoutError{Field: name + ".bar_mode", Reason: fmt.Sprintf("unknown bar mode %q", chart.BarMode)}
		}
	}

	return nil
}
