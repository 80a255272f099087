package page

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapulse/internal/analytics"
	"datapulse/internal/presentation"
)

func renderScenario(t *testing.T, aggregates *analytics.Aggregates) string {
	t.Helper()

	layout, err := presentation.DefaultLayout()
	require.NoError(t, err)

	dashboard, err := presentation.Build(layout, aggregates)
	require.NoError(t, err)

	engine, err := NewEngine()
	require.NoError(t, err)

	out, err := Render(engine, dashboard, aggregates.Totals, Options{
		AssetsHost: "https://assets.example.com/echarts",
		Now:        func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) },
	})
	require.NoError(t, err)
	return string(out)
}

func TestRender(t *testing.T) {
	aggregates := &analytics.Aggregates{
		ByDate: analytics.NormalizeDailyTotals([]analytics.DateStat{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Clicks: 15, Impressions: 150, CTR: 0.2},
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Clicks: 3, Impressions: 30, CTR: 0.1},
		}),
		TopCountries:  []analytics.MetricCountResult{{Name: "US", Count: 15}, {Name: "FR", Count: 3}},
		ByDevice:      []analytics.DeviceStat{{Device: "desktop", Clicks: 13, Impressions: 130, CTR: 0.2}},
		TopURLs:       []analytics.MetricCountResult{{Name: "/a", Count: 1300}, {Name: "/b", Count: 5}},
		KeywordCorpus: "shoes shoes boots",
		Totals:        analytics.Totals{Records: 3, Clicks: 1305, Impressions: 180},
	}

	body := renderScenario(t, aggregates)

	t.Run("Title block", func(t *testing.T) {
		assert.Contains(t, body, "<title>DataPulse</title>")
		assert.Contains(t, body, "<h1>DataPulse</h1>")
		assert.Contains(t, body, "Racing with Care, Tracking with Precision.")
		assert.Contains(t, body, `class="theme-dark"`)
	})

	t.Run("Markdown text blocks", func(t *testing.T) {
		assert.Contains(t, body, "<strong>Clicks</strong>")
	})

	t.Run("Figures in fixed order", func(t *testing.T) {
		trend := strings.Index(body, `id="trend-chart"`)
		cloud := strings.Index(body, `id="wordcloud-chart"`)
		country := strings.Index(body, `id="country-chart"`)
		device := strings.Index(body, `id="device-chart"`)
		table := strings.Index(body, `id="url-table"`)

		require.True(t, trend > 0 && cloud > 0 && country > 0 && device > 0 && table > 0)
		assert.Less(t, trend, cloud)
		assert.Less(t, cloud, country)
		assert.Less(t, country, device)
		assert.Less(t, device, table)
		assert.Contains(t, body, "width: 720px; height: 480px;")
	})

	t.Run("URL table and totals", func(t *testing.T) {
		assert.Contains(t, body, "<h3>Top 10 URLs by Clicks</h3>")
		assert.Contains(t, body, "<th>URL</th><th>Clicks</th>")
		assert.Contains(t, body, `<tr><td>/a</td><td class="number">1,300</td></tr>`)
		assert.Contains(t, body, "<strong>1,305</strong>clicks")
	})

	t.Run("Scripts and chart options", func(t *testing.T) {
		assert.Contains(t, body, `<script src="https://assets.example.com/echarts/echarts.min.js"></script>`)
		assert.Contains(t, body, "echarts-wordcloud.min.js")
		assert.Contains(t, body, "United States")
		assert.Contains(t, body, "2024-01-02")
		assert.Contains(t, body, "Generated Mon, 06 May 2024 07:08:09 UTC")
	})
}

func TestRenderEscapesData(t *testing.T) {
	aggregates := &analytics.Aggregates{
		TopCountries:  []analytics.MetricCountResult{{Name: "</script>x", Count: 2}},
		TopURLs:       []analytics.MetricCountResult{{Name: "/<b>bold</b>", Count: 1}},
		KeywordCorpus: "</script><script>alert</script>",
	}

	body := renderScenario(t, aggregates)

	assert.Contains(t, body, "/&lt;b&gt;bold&lt;/b&gt;")
	assert.NotContains(t, body, "<b>bold</b>")
	assert.NotContains(t, body, "</SCRIPT>")
	assert.Equal(t, 1, strings.Count(body, "<script>"), "only the page's own inline script")
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("Some **bold** text")
	require.NoError(t, err)
	assert.Equal(t, "<p>Some <strong>bold</strong> text</p>\n", string(out))

	out, err = Markdown("<em>raw</em>")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<em>raw</em>")
}

func TestScripts(t *testing.T) {
	assert.Equal(t, []string{"https://cdn/x/echarts.min.js", "https://cdn/x/echarts-wordcloud.min.js"}, scripts("https://cdn/x"))
	assert.Equal(t, []string{"https://cdn/x/echarts.min.js", "https://cdn/x/echarts-wordcloud.min.js"}, scripts("https://cdn/x/"))
}
