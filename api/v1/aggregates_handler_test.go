package v1

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapulse/internal/analytics"
	"datapulse/internal/testsupport"
)

func TestAggregatesHandler(t *testing.T) {
	aggregates := &analytics.Aggregates{
		ByDate: []analytics.DateStat{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Clicks: 15, NormalizedClicks: 1},
		},
		TopCountries:  []analytics.MetricCountResult{{Name: "US", Count: 15}},
		ByDevice:      []analytics.DeviceStat{{Device: "desktop", Clicks: 15}},
		TopURLs:       []analytics.MetricCountResult{{Name: "/a", Count: 15}},
		KeywordCorpus: "shoes",
		Totals:        analytics.Totals{Records: 1, Clicks: 15, Impressions: 100},
	}

	handler, err := NewAggregatesHandler(aggregates)
	require.NoError(t, err)

	srv := testsupport.NewServer(t)
	srv.Get("/api/v1/aggregates", handler)

	resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/aggregates", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSONCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))

	assert.Contains(t, payload, "by_date")
	assert.Contains(t, payload, "top_countries")
	assert.Contains(t, payload, "by_device")
	assert.Contains(t, payload, "top_urls")
	assert.NotContains(t, payload, "KeywordCorpus", "corpus is not exposed")

	countries := payload["top_countries"].([]any)
	require.Len(t, countries, 1)
	assert.Equal(t, "US", countries[0].(map[string]any)["name"])
}

func TestAggregatesHandlerRequiresAggregates(t *testing.T) {
	_, err := NewAggregatesHandler(nil)
	assert.Error(t, err)
}
