package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapulse/internal/analytics"
	"datapulse/internal/testsupport"
)

func TestDashboardIndexAction(t *testing.T) {
	srv := testsupport.NewServer(t)
	srv.Get("/", DashboardIndexAction([]byte("<html>pulse</html>")))

	resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMETextHTMLCharsetUTF8, resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderCacheControl))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>pulse</html>", string(body))
}

func TestHealthIndexAction(t *testing.T) {
	loadedAt := time.Date(2024, 1, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		name           string
		aggregates     *analytics.Aggregates
		closeStore     bool
		expectedCode   int
		expectedStatus string
		expectedDB     string
	}{
		{
			name:           "Loaded aggregates",
			aggregates:     &analytics.Aggregates{Totals: analytics.Totals{Records: 42}, LoadedAt: loadedAt},
			expectedCode:   fiber.StatusOK,
			expectedStatus: "ok",
			expectedDB:     "ok",
		},
		{
			name:           "Missing aggregates",
			aggregates:     nil,
			expectedCode:   fiber.StatusServiceUnavailable,
			expectedStatus: "degraded",
			expectedDB:     "ok",
		},
		{
			name:           "Store closed",
			aggregates:     &analytics.Aggregates{Totals: analytics.Totals{Records: 42}, LoadedAt: loadedAt},
			closeStore:     true,
			expectedCode:   fiber.StatusOK,
			expectedStatus: "degraded",
			expectedDB:     "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testsupport.NewServer(t)
			srv.Get("/_health", HealthIndexAction(tt.aggregates))

			if tt.closeStore {
				db := srv.GetDBManager().GetConnection()
				require.NotNil(t, db)
				sqlDB, err := db.DB()
				require.NoError(t, err)
				require.NoError(t, sqlDB.Close())
			}

			resp, err := srv.App().Test(httptest.NewRequest(fiber.MethodGet, "/_health", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedCode, resp.StatusCode)

			var health HealthStatus
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
			assert.Equal(t, tt.expectedStatus, health.Status)
			assert.Equal(t, tt.expectedDB, health.DBStatus)
			if tt.aggregates != nil {
				assert.Equal(t, int64(42), health.Records)
				assert.True(t, loadedAt.Equal(health.LoadedAt))
			}
		})
	}
}
