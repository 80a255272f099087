package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"datapulse/internal/analytics"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
	Records   int64     `json:"records"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// HealthIndexAction handles the health check endpoint
func HealthIndexAction(aggregates *analytics.Aggregates) cartridge.HandlerFunc {
	return func(ctx *cartridge.Context) error {
		dbStatus := "ok"

		// Check the aggregation store is still reachable
		db := ctx.DBManager.GetConnection()
		if db == nil {
			dbStatus = "error"
			ctx.Logger.Error("Database connection unavailable")
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				dbStatus = "error"
				ctx.Logger.Error("Database connection error", slog.Any("error", err))
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error"
				ctx.Logger.Error("Database ping failed", slog.Any("error", err))
			}
		}

		health := HealthStatus{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
			DBStatus:  dbStatus,
		}

		if aggregates == nil {
			health.Status = "degraded"
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(health)
		}

		health.Records = aggregates.Totals.Records
		health.LoadedAt = aggregates.LoadedAt
		if dbStatus != "ok" {
			health.Status = "degraded"
		}

		return ctx.JSON(health)
	}
}
