package internal

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "datapulse/api/v1"
	"datapulse/internal/http"
)

// publicCORSConfig allows the aggregates document to be read from any origin.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept",
}

// pageHelmetConfig keeps cartridge's security headers but lets the page load
// the chart bundles from the assets host.
var pageHelmetConfig = helmet.Config{
	ReferrerPolicy:            "same-origin",
	CrossOriginEmbedderPolicy: "unsafe-none",
}

// MountAppRoutes mounts the dashboard, the aggregates API and the health check
// using cartridge's route API.
func MountAppRoutes(srv *cartridge.Server, site *Site) error {
	aggregatesHandler, err := v1.NewAggregatesHandler(site.Aggregates)
	if err != nil {
		return err
	}

	// ============================================
	// ROUTE CONFIGURATIONS
	// ============================================

	pageConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{cartridgemiddleware.HelmetWithConfig(pageHelmetConfig)},
	}

	publicAPIConfig := &cartridge.RouteConfig{
		EnableCORS: true,
		CORSConfig: publicCORSConfig,
	}

	// === ROOT ROUTES ===
	srv.Get("/", http.DashboardIndexAction(site.Page), pageConfig)

	// Health check endpoint
	health := http.HealthIndexAction(site.Aggregates)
	srv.Get("/_health", health)
	srv.Head("/_health", health)

	// === PUBLIC API ROUTES ===
	srv.Get("/api/v1/aggregates", aggregatesHandler, publicAPIConfig)
	srv.Options("/api/v1/aggregates", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)

	return nil
}
