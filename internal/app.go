// Package internal contains core application functionality
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"

	"datapulse/internal/analytics"
	"datapulse/internal/config"
	"datapulse/internal/database"
	"datapulse/internal/dataset"
	"datapulse/internal/page"
	"datapulse/internal/presentation"
)

// Site is everything the server hands out. It is computed once by Prepare and
// never modified afterwards.
type Site struct {
	Aggregates *analytics.Aggregates
	Dashboard  *presentation.Dashboard
	Page       []byte
}

// Application wraps cartridge.Application with the prepared dashboard
type Application struct {
	*cartridge.Application
	Config    *config.Config
	DBManager *database.Manager // In-memory store holding the loaded records
	Site      *Site
}

// Prepare runs data preparation and presentation: it loads the export into
// store, builds the aggregates and renders the page. Any failure aborts startup.
func Prepare(ctx context.Context, cfg *config.Config, logger *slog.Logger, store *database.Manager) (*Site, error) {
	start := time.Now()

	records, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Dataset loaded", slog.String("path", cfg.DataPath), slog.Int("records", len(records)))

	layout, err := presentation.LoadLayout(cfg.LayoutPath)
	if err != nil {
		return nil, err
	}

	aggregates, err := analytics.Build(ctx, store, records, analytics.BuildOptions{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to build aggregates: %w", err)
	}

	dashboard, err := presentation.Build(layout, aggregates)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	if len(dashboard.Words) == 0 {
		logger.Warn("Keyword corpus is empty, word cloud will be blank")
	}

	engine, err := page.NewEngine()
	if err != nil {
		return nil, err
	}
	body, err := page.Render(engine, dashboard, aggregates.Totals, page.Options{AssetsHost: cfg.AssetsHost})
	if err != nil {
		return nil, err
	}

	logger.Info("Dashboard prepared",
		slog.Int("page_bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Site{
		Aggregates: aggregates,
		Dashboard:  dashboard,
		Page:       body,
	}, nil
}

// NewApp opens the store, prepares the site and mounts it on a new cartridge
// application.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	dbManager := database.NewManager(logger)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	site, err := Prepare(ctx, cfg, logger, dbManager)
	if err != nil {
		_ = dbManager.Close()
		return nil, err
	}

	app, err := NewAppWithSite(cfg, logger, dbManager, site)
	if err != nil {
		_ = dbManager.Close()
		return nil, err
	}
	return app, nil
}

// NewAppWithSite mounts an already prepared site.
func NewAppWithSite(cfg *config.Config, logger *slog.Logger, dbManager *database.Manager, site *Site) (*Application, error) {
	if site == nil {
		return nil, errors.New("site is required")
	}

	serverCfg := cartridge.DefaultServerConfig()
	serverCfg.EnableStaticAssets = false
	// Security headers are applied per route; see MountAppRoutes
	serverCfg.EnableHelmet = false
	serverCfg.EnableRequestLogger = cfg.Debug

	var mountErr error
	app, err := cartridge.NewApplication(cartridge.ApplicationOptions{
		Config:       cfg,
		Logger:       logger,
		DBManager:    dbManager,
		ServerConfig: serverCfg,
		RouteMountFunc: func(srv *cartridge.Server) {
			mountErr = MountAppRoutes(srv, site)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	if mountErr != nil {
		return nil, fmt.Errorf("failed to mount routes: %w", mountErr)
	}

	return &Application{
		Application: app,
		Config:      cfg,
		DBManager:   dbManager,
		Site:        site,
	}, nil
}

// Start binds the configured host and port and serves until Shutdown is called.
func (a *Application) Start() error {
	addr := a.Config.Address()
	a.Logger.Info("Server started and ready to accept requests", slog.String("address", addr))
	if err := a.Server.App().Listen(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server and releases the store.
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.Application.Shutdown(ctx)
	if closeErr := a.DBManager.Close(); closeErr != nil {
		a.Logger.Warn("Failed to close database", slog.Any("error", closeErr))
		if err == nil {
			err = closeErr
		}
	}
	return err
}
