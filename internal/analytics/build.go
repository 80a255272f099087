package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"datapulse/internal/database"
	"datapulse/internal/dataset"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Logger *slog.Logger
	// Now stamps LoadedAt; defaults to time.Now.
	Now func() time.Time
}

// Build loads records into store, computes every view and returns the immutable
// Aggregates. The caller owns store and closes it.
func Build(ctx context.Context, store *database.Manager, records []dataset.Record, opts BuildOptions) (*Aggregates, error) {
	if store == nil {
		return nil, errors.New("aggregation store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate aggregation store: %w", err)
	}
	if err := store.InsertRecords(ctx, records); err != nil {
		return nil, err
	}

	db, err := store.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to aggregation store: %w", err)
	}

	byDate, err := DailyTotals(ctx, db)
	if err != nil {
		return nil, err
	}

	countries, err := TopCountries(ctx, db, TopCountriesLimit)
	if err != nil {
		return nil, err
	}

	devices, err := DeviceTotals(ctx, db)
	if err != nil {
		return nil, err
	}

	urls, err := TopURLs(ctx, db, TopURLsLimit)
	if err != nil {
		return nil, err
	}

	corpus, err := KeywordCorpus(ctx, db)
	if err != nil {
		return nil, err
	}

	totals, err := DatasetTotals(ctx, db)
	if err != nil {
		return nil, err
	}

	aggregates := &Aggregates{
		ByDate:        NormalizeDailyTotals(byDate),
		TopCountries:  countries,
		ByDevice:      devices,
		TopURLs:       urls,
		KeywordCorpus: corpus,
		Totals:        totals,
		LoadedAt:      now().UTC(),
	}

	logger.Info("Aggregates computed",
		slog.Int64("records", totals.Records),
		slog.Int("days", len(aggregates.ByDate)),
		slog.Int("countries", len(aggregates.TopCountries)),
		slog.Int("devices", len(aggregates.ByDevice)),
		slog.Int("urls", len(aggregates.TopURLs)),
	)

	return aggregates, nil
}
