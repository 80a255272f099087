// Package database holds the in-memory SQLite store the aggregate views are
// computed from.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"datapulse/internal/dataset"
)

const (
	insertBatchSize = 500

	// memoryPath keeps the database private to the manager's single connection.
	memoryPath = ":memory:"
)

// Record is the stored form of a dataset.Record. ID preserves source row order.
type Record struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Day         string  `gorm:"index;not null"`
	Country     string  `gorm:"index;not null"`
	Device      string  `gorm:"index;not null"`
	URL         string  `gorm:"column:url;index;not null"`
	Keyword     string  `gorm:"not null"`
	Clicks      int64   `gorm:"not null;default:0"`
	Impressions int64   `gorm:"not null;default:0"`
	CTR         float64 `gorm:"column:ctr;not null;default:0"`
}

// TableName pins the table name used by the analytics queries.
func (Record) TableName() string {
	return "records"
}

// Manager wraps cartridge's sqlite.Manager over an in-memory database.
type Manager struct {
	*sqlite.Manager
	logger *slog.Logger
}

// NewManager creates a manager for a fresh in-memory database. Every manager
// gets its own database; nothing is shared between them.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	sqliteCfg := sqlite.Config{
		Path:         memoryPath,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		// The data lives on the only connection, which must never be recycled
		ConnMaxLifetime: -1,
		Logger:          logger,
		TxImmediate:     true,
		BusyTimeout:     5000,
	}

	return &Manager{
		Manager: sqlite.NewManager(sqliteCfg),
		logger:  logger,
	}
}

// Init initializes the database connection.
func (m *Manager) Init() error {
	if _, err := m.Manager.Connect(); err != nil {
		return fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return nil
}

// Migrate creates the records table.
func (m *Manager) Migrate() error {
	db, err := m.Connect()
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(&Record{})
	})
	if err != nil {
		m.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	m.logger.Debug("Database migration completed successfully")
	return nil
}

// InsertRecords stores records in source order.
func (m *Manager) InsertRecords(ctx context.Context, records []dataset.Record) error {
	if len(records) == 0 {
		return nil
	}

	db, err := m.Connect()
	if err != nil {
		return err
	}

	rows := make([]Record, len(records))
	for i, r := range records {
		rows[i] = Record{
			Day:         r.Day(),
			Country:     r.Country,
			Device:      r.Device,
			URL:         r.URL,
			Keyword:     r.Keyword,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
			CTR:         r.CTR,
		}
	}

	if err := db.WithContext(ctx).CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}

	m.logger.Debug("Records inserted", slog.Int("count", len(rows)))
	return nil
}

// CountRecords returns the number of stored records.
func (m *Manager) CountRecords(ctx context.Context) (int64, error) {
	db, err := m.Connect()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Record{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
