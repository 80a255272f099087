// Package testsupport provides fixtures shared by package tests.
package testsupport

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/karloscodes/cartridge"

	"datapulse/internal/config"
	"datapulse/internal/database"
	"datapulse/internal/dataset"
)

// Header is the canonical search-console export header.
const Header = "Date,Country,Device,URL,Keyword,Clicks,Impressions,CTR"

var csvCounter atomic.Int64

// WriteCSV writes Header followed by rows to a temporary file and returns its path.
func WriteCSV(t *testing.T, rows ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("export_%d.csv", csvCounter.Add(1)))
	content := Header + "\n" + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("testsupport: failed to write csv fixture: %v", err)
	}
	return path
}

// ScenarioRows returns the three-row end-to-end scenario as CSV lines.
func ScenarioRows() []string {
	return []string{
		"2024-01-01,US,desktop,/a,shoes,10,100,0.1",
		"2024-01-01,US,mobile,/b,shoes,5,50,0.1",
		"2024-01-02,FR,desktop,/a,boots,3,30,0.1",
	}
}

// ScenarioRecords returns the end-to-end scenario as parsed records.
func ScenarioRecords() []dataset.Record {
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []dataset.Record{
		{Date: day1, Country: "US", Device: "desktop", URL: "/a", Keyword: "shoes", Clicks: 10, Impressions: 100, CTR: 0.1},
		{Date: day1, Country: "US", Device: "mobile", URL: "/b", Keyword: "shoes", Clicks: 5, Impressions: 50, CTR: 0.1},
		{Date: day2, Country: "FR", Device: "desktop", URL: "/a", Keyword: "boots", Clicks: 3, Impressions: 30, CTR: 0.1},
	}
}

// NewRecord builds a record for the given day offset from 2024-01-01.
func NewRecord(dayOffset int, country, device, url, keyword string, clicks, impressions int64, ctr float64) dataset.Record {
	return dataset.Record{
		Date:        time.Date(2024, 1, 1+dayOffset, 0, 0, 0, 0, time.UTC),
		Country:     country,
		Device:      device,
		URL:         url,
		Keyword:     keyword,
		Clicks:      clicks,
		Impressions: impressions,
		CTR:         ctr,
	}
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Config returns a valid test configuration reading dataPath.
func Config(dataPath string) *config.Config {
	return &config.Config{
		AppName:                "datapulse",
		Host:                   "127.0.0.1",
		Port:                   8050,
		Environment:            config.Test,
		LogLevel:               config.LogLevelError,
		DataPath:               dataPath,
		AssetsHost:             config.DefaultAssetsHost,
		ShutdownTimeoutSeconds: 5,
	}
}

// Store returns an initialized in-memory store closed when the test ends.
func Store(t *testing.T) *database.Manager {
	t.Helper()

	store := database.NewManager(Logger())
	if err := store.Init(); err != nil {
		t.Fatalf("testsupport: failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewServer returns a cartridge server with default middleware over a fresh
// store, for mounting individual handlers.
func NewServer(t *testing.T) *cartridge.Server {
	t.Helper()

	serverCfg := cartridge.DefaultServerConfig()
	serverCfg.Config = Config("")
	serverCfg.Logger = Logger()
	serverCfg.DBManager = Store(t)
	serverCfg.EnableStaticAssets = false
	serverCfg.EnableRequestLogger = false

	srv, err := cartridge.NewServer(serverCfg)
	if err != nil {
		t.Fatalf("testsupport: failed to create server: %v", err)
	}
	return srv
}
