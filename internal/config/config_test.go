package config

import (
	"testing"

	"github.com/karloscodes/cartridge"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "datapulse", cfg.AppName)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8050, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, "data/gsc.csv", cfg.DataPath)
	assert.Equal(t, DefaultAssetsHost, cfg.AssetsHost)
	assert.Equal(t, 30, cfg.ShutdownTimeoutSeconds)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "127.0.0.1:8050", cfg.Address())
	assert.Equal(t, "logs", cfg.GetLogDirectory())
}

func TestConfigSatisfiesCartridge(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	var runtime cartridge.Config = cfg
	assert.Equal(t, "8050", runtime.GetPort())
	assert.Empty(t, runtime.GetPublicDirectory())

	var provider cartridge.LogConfigProvider = cfg
	logCfg := cartridge.LogConfigFromProvider(provider)
	assert.Equal(t, "datapulse", logCfg.AppName)
	assert.Equal(t, "info", logCfg.Level)
	assert.Equal(t, 20, logCfg.MaxSizeMB)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("DATAPULSE_PORT", "9090")
	t.Setenv("DATAPULSE_DATA_PATH", "/tmp/export.csv")
	t.Setenv("DATAPULSE_ENV", Test)
	t.Setenv("DATAPULSE_DEBUG", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/export.csv", cfg.DataPath)
	assert.True(t, cfg.IsTest())
	assert.True(t, cfg.Debug)
	assert.Equal(t, LogLevelDebug, cfg.LogLevel, "debug mode should imply debug logging")
}

func TestLoadFlagsTakePrecedence(t *testing.T) {
	t.Setenv("DATAPULSE_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--port", "7000", "--host", "0.0.0.0"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "0.0.0.0:7000", cfg.Address())
}

func TestLoadExplicitLogLevelWins(t *testing.T) {
	t.Setenv("DATAPULSE_DEBUG", "true")
	t.Setenv("DATAPULSE_LOG_LEVEL", "warn")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, cfg.LogLevel)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Invalid environment", key: "DATAPULSE_ENV", value: "staging"},
		{name: "Invalid log level", key: "DATAPULSE_LOG_LEVEL", value: "verbose"},
		{name: "Port out of range", key: "DATAPULSE_PORT", value: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load(nil)
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
