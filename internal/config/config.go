// Package config provides configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DefaultAssetsHost serves the ECharts bundles referenced by the dashboard page.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Debug       bool     `mapstructure:"debug"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// Input and presentation
	DataPath   string `mapstructure:"datapath"`
	LayoutPath string `mapstructure:"layoutpath"`
	AssetsHost string `mapstructure:"assetshost"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdowntimeoutseconds"`
}

// envBindings maps configuration keys to their environment variables.
var envBindings = map[string]string{
	"appname":                "DATAPULSE_APP_NAME",
	"host":                   "DATAPULSE_HOST",
	"port":                   "DATAPULSE_PORT",
	"debug":                  "DATAPULSE_DEBUG",
	"environment":            "DATAPULSE_ENV",
	"loglevel":               "DATAPULSE_LOG_LEVEL",
	"datapath":               "DATAPULSE_DATA_PATH",
	"layoutpath":             "DATAPULSE_LAYOUT_PATH",
	"assetshost":             "DATAPULSE_ASSETS_HOST",
	"logsdir":                "DATAPULSE_LOGS_DIR",
	"logsmaxsizeinmb":        "DATAPULSE_LOGS_MAX_SIZE_IN_MB",
	"logsmaxbackups":         "DATAPULSE_LOGS_MAX_BACKUPS",
	"logsmaxageindays":       "DATAPULSE_LOGS_MAX_AGE_IN_DAYS",
	"shutdowntimeoutseconds": "DATAPULSE_SHUTDOWN_TIMEOUT_SECONDS",
}

// RegisterFlags adds the command-line flags recognized by Load.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("host", "127.0.0.1", "Interface to bind the dashboard server to")
	flags.Int("port", 8050, "Port to serve the dashboard on")
	flags.Bool("debug", false, "Enable debug logging and request logs")
}

// Load builds the configuration from defaults, an optional datapulse.yaml in the
// working directory, DATAPULSE_* environment variables and finally flags.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("appname", "datapulse")
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8050)
	v.SetDefault("debug", false)
	v.SetDefault("environment", Development)
	v.SetDefault("loglevel", "")
	v.SetDefault("datapath", "data/gsc.csv")
	v.SetDefault("layoutpath", "")
	v.SetDefault("assetshost", DefaultAssetsHost)
	v.SetDefault("logsdir", "logs")
	v.SetDefault("logsmaxsizeinmb", 20)
	v.SetDefault("logsmaxbackups", 10)
	v.SetDefault("logsmaxageindays", 30)
	v.SetDefault("shutdowntimeoutseconds", 30)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: failed to bind %s: %w", env, err)
		}
	}

	if flags != nil {
		for _, name := range []string{"host", "port", "debug"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("config: failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigName("datapulse")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	// Debug mode implies debug logging unless a level was chosen explicitly
	if cfg.LogLevel == "" {
		cfg.LogLevel = LogLevelInfo
		if cfg.Debug {
			cfg.LogLevel = LogLevelDebug
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.DataPath == "" {
		return errors.New("data path is required")
	}

	return nil
}

// Address returns the host:port pair the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, c.GetPort())
}

// GetPort returns the HTTP server port (implements cartridge.Config interface).
func (c *Config) GetPort() string {
	return strconv.Itoa(c.Port)
}

// GetPublicDirectory returns the path to public/static assets (implements cartridge.Config interface).
// The dashboard serves no static files of its own.
func (c *Config) GetPublicDirectory() string {
	return ""
}

// GetAssetsPrefix returns the URL prefix for static assets (implements cartridge.Config interface).
func (c *Config) GetAssetsPrefix() string {
	return "/assets"
}

// GetAppName returns the application name (implements cartridge.LogConfigProvider interface).
func (c *Config) GetAppName() string {
	return c.AppName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetLogLevel returns the log level as a string.
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the directory of the rotated log file written in production.
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB.
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups.
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files.
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}
