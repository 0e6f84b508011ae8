package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "support-reports"
	defaultServicePort  = 8097
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "support_reports"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultThemeDisplayLimit = 10
	defaultThemeExportLimit  = 1000
	defaultRawExportLimit    = 50000

	defaultMaxExportsPerMinute = 6
	defaultWindowSeconds       = 60

	defaultQueryTimeoutS = 30
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Report    ReportConfig    `yaml:"report"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"SUPPORT_REPORTS_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"            yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host         string        `env:"POSTGRES_SUPPORT_REPORTS_HOST"     yaml:"host"`
	Port         int           `env:"POSTGRES_SUPPORT_REPORTS_PORT"     yaml:"port"`
	User         string        `env:"POSTGRES_SUPPORT_REPORTS_USER"     yaml:"user"`
	Password     string        `env:"POSTGRES_SUPPORT_REPORTS_PASSWORD" yaml:"password"`
	Database     string        `env:"POSTGRES_SUPPORT_REPORTS_DB"       yaml:"database"`
	SSLMode      string        `env:"POSTGRES_SUPPORT_REPORTS_SSLMODE"  yaml:"sslmode"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// ReportConfig holds result-set caps for the report view and the exports.
// The interactive theme list and the theme export carry independent caps;
// unifying them would change user-visible behavior.
type ReportConfig struct {
	ThemeDisplayLimit int `yaml:"theme_display_limit"`
	ThemeExportLimit  int `yaml:"theme_export_limit"`
	RawExportLimit    int `yaml:"raw_export_limit"`
}

// RateLimitConfig holds rate limiting configuration for the export routes.
type RateLimitConfig struct {
	MaxExportsPerMinute int `yaml:"max_exports_per_minute"`
	WindowSeconds       int `yaml:"window_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return load(path)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setReportDefaults(&cfg.Report)
	setRateLimitDefaults(&cfg.RateLimit)
	setLoggingDefaults(&cfg.Logging)
}

// setServiceDefaults applies default values to ServiceConfig.
func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

// setDatabaseDefaults applies default values to DatabaseConfig.
func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
	if db.QueryTimeout == 0 {
		db.QueryTimeout = defaultQueryTimeoutS * time.Second
	}
}

// setReportDefaults applies default values to ReportConfig.
func setReportDefaults(rep *ReportConfig) {
	if rep.ThemeDisplayLimit == 0 {
		rep.ThemeDisplayLimit = defaultThemeDisplayLimit
	}
	if rep.ThemeExportLimit == 0 {
		rep.ThemeExportLimit = defaultThemeExportLimit
	}
	if rep.RawExportLimit == 0 {
		rep.RawExportLimit = defaultRawExportLimit
	}
}

// setRateLimitDefaults applies default values to RateLimitConfig.
func setRateLimitDefaults(rl *RateLimitConfig) {
	if rl.MaxExportsPerMinute == 0 {
		rl.MaxExportsPerMinute = defaultMaxExportsPerMinute
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = defaultWindowSeconds
	}
}

// setLoggingDefaults applies default values to LoggingConfig.
func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := validatePositive("report.theme_display_limit", c.Report.ThemeDisplayLimit); err != nil {
		return err
	}
	if err := validatePositive("report.theme_export_limit", c.Report.ThemeExportLimit); err != nil {
		return err
	}
	if err := validatePositive("report.raw_export_limit", c.Report.RawExportLimit); err != nil {
		return err
	}
	return nil
}
