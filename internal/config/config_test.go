package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	assertStringEqual(t, "service.name", defaultServiceName, cfg.Service.Name)
	assertStringEqual(t, "service.version", defaultVersion, cfg.Service.Version)
	assertIntEqual(t, "service.port", defaultServicePort, cfg.Service.Port)

	assertStringEqual(t, "database.host", defaultDBHost, cfg.Database.Host)
	assertIntEqual(t, "database.port", defaultDBPort, cfg.Database.Port)
	assertStringEqual(t, "database.user", defaultDBUser, cfg.Database.User)
	assertStringEqual(t, "database.database", defaultDBName, cfg.Database.Database)
	assertStringEqual(t, "database.sslmode", defaultDBSSLMode, cfg.Database.SSLMode)

	expectedQueryTimeout := defaultQueryTimeoutS * time.Second
	if cfg.Database.QueryTimeout != expectedQueryTimeout {
		t.Errorf("database.query_timeout: got %v, want %v",
			cfg.Database.QueryTimeout, expectedQueryTimeout)
	}

	assertIntEqual(t, "report.theme_display_limit",
		defaultThemeDisplayLimit, cfg.Report.ThemeDisplayLimit)
	assertIntEqual(t, "report.theme_export_limit",
		defaultThemeExportLimit, cfg.Report.ThemeExportLimit)
	assertIntEqual(t, "report.raw_export_limit",
		defaultRawExportLimit, cfg.Report.RawExportLimit)

	assertIntEqual(t, "rate_limit.max_exports_per_minute",
		defaultMaxExportsPerMinute, cfg.RateLimit.MaxExportsPerMinute)
	assertIntEqual(t, "rate_limit.window_seconds",
		defaultWindowSeconds, cfg.RateLimit.WindowSeconds)

	assertStringEqual(t, "logging.level", defaultLoggingLevel, cfg.Logging.Level)
	assertStringEqual(t, "logging.format", defaultLoggingFmt, cfg.Logging.Format)
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("expected no validation error, got: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Service.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for out-of-range port, got nil")
	}

	expected := "service.port: must be between 1 and 65535"
	if err.Error() != expected {
		t.Errorf("error message: got %q, want %q", err.Error(), expected)
	}
}

func TestValidate_NegativeLimit(t *testing.T) {
	t.Helper()

	cfg := &Config{}
	setDefaults(cfg)
	cfg.Report.RawExportLimit = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for negative export limit, got nil")
	}

	expected := "report.raw_export_limit: must be greater than zero"
	if err.Error() != expected {
		t.Errorf("error message: got %q, want %q", err.Error(), expected)
	}
}

func TestDSN(t *testing.T) {
	t.Helper()

	db := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "secret",
		Database: "support_reports",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=postgres password=secret dbname=support_reports sslmode=disable"
	got := db.DSN()

	if got != expected {
		t.Errorf("DSN:\ngot:  %q\nwant: %q", got, expected)
	}
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	yml := `
service:
  port: 9001
database:
  host: db.internal
report:
  theme_display_limit: 5
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("SUPPORT_REPORTS_PORT", "9100")
	t.Setenv("POSTGRES_SUPPORT_REPORTS_PASSWORD", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	// Environment always wins over the file value.
	assertIntEqual(t, "service.port", 9100, cfg.Service.Port)
	assertStringEqual(t, "database.password", "env-secret", cfg.Database.Password)

	// File values survive where no env override exists.
	assertStringEqual(t, "database.host", "db.internal", cfg.Database.Host)
	assertIntEqual(t, "report.theme_display_limit", 5, cfg.Report.ThemeDisplayLimit)

	// Untouched fields fall back to defaults.
	assertIntEqual(t, "report.raw_export_limit", defaultRawExportLimit, cfg.Report.RawExportLimit)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assertStringEqual(t, "default path", "config.yml", GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/support-reports/config.yml")
	assertStringEqual(t, "env path", "/etc/support-reports/config.yml", GetConfigPath("config.yml"))
}

// assertStringEqual is a test helper that checks string equality.
func assertStringEqual(t *testing.T, field, want, got string) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}

// assertIntEqual is a test helper that checks int equality.
func assertIntEqual(t *testing.T, field string, want, got int) {
	t.Helper()

	if got != want {
		t.Errorf("%s: got %d, want %d", field, got, want)
	}
}
