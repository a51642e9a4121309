package config

import (
	"os"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	os.Clearenv()
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite with no DSN", cfg.DBDriver)
	}
	if cfg.AutosaveDebounceMillis != 600 {
		t.Errorf("AutosaveDebounceMillis = %d, want 600", cfg.AutosaveDebounceMillis)
	}
}

func TestResolveDefaults_PostgresFromDSN(t *testing.T) {
	cfg := &Config{DBDriver: "auto", PostgresDSN: "postgres://localhost/notebook", MediaURLTTLSeconds: 60}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("ResolveDefaults: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
}

func TestResolveDefaults_PostgresRequiresDSN(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", MediaURLTTLSeconds: 60}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for postgres driver without DSN")
	}
}

func TestResolveDefaults_UnsupportedDriver(t *testing.T) {
	cfg := &Config{DBDriver: "spanner", MediaURLTTLSeconds: 60}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNew_EnvOverride(t *testing.T) {
	os.Clearenv()
	t.Setenv("NOTEBOOK_HTTP_PORT", "9191")
	t.Setenv("NOTEBOOK_DB_DRIVER", "sqlite")
	t.Setenv("NOTEBOOK_SQLITE_PATH", "/tmp/notebook.db")
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.HTTPPort != 9191 {
		t.Errorf("HTTPPort = %d, want 9191", cfg.HTTPPort)
	}
	if cfg.SQLitePath != "/tmp/notebook.db" {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath)
	}
	if cfg.GetHTTPAddr() != ":9191" {
		t.Errorf("GetHTTPAddr = %q", cfg.GetHTTPAddr())
	}
}
