package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/dentio")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if !cfg.IsDev() {
		t.Error("expected development env by default")
	}
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	setEnv(t, "DB_DRIVER", DriverPostgres)
	setEnv(t, "DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_SQLiteNeedsNoURL(t *testing.T) {
	setEnv(t, "DB_DRIVER", DriverSQLite)
	setEnv(t, "DATABASE_URL", "")
	setEnv(t, "SQLITE_PATH", "/tmp/test-dentio.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SQLitePath != "/tmp/test-dentio.db" {
		t.Errorf("unexpected sqlite path %s", cfg.SQLitePath)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	setEnv(t, "DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	setEnv(t, "DB_DRIVER", DriverSQLite)
	setEnv(t, "CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
}
