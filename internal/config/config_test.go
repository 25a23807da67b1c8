package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Store.Backend != BackendLocal || cfg.Store.LocalBlob != BlobSQLite {
		t.Errorf("Expected local sqlite store, got %s/%s", cfg.Store.Backend, cfg.Store.LocalBlob)
	}
	if cfg.Auth.Username != "admin" || cfg.Auth.Password != "password123" {
		t.Errorf("Unexpected default credentials %q/%q", cfg.Auth.Username, cfg.Auth.Password)
	}
	if cfg.GenAI.Model != "gemini-2.5-flash" {
		t.Errorf("Unexpected default model %q", cfg.GenAI.Model)
	}
	if cfg.Auth.SessionTTL != 0 {
		t.Errorf("Expected non-expiring sessions by default, got %v", cfg.Auth.SessionTTL)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "remote")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("GENAI_TIMEOUT", "15s")
	t.Setenv("SESSION_TTL", "8h")
	t.Setenv("SERVICES_PERSISTED", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != "pgx" {
		t.Errorf("Expected pgx driver, got %s", cfg.Database.Driver)
	}
	if cfg.GenAI.Timeout != 15*time.Second {
		t.Errorf("Expected 15s timeout, got %v", cfg.GenAI.Timeout)
	}
	if cfg.Auth.SessionTTL != 8*time.Hour {
		t.Errorf("Expected 8h TTL, got %v", cfg.Auth.SessionTTL)
	}
	if !cfg.Store.ServicesPersisted {
		t.Error("Expected services to be persisted")
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected fallback to default on bad int, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid local memory", func(c *Config) { c.Store.LocalBlob = BlobMemory }, false},
		{"unknown backend", func(c *Config) { c.Store.Backend = "firebase" }, true},
		{"unknown blob", func(c *Config) { c.Store.LocalBlob = "redis" }, true},
		{"s3 without bucket", func(c *Config) { c.Store.LocalBlob = BlobS3 }, true},
		{"s3 with bucket", func(c *Config) { c.Store.LocalBlob = BlobS3; c.S3.Bucket = "admin" }, false},
		{"sqlite without path", func(c *Config) { c.Store.SQLitePath = "" }, true},
		{"remote bad driver", func(c *Config) { c.Store.Backend = BackendRemote; c.Database.Driver = "mysql" }, true},
		{"remote without host", func(c *Config) { c.Store.Backend = BackendRemote; c.Database.Host = "" }, true},
		{"missing password", func(c *Config) { c.Auth.Password = "" }, true},
		{"negative ttl", func(c *Config) { c.Auth.SessionTTL = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "agency", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=agency sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "postgres", Host: "localhost", Name: "agency_admin"},
		Store:    StoreConfig{Backend: BackendLocal, LocalBlob: BlobSQLite, SQLitePath: "./data/admin.db"},
		Auth:     AuthConfig{Username: "admin", Password: "password123"},
	}
}
