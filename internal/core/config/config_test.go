package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadAppliesDefaults(t *testing.T) {
	p := writeConfig(t, "app:\n  name: test\njwt:\n  secret: s3cret\n")
	c, err := Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if c.App.Name != "test" || c.JWT.Secret != "s3cret" {
		t.Fatalf("file values not loaded: %+v", c.App)
	}
	if c.Media.MaxPerProperty != 10 || c.Media.MaxPerBatch != 10 {
		t.Fatalf("media defaults = %+v", c.Media)
	}
	if c.Bootstrap.AdminUsername != "admin0000" || len(c.Bootstrap.Specializations) != 3 {
		t.Fatalf("bootstrap defaults = %+v", c.Bootstrap)
	}
	if c.DB.Driver != "sqlite" || c.Storage.Driver != "local" {
		t.Fatalf("driver defaults = %s / %s", c.DB.Driver, c.Storage.Driver)
	}
}

func TestReadEnvOverride(t *testing.T) {
	p := writeConfig(t, "db:\n  driver: sqlite\n")
	t.Setenv("APP_DB_DRIVER", "postgres")
	c, err := Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if c.DB.Driver != "postgres" {
		t.Fatalf("env override ignored: %s", c.DB.Driver)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}
