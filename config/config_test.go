package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-dbkernel/dbkernel/internal/storage"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAndBootstrap(t *testing.T) {
	path := writeTempConfig(t, `
seed_files:
  - name: users
    columns:
      - name: id
        type: INT
      - name: name
        type: STRING
  - name: orders
    columns:
      - name: user_id
        type: INT
      - name: amount
        type: DOUBLE
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.SeedFiles) != 2 {
		t.Fatalf("expected 2 seed files, got %d", len(cfg.SeedFiles))
	}

	db := storage.NewDatabase()
	if err := cfg.Bootstrap(db); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if _, err := db.Get("users"); err != nil {
		t.Fatalf("expected users to be registered: %v", err)
	}
	if _, err := db.Get("orders"); err != nil {
		t.Fatalf("expected orders to be registered: %v", err)
	}
}

func TestBootstrapRejectsUnknownType(t *testing.T) {
	path := writeTempConfig(t, `
seed_files:
  - name: bad
    columns:
      - name: x
        type: BLOB
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	db := storage.NewDatabase()
	if err := cfg.Bootstrap(db); err == nil {
		t.Fatal("expected an error for an unknown column type")
	}
}
