// Package config loads a YAML-described catalog seed list and registers it
// with a Database at startup. It exists to give the demo command and any
// embedding application a declarative way to populate the catalog without
// hand-writing MemFile/TupleDesc construction for every table.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-dbkernel/dbkernel/internal/storage"
)

// Column describes one column of a seeded file in YAML form.
type Column struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// SeedFile describes one DbFile to register with the Database at bootstrap.
type SeedFile struct {
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
}

// Config is the top-level YAML document shape.
type Config struct {
	SeedFiles []SeedFile `yaml:"seed_files"`
}

// Load reads and parses a Config from the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

func kindFromString(s string) (storage.Kind, error) {
	switch s {
	case "INT":
		return storage.IntKind, nil
	case "DOUBLE":
		return storage.DoubleKind, nil
	case "STRING":
		return storage.StringKind, nil
	default:
		return 0, fmt.Errorf("config: unknown column type %q", s)
	}
}

// Bootstrap registers every seed file in c with db as an empty MemFile
// matching its declared schema. It fails on the first unknown column type
// or duplicate file name.
func (c *Config) Bootstrap(db *storage.Database) error {
	for _, sf := range c.SeedFiles {
		cols := make([]storage.ColumnDesc, len(sf.Columns))
		for i, col := range sf.Columns {
			kind, err := kindFromString(col.Type)
			if err != nil {
				return fmt.Errorf("config: seed file %q: %w", sf.Name, err)
			}
			cols[i] = storage.ColumnDesc{Name: col.Name, Type: kind}
		}
		desc := storage.NewTupleDesc(cols...)
		if err := db.Add(storage.NewMemFile(sf.Name, desc)); err != nil {
			return fmt.Errorf("config: seed file %q: %w", sf.Name, err)
		}
	}
	return nil
}
