package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCurrentVersion_FreshDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), fstest.MapFS{})

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestMigrations_SortedAndParsed(t *testing.T) {
	runner := NewRunner(setupTestDB(t), fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
	})

	migrations, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "first" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "second" {
		t.Errorf("unexpected second migration: %+v", migrations[1])
	}
}

func TestMigrations_InvalidNames(t *testing.T) {
	tests := map[string]fstest.MapFS{
		"no underscore": {"001.sql": {Data: []byte("")}},
		"not a number":  {"abc_init.sql": {Data: []byte("")}},
		"zero version":  {"000_init.sql": {Data: []byte("")}},
		"duplicate": {
			"001_a.sql": {Data: []byte("")},
			"01_b.sql":  {Data: []byte("")},
		},
	}

	for name, fsys := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewRunner(setupTestDB(t), fsys).Migrations(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE plants (id TEXT PRIMARY KEY);")},
		"002_index.sql": {Data: []byte("CREATE INDEX idx_plants_id ON plants(id);")},
	})

	var logged []string
	applied, err := runner.Apply(func(msg string, keyvals ...interface{}) {
		logged = append(logged, msg)
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}
	if len(logged) != 2 {
		t.Errorf("expected 2 log lines, got %d", len(logged))
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// Second run is a no-op
	applied, err = runner.Apply(nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 migrations applied on second run, got %d", applied)
	}
}

func TestApply_FailedMigrationRollsBack(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE plants (id TEXT PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE oops (")},
	})

	applied, err := runner.Apply(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error should name the migration, got %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied, got %d", applied)
	}

	version, _ := runner.CurrentVersion()
	if version != 1 {
		t.Errorf("expected version 1 after failure, got %d", version)
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE plants (id TEXT PRIMARY KEY);")},
	})
	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion failed on current schema: %v", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 7"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error for database newer than the application")
	}
}
