package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range m {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func TestApplyFromScratch(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql": "CREATE TABLE fields (id TEXT PRIMARY KEY);",
		"002_more.sql": "CREATE TABLE bookings (id TEXT PRIMARY KEY);",
		"README.md":    "ignored",
	}))
	ctx := context.Background()

	applied, err := runner.Apply(ctx)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if v, _ := runner.CurrentVersion(ctx); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}

	applied, err = runner.Apply(ctx)
	if err != nil || applied != 0 {
		t.Errorf("second Apply() = %d, %v; want no-op", applied, err)
	}

	for _, table := range []string{"fields", "bookings"} {
		var name string
		if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql":   "CREATE TABLE fields (id TEXT PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE broken (id TEXT); THIS IS NOT SQL;",
	}))
	ctx := context.Background()

	applied, err := runner.Apply(ctx)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if v, _ := runner.CurrentVersion(ctx); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}

func TestApplyRefusesNewerDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, files(map[string]string{"001_init.sql": "SELECT 1;"}))
	ctx := context.Background()

	if _, err := runner.CurrentVersion(ctx); err != nil {
		t.Fatalf("CurrentVersion() error = %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (9)"); err != nil {
		t.Fatalf("seed version: %v", err)
	}

	_, err := runner.Apply(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Apply() error = %v", err)
	}
}

func TestMigrationsValidation(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{name: "missing underscore", files: map[string]string{"001init.sql": ""}, want: "invalid migration filename"},
		{name: "zero version", files: map[string]string{"000_init.sql": ""}, want: "invalid version number"},
		{name: "not a number", files: map[string]string{"abc_init.sql": ""}, want: "invalid version number"},
		{name: "duplicate", files: map[string]string{"001_a.sql": "", "01_b.sql": ""}, want: "duplicate migration version 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, files(tt.files))
			_, err := runner.Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Migrations() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLatestVersion(t *testing.T) {
	runner := NewRunner(nil, files(map[string]string{
		"003_c.sql": "",
		"001_a.sql": "",
	}))
	v, err := runner.LatestVersion()
	if err != nil || v != 3 {
		t.Errorf("LatestVersion() = %d, %v", v, err)
	}
}
