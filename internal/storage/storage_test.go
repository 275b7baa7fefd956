package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestMemory(t *testing.T) {
	t.Run("Empty Load", func(t *testing.T) {
		m := NewMemory("")
		value, err := m.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %q", value)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		m := NewMemory("")
		if err := m.Save(`[{"id":1}]`); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		value, err := m.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != `[{"id":1}]` {
			t.Errorf("expected saved value, got %q", value)
		}
		if m.Saves() != 1 {
			t.Errorf("expected 1 save, got %d", m.Saves())
		}
	})
}

func TestFile(t *testing.T) {
	t.Run("Missing File Loads Empty", func(t *testing.T) {
		f, err := NewFile(filepath.Join(t.TempDir(), "collections.json"))
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		value, err := f.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %q", value)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "collections.json")
		f, err := NewFile(path)
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}

		if err := f.Save(`[{"id":1,"name":"Mix"}]`); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		value, err := f.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != `[{"id":1,"name":"Mix"}]` {
			t.Errorf("expected saved value, got %q", value)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file on disk: %v", err)
		}
	})

	t.Run("Overwrite Replaces Value", func(t *testing.T) {
		f, err := NewFile(filepath.Join(t.TempDir(), "collections.json"))
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}

		if err := f.Save("first"); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := f.Save("second"); err != nil {
			t.Fatalf("failed to save again: %v", err)
		}

		value, err := f.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != "second" {
			t.Errorf("expected overwritten value, got %q", value)
		}
	})
}

func TestSQLite(t *testing.T) {
	t.Run("Empty Load", func(t *testing.T) {
		db := setupTestDB(t)
		s := NewSQLite(db, "playlists")

		value, err := s.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %q", value)
		}
	})

	t.Run("Upsert Round Trip", func(t *testing.T) {
		db := setupTestDB(t)
		s := NewSQLite(db, "playlists")

		if err := s.Save(`[{"id":1}]`); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := s.Save(`[{"id":1},{"id":2}]`); err != nil {
			t.Fatalf("failed to save again: %v", err)
		}

		value, err := s.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != `[{"id":1},{"id":2}]` {
			t.Errorf("expected latest value, got %q", value)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM collections").Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected single row after upsert, got %d", count)
		}
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		db := setupTestDB(t)
		a := NewSQLite(db, "playlists")
		b := NewSQLite(db, "playlists_backup")

		if err := a.Save("live"); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := b.Save("backup"); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		value, err := a.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if value != "live" {
			t.Errorf("expected key isolation, got %q", value)
		}
	})
}

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM collections LIMIT 1"); err != nil {
			t.Errorf("collections table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count != 0 {
			t.Errorf("expected no applied migrations after rollback, got %d", count)
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		migrations, _ := loadMigrations()
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})
}
