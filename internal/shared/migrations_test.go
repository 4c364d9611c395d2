package shared

import (
	"database/sql"
	"testing"
	"testing/fstest"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations(migrationFiles, "sql")
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "favorites" {
			t.Errorf("expected first migration named favorites, got %q", migrations[0].Name)
		}
	})

	t.Run("loadMigrations Incomplete Pair", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/0001_things_up.sql": {Data: []byte("CREATE TABLE things (id TEXT);")},
		}

		if _, err := loadMigrations(fsys, "sql"); err == nil {
			t.Error("expected error for migration without down script")
		}
	})

	t.Run("loadMigrations Skips Unversioned Files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"sql/README.sql":      {Data: []byte("-- notes")},
			"sql/0002_b_up.sql":   {Data: []byte("CREATE TABLE b (id TEXT);")},
			"sql/0002_b_down.sql": {Data: []byte("DROP TABLE b;")},
			"sql/0001_a_up.sql":   {Data: []byte("CREATE TABLE a (id TEXT);")},
			"sql/0001_a_down.sql": {Data: []byte("DROP TABLE a;")},
			"sql/nested/x.sql":    {Data: []byte("")},
		}

		migrations, err := loadMigrations(fsys, "sql")
		if err != nil {
			t.Fatalf("loadMigrations() error = %v", err)
		}
		if len(migrations) != 2 {
			t.Fatalf("expected 2 migrations, got %d", len(migrations))
		}
		if migrations[0].Version != 1 || migrations[1].Version != 2 {
			t.Errorf("unexpected order: %+v", migrations)
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db := newTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM favorites LIMIT 1"); err != nil {
			t.Errorf("favorites table should exist after migrations: %v", err)
		}

		applied, err := AppliedVersions(db)
		if err != nil {
			t.Fatalf("AppliedVersions() error = %v", err)
		}
		if !applied[1] {
			t.Error("expected version 1 to be applied")
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM favorites LIMIT 1"); err == nil {
			t.Error("favorites table should be dropped after rollback")
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing is left to rollback")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db := newTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations(migrationFiles, "sql")
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		script := "-- header\nCREATE TABLE a (id TEXT); -- trailing\n\n;INSERT INTO a VALUES ('x');"
		stmts := splitStatements(script)
		if len(stmts) != 2 {
			t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
		}
		if stmts[0] != "CREATE TABLE a (id TEXT)" {
			t.Errorf("unexpected first statement %q", stmts[0])
		}
	})

	t.Run("OpenMigrated", func(t *testing.T) {
		db, err := OpenMigrated(DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("OpenMigrated() error = %v", err)
		}
		defer db.Close()

		var value int
		if err := db.QueryRow("SELECT value FROM favorites_sequence WHERE id = 1").Scan(&value); err != nil {
			t.Fatalf("expected favorites_sequence row: %v", err)
		}
		if value != 0 {
			t.Errorf("expected sequence to start at 0, got %d", value)
		}
	})
}
