package migrations

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestSchemaFilesEmbedded(t *testing.T) {
	entries, err := schemaFS.ReadDir(".")
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}

	// Схема состоит из двух таблиц: users и orders
	if len(sqlFiles) != 2 {
		t.Fatalf("embedded .sql files = %v, want 2 migrations", sqlFiles)
	}
	if !strings.Contains(sqlFiles[0], "users") {
		t.Errorf("first migration = %q, want users table", sqlFiles[0])
	}
	if !strings.Contains(sqlFiles[1], "orders") {
		t.Errorf("second migration = %q, want orders table", sqlFiles[1])
	}
}

func TestRunWithInvalidDB(t *testing.T) {
	db, err := sql.Open("pgx", "invalid://connection")
	if err != nil {
		t.Skipf("Cannot create test DB connection: %v", err)
	}
	defer db.Close()

	// Run должен вернуть ошибку для невалидного подключения
	if err := Run(db); err == nil {
		t.Error("Expected error for invalid DB connection, got nil")
	}
}
