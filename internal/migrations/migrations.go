package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var schemaFS embed.FS

// Run применяет встроенные миграции схемы (users, orders).
// Вызывается один раз при старте приложения, до открытия пула соединений.
func Run(db *sql.DB) error {
	goose.SetBaseFS(schemaFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
