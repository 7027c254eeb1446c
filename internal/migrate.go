package internal

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var entitlementSchema embed.FS

// RunMigrations brings the entitlement schema up to date. Runs on every
// start when STORE_BACKEND is postgres; goose tracks applied versions in
// its own table, so a current database is a no-op.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(entitlementSchema)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.Up(db, "migrations")
}
