package database

import (
	"fmt"
	"strings"

	"shoppinglist-api/internal/validation"

	"gorm.io/gorm"
)

// Schema returns the DDL for the lists and items tables in the given
// dialect. CHECK constraints come from the validation rule table.
func Schema(dialect string) []string {
	ts := "TIMESTAMPTZ"
	if dialect == DriverSQLite {
		ts = "DATETIME"
	}

	lists := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS lists (
	id CHAR(32) PRIMARY KEY,
	name TEXT NOT NULL,
	created_at %[1]s NOT NULL,
	updated_at %[1]s NOT NULL%[2]s
)`, ts, checkClauses(validation.ListsTable))

	items := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS items (
	id CHAR(32) PRIMARY KEY,
	list_id CHAR(32) NOT NULL,
	name TEXT NOT NULL,
	qty INTEGER NOT NULL DEFAULT 1,
	checked BOOLEAN NOT NULL DEFAULT false,
	notes TEXT NOT NULL DEFAULT '',
	brand TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION,
	weight DOUBLE PRECISION,
	created_at %[1]s NOT NULL,
	updated_at %[1]s NOT NULL%[2]s
)`, ts, checkClauses(validation.ItemsTable))

	return []string{
		lists,
		"CREATE INDEX IF NOT EXISTS idx_lists_created_at ON lists (created_at DESC)",
		items,
		"CREATE INDEX IF NOT EXISTS idx_items_list_id ON items (list_id)",
		"CREATE INDEX IF NOT EXISTS idx_items_created_at ON items (created_at DESC)",
	}
}

func checkClauses(table string) string {
	var b strings.Builder
	for _, c := range validation.ConstraintsFor(table) {
		b.WriteString(",\n\t")
		b.WriteString(c.SQL())
	}
	return b.String()
}

// EnsureSchema creates the tables and indexes if they do not exist. It is
// used for SQLite and tests; PostgreSQL deployments run the migrations.
func EnsureSchema(db *gorm.DB) error {
	dialect := db.Dialector.Name()
	for _, stmt := range Schema(dialect) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
