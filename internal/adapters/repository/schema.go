package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the DDL for d.
func Schema(d Dialect) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + d.Name + ".sql")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSchema, d.Name, err)
	}
	return string(b), nil
}

// ApplySchema creates the Flowers table and its index if missing.
func ApplySchema(ctx context.Context, db *sql.DB, d Dialect) error {
	ddl, err := Schema(d)
	if err != nil {
		return err
	}
	for _, stmt := range splitStatements(ddl) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrSchema, err)
		}
	}
	return nil
}

// DropSchema removes the Flowers table.
func DropSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS Flowers"); err != nil {
		return fmt.Errorf("%w: drop: %w", ErrSchema, err)
	}
	return nil
}

func splitStatements(ddl string) []string {
	var out []string
	for _, stmt := range strings.Split(ddl, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
