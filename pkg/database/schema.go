package database

import (
	"context"
	"fmt"

	dbsql "github.com/cicero78M/recap-engine/pkg/database/sql"
	"github.com/cicero78M/recap-engine/pkg/logging"
)

// ApplySchema executes the embedded schema files against the database in
// lexical order. Every statement is idempotent (IF NOT EXISTS), so applying
// on startup against an already-provisioned database is a no-op.
func ApplySchema(ctx context.Context, db PostgresConn, logger logging.Logger) error {
	entries, err := dbsql.Content.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("failed to list embedded schema: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		content, err := dbsql.Content.ReadFile("schema/" + name)
		if err != nil {
			return fmt.Errorf("failed to read embedded schema file %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to apply schema file %s: %w", name, err)
		}
		logger.WithField("file", name).Info("Schema file applied")
	}

	return nil
}
