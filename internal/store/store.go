package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cicero78M/recap-engine/pkg/logging"
)

// Store provides read-only access to the roster, content and engagement
// tables populated by the ingestion pipelines. Every query carries a
// deadline so no aggregation call can block indefinitely on the database.
type Store struct {
	db           *sql.DB
	logger       logging.Logger
	queryTimeout time.Duration
}

// New creates a store around an established connection pool
func New(db *sql.DB, logger logging.Logger, queryTimeout time.Duration) *Store {
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &Store{
		db:           db,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}
