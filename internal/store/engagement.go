package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/cicero78M/recap-engine/internal/models"
)

// EngagerHandles returns the deduplicated handle set recorded for one
// content item on one platform. A missing row means no engagement has been
// observed yet, which is an empty set, not an error.
func (s *Store) EngagerHandles(ctx context.Context, platform models.Platform, contentID string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT handles
		FROM engagement_events
		WHERE platform = $1 AND content_id = $2
	`

	var handles []string
	err := s.db.QueryRowContext(ctx, query, string(platform), contentID).Scan(pq.Array(&handles))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch engagement for %s: %w", contentID, err)
	}

	return handles, nil
}
