package store

import (
	"context"
	"fmt"

	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/internal/period"
)

// ContentItems lists the published items matching the content scope whose
// publish time falls inside the window. The caller's filter is not mutated.
func (s *Store) ContentItems(ctx context.Context, platform models.Platform, f *Filter, w period.Window) ([]models.ContentItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	scoped := NewFilter().Eq("c.platform", string(platform))
	if f != nil && !f.Empty() {
		scoped = f.Clone().Eq("c.platform", string(platform))
	}
	scoped.Window("c.published_at", w)
	clause, args := scoped.Clause(1)

	query := `
		SELECT c.content_id, c.unit_id, c.platform, c.role_tag, c.published_at
		FROM content_items c
		WHERE ` + clause + `
		ORDER BY c.published_at, c.content_id
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(&item.ID, &item.UnitID, &item.Platform, &item.RoleTag, &item.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
