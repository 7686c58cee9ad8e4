package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cicero78M/recap-engine/internal/models"
)

const unitColumns = `u.unit_id, u.name, u.unit_type, u.parent_id, u.region_id, u.role_tag, u.instagram_enabled, u.tiktok_enabled`

// UnitByID fetches one organization unit. An unknown identifier yields
// models.ErrUnitNotFound so callers can answer with a 404-equivalent.
func (s *Store) UnitByID(ctx context.Context, unitID string) (*models.OrgUnit, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + unitColumns + `
		FROM org_units u
		WHERE u.unit_id = $1
	`

	var unit models.OrgUnit
	err := s.db.QueryRowContext(ctx, query, unitID).Scan(
		&unit.ID, &unit.Name, &unit.Type, &unit.ParentID, &unit.RegionID,
		&unit.RoleTag, &unit.InstagramEnabled, &unit.TikTokEnabled,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unit %s: %w", unitID, models.ErrUnitNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit %s: %w", unitID, err)
	}

	return &unit, nil
}

// UnitsWithRole lists the units that have at least one active person holding
// the role tag, optionally narrowed to one regional division. Used to fan
// out directorate-wide roll-ups per subordinate unit.
func (s *Store) UnitsWithRole(ctx context.Context, roleTag, regionID string) ([]models.OrgUnit, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	f := NewFilter().HasElement("p.roles", roleTag)
	if regionID != "" {
		f.Eq("u.region_id", regionID)
	}
	clause, args := f.Clause(1)

	query := `
		SELECT DISTINCT ` + unitColumns + `
		FROM org_units u
		JOIN personnel p ON p.unit_id = u.unit_id
		WHERE p.active = true AND ` + clause + `
		ORDER BY u.name, u.unit_id
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list units for role %s: %w", roleTag, err)
	}
	defer rows.Close()

	var units []models.OrgUnit
	for rows.Next() {
		var unit models.OrgUnit
		if err := rows.Scan(
			&unit.ID, &unit.Name, &unit.Type, &unit.ParentID, &unit.RegionID,
			&unit.RoleTag, &unit.InstagramEnabled, &unit.TikTokEnabled,
		); err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}
