package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/cicero78M/recap-engine/internal/models"
)

// Roster lists the active persons matching the filter, joined against their
// owning unit so regional predicates can be applied. Inactive persons are
// never evaluated. Ordering is fixed so identical inputs produce identical
// row order.
func (s *Store) Roster(ctx context.Context, f *Filter) ([]models.Person, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.person_id, p.name, p.rank, p.unit_id, COALESCE(p.roles, '{}'),
		       p.instagram_handle, p.tiktok_handle, p.active, p.exception
		FROM personnel p
		JOIN org_units u ON u.unit_id = p.unit_id
		WHERE p.active = true
	`
	var args []interface{}
	if f != nil && !f.Empty() {
		clause, bound := f.Clause(1)
		query += " AND " + clause
		args = bound
	}
	query += " ORDER BY p.person_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var person models.Person
		if err := rows.Scan(
			&person.ID, &person.Name, &person.Rank, &person.UnitID,
			pq.Array(&person.Roles),
			&person.InstaHandle, &person.TikTok, &person.Active, &person.Exception,
		); err != nil {
			return nil, fmt.Errorf("failed to scan person row: %w", err)
		}
		persons = append(persons, person)
	}

	return persons, rows.Err()
}
