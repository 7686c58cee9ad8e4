package testutil

import "strings"

// Column sets matching the store's SELECT lists, for building sqlmock rows
var (
	UnitColumns = []string{
		"unit_id", "name", "unit_type", "parent_id", "region_id",
		"role_tag", "instagram_enabled", "tiktok_enabled",
	}

	RosterColumns = []string{
		"person_id", "name", "rank", "unit_id", "roles",
		"instagram_handle", "tiktok_handle", "active", "exception",
	}

	ContentColumns = []string{
		"content_id", "unit_id", "platform", "role_tag", "published_at",
	}

	EngagementColumns = []string{"handles"}
)

// PGTextArray renders values as a Postgres text[] literal the way the
// driver returns it, e.g. {alice,bob}. Values must not contain commas,
// braces or quotes; fixtures keep handles simple.
func PGTextArray(values ...string) string {
	return "{" + strings.Join(values, ",") + "}"
}
