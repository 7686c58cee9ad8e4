package models

import (
	"errors"
	"time"
)

// Sentinel errors surfaced by scope resolution and the store layer. Callers
// map these to 404/422-style responses instead of failing the process.
var (
	ErrUnitNotFound    = errors.New("organization unit not found")
	ErrInvalidScope    = errors.New("invalid caller scope")
	ErrInvalidPlatform = errors.New("unsupported platform")
)

// UnitType distinguishes a directorate from a subordinate organizational unit
type UnitType string

const (
	UnitTypeDirectorate UnitType = "directorate"
	UnitTypeOrgUnit     UnitType = "org_unit"
)

// Platform identifies the social platform a recap is computed for
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// Valid reports whether the platform is one the engine knows about
func (p Platform) Valid() bool {
	return p == PlatformInstagram || p == PlatformTikTok
}

// Status is the compliance classification of one person for one window
type Status string

const (
	StatusComplete  Status = "complete"
	StatusPartial   Status = "partial"
	StatusNone      Status = "none"
	StatusNoHandle  Status = "no_handle"
	StatusNoContent Status = "no_content"
)

// OrgUnit represents one node of the organization hierarchy. Reference data,
// read-only to the engine.
type OrgUnit struct {
	ID       string   `json:"unit_id" db:"unit_id"`
	Name     string   `json:"name" db:"name"`
	Type     UnitType `json:"unit_type" db:"unit_type"`
	ParentID *string  `json:"parent_id,omitempty" db:"parent_id"`
	RegionID string   `json:"region_id" db:"region_id"`

	// Role tag attributed to content published under this directorate.
	// Empty for subordinate units.
	RoleTag *string `json:"role_tag,omitempty" db:"role_tag"`

	InstagramEnabled bool `json:"instagram_enabled" db:"instagram_enabled"`
	TikTokEnabled    bool `json:"tiktok_enabled" db:"tiktok_enabled"`
}

// PlatformEnabled reports whether the unit participates on the platform
func (u *OrgUnit) PlatformEnabled(p Platform) bool {
	switch p {
	case PlatformInstagram:
		return u.InstagramEnabled
	case PlatformTikTok:
		return u.TikTokEnabled
	}
	return false
}

// Person represents one evaluated member of the roster
type Person struct {
	ID          string   `json:"person_id" db:"person_id"`
	Name        string   `json:"name" db:"name"`
	Rank        string   `json:"rank" db:"rank"`
	UnitID      string   `json:"unit_id" db:"unit_id"`
	Roles       []string `json:"roles" db:"roles"`
	InstaHandle *string  `json:"instagram_handle,omitempty" db:"instagram_handle"`
	TikTok      *string  `json:"tiktok_handle,omitempty" db:"tiktok_handle"`
	Active      bool     `json:"active" db:"active"`

	// Administrative compliance override. Forces complete status regardless
	// of measured engagement.
	Exception bool `json:"exception" db:"exception"`
}

// Handle returns the person's registered handle for the platform, or ""
func (p *Person) Handle(platform Platform) string {
	switch platform {
	case PlatformInstagram:
		if p.InstaHandle != nil {
			return *p.InstaHandle
		}
	case PlatformTikTok:
		if p.TikTok != nil {
			return *p.TikTok
		}
	}
	return ""
}

// HasRole reports whether the person carries the given access-role tag
func (p *Person) HasRole(tag string) bool {
	for _, r := range p.Roles {
		if r == tag {
			return true
		}
	}
	return false
}

// ContentItem is one published post or video tracked for compliance
type ContentItem struct {
	ID          string    `json:"content_id" db:"content_id"`
	UnitID      string    `json:"unit_id" db:"unit_id"`
	Platform    Platform  `json:"platform" db:"platform"`
	RoleTag     *string   `json:"role_tag,omitempty" db:"role_tag"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
}

// ComplianceRecord is the per-person result of one aggregation call.
// Derived, never persisted.
type ComplianceRecord struct {
	PersonID     string `json:"person_id"`
	DisplayName  string `json:"display_name"`
	Rank         string `json:"rank,omitempty"`
	UnitID       string `json:"unit_id"`
	EngagedCount int    `json:"engaged_count"`
	TotalContent int    `json:"total_content"`
	Status       Status `json:"status"`
}

// StatusCounts buckets a roster by compliance status
type StatusCounts struct {
	Complete  int `json:"complete"`
	Partial   int `json:"partial"`
	None      int `json:"none"`
	NoHandle  int `json:"no_handle"`
	NoContent int `json:"no_content"`
}

// Add increments the bucket for the given status
func (c *StatusCounts) Add(s Status) {
	switch s {
	case StatusComplete:
		c.Complete++
	case StatusPartial:
		c.Partial++
	case StatusNone:
		c.None++
	case StatusNoHandle:
		c.NoHandle++
	case StatusNoContent:
		c.NoContent++
	}
}

// Merge adds another set of counts into this one
func (c *StatusCounts) Merge(other StatusCounts) {
	c.Complete += other.Complete
	c.Partial += other.Partial
	c.None += other.None
	c.NoHandle += other.NoHandle
	c.NoContent += other.NoContent
}

// Total is the number of persons across all buckets
func (c StatusCounts) Total() int {
	return c.Complete + c.Partial + c.None + c.NoHandle + c.NoContent
}

// UnitRollup sums one unit's roster by status. Invariant: Counts.Total()
// equals TotalPersons.
type UnitRollup struct {
	UnitID       string       `json:"unit_id"`
	UnitName     string       `json:"unit_name"`
	TotalPersons int          `json:"total_persons"`
	Counts       StatusCounts `json:"counts"`
}

// Recap is the engine's final artifact for one aggregation call. Recomputing
// against an unchanged data snapshot yields an identical value.
type Recap struct {
	Platform      Platform           `json:"platform"`
	WindowStart   *time.Time         `json:"window_start,omitempty"`
	WindowEnd     *time.Time         `json:"window_end,omitempty"`
	TotalContent  int                `json:"total_content"`
	PerPerson     []ComplianceRecord `json:"per_person"`
	PerUnit       []UnitRollup       `json:"per_unit"`
	Totals        StatusCounts       `json:"totals"`
	TotalPersons  int                `json:"total_persons"`
	FailedFetches int                `json:"failed_fetches"`
}

// ScoreEntry is one row of a best/worst ranking, ordered by combined
// engagement score across platforms.
type ScoreEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Leaderboard holds the top-N/bottom-N ranking views
type Leaderboard struct {
	WindowStart   *time.Time   `json:"window_start,omitempty"`
	WindowEnd     *time.Time   `json:"window_end,omitempty"`
	TopPersons    []ScoreEntry `json:"top_persons"`
	BottomPersons []ScoreEntry `json:"bottom_persons"`
	TopUnits      []ScoreEntry `json:"top_units"`
	BottomUnits   []ScoreEntry `json:"bottom_units"`
}
