package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/internal/period"
	"github.com/cicero78M/recap-engine/internal/scope"
)

// defaultLeaderboardLimit is the N used for top/bottom views when the
// caller does not specify one
const defaultLeaderboardLimit = 5

// LeaderboardRequest describes a best/worst-performer ranking call
type LeaderboardRequest struct {
	UnitID       string
	Period       period.Kind
	Anchor       time.Time
	CustomStart  string
	CustomEnd    string
	CallerRole   string
	CallerScope  string
	RegionFilter string
	Limit        int
}

// Leaderboard ranks persons and units by combined engagement score across
// both platforms, descending. The ordering is distinct from the
// compliance-listing sort; priority rules play no part here.
func (e *Engine) Leaderboard(ctx context.Context, req LeaderboardRequest) (*models.Leaderboard, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	anchor := req.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	window := period.Resolve(req.Period, anchor, e.loc, req.CustomStart, req.CustomEnd, e.logger)

	sc, err := e.scopes.Resolve(ctx, scope.Request{
		UnitID:       req.UnitID,
		CallerRole:   req.CallerRole,
		CallerScope:  req.CallerScope,
		RegionFilter: req.RegionFilter,
	})
	if err != nil {
		return nil, err
	}

	roster, err := e.store.Roster(ctx, sc.RosterFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	// Unit metadata up front: display names plus the per-platform flags that
	// gate which platforms each unit is scored on
	unitsByID := make(map[string]models.OrgUnit)
	if sc.Directorate {
		units, err := e.store.UnitsWithRole(ctx, sc.RosterRoleTag, sc.RegionFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to list units: %w", err)
		}
		for _, unit := range units {
			unitsByID[unit.ID] = unit
		}
	} else {
		unitsByID[sc.Unit.ID] = *sc.Unit
	}

	enabled := func(unitID string, platform models.Platform) bool {
		unit, ok := unitsByID[unitID]
		if !ok {
			return true
		}
		return unit.PlatformEnabled(platform)
	}

	// Count engagement per person per platform; a disabled platform
	// contributes nothing to the unit's or its personnel's scores
	scores := make(map[string]int, len(roster))
	for _, platform := range []models.Platform{models.PlatformInstagram, models.PlatformTikTok} {
		if !sc.Unit.PlatformEnabled(platform) {
			continue
		}

		items, err := e.store.ContentItems(ctx, platform, sc.ContentFilter(), window)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s content: %w", platform, err)
		}
		sets, _ := e.fetchEngagement(ctx, platform, items)

		for _, person := range roster {
			if !enabled(person.UnitID, platform) {
				continue
			}
			handle := NormalizeHandle(person.Handle(platform))
			if handle == "" {
				continue
			}
			for _, set := range sets {
				if _, ok := set[handle]; ok {
					scores[person.ID]++
				}
			}
		}
	}

	unitNames := make(map[string]string, len(unitsByID))
	for id, unit := range unitsByID {
		unitNames[id] = unit.Name
	}

	// Roster order is deterministic, so entry construction is too
	persons := make([]models.ScoreEntry, 0, len(roster))
	unitScores := make(map[string]int, len(unitNames))
	for _, person := range roster {
		persons = append(persons, models.ScoreEntry{
			ID:    person.ID,
			Name:  person.Name,
			Score: scores[person.ID],
		})
		unitScores[person.UnitID] += scores[person.ID]
	}

	units := make([]models.ScoreEntry, 0, len(unitNames))
	for _, person := range roster {
		if _, seen := unitNames[person.UnitID]; !seen {
			unitNames[person.UnitID] = person.UnitID
		}
	}
	added := make(map[string]bool, len(unitNames))
	for _, person := range roster {
		if added[person.UnitID] {
			continue
		}
		added[person.UnitID] = true
		units = append(units, models.ScoreEntry{
			ID:    person.UnitID,
			Name:  unitNames[person.UnitID],
			Score: unitScores[person.UnitID],
		})
	}

	SortByScore(persons)
	SortByScore(units)

	board := &models.Leaderboard{
		TopPersons:    TopN(persons, limit),
		BottomPersons: BottomN(persons, limit),
		TopUnits:      TopN(units, limit),
		BottomUnits:   BottomN(units, limit),
	}
	if !window.Unbounded {
		ws, we := window.Start, window.End
		board.WindowStart = &ws
		board.WindowEnd = &we
	}

	return board, nil
}
