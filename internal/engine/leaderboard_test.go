package engine

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cicero78M/recap-engine/internal/period"
	"github.com/cicero78M/recap-engine/pkg/testutil"
)

func TestLeaderboardCombinesPlatforms(t *testing.T) {
	eng, mock := newTestEngine(t)

	mock.ExpectQuery(`FROM org_units u\s+WHERE u\.unit_id`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns).
			AddRow("unit-07", "District Office 07", "org_unit", nil, "region-3", nil, true, true))

	mock.ExpectQuery(`FROM personnel p`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.RosterColumns).
			AddRow("p-1", "Alice", "Inspector", "unit-07", "{}", "alice", "alice_tt", true, false).
			AddRow("p-2", "Bob", "Sergeant", "unit-07", "{}", "bob", nil, true, false).
			AddRow("p-3", "Carol", "Sergeant", "unit-07", "{}", nil, nil, true, false))

	published := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("unit-07", "instagram").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns).
			AddRow("ig-1", "unit-07", "instagram", nil, published))
	mock.ExpectQuery(`FROM engagement_events`).
		WithArgs("instagram", "ig-1").
		WillReturnRows(sqlmock.NewRows(testutil.EngagementColumns).AddRow("{alice,bob}"))

	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("unit-07", "tiktok").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns).
			AddRow("tt-1", "unit-07", "tiktok", nil, published))
	mock.ExpectQuery(`FROM engagement_events`).
		WithArgs("tiktok", "tt-1").
		WillReturnRows(sqlmock.NewRows(testutil.EngagementColumns).AddRow("{alice_tt}"))

	board, err := eng.Leaderboard(context.Background(), LeaderboardRequest{
		UnitID: "unit-07",
		Period: period.All,
		Limit:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(board.TopPersons) != 2 {
		t.Fatalf("expected 2 top persons, got %d", len(board.TopPersons))
	}
	// Alice scores on both platforms
	if board.TopPersons[0].ID != "p-1" || board.TopPersons[0].Score != 2 {
		t.Fatalf("unexpected leader: %+v", board.TopPersons[0])
	}
	if board.TopPersons[1].ID != "p-2" || board.TopPersons[1].Score != 1 {
		t.Fatalf("unexpected runner-up: %+v", board.TopPersons[1])
	}

	// Worst first
	if board.BottomPersons[0].ID != "p-3" || board.BottomPersons[0].Score != 0 {
		t.Fatalf("unexpected bottom entry: %+v", board.BottomPersons[0])
	}

	if len(board.TopUnits) != 1 || board.TopUnits[0].Score != 3 {
		t.Fatalf("unexpected unit ranking: %+v", board.TopUnits)
	}
	if board.TopUnits[0].Name != "District Office 07" {
		t.Fatalf("unit entries must carry display names, got %q", board.TopUnits[0].Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLeaderboardDirectorateHonorsUnitFlags(t *testing.T) {
	eng, mock := newTestEngine(t)

	mock.ExpectQuery(`FROM org_units u\s+WHERE u\.unit_id`).
		WithArgs("dit-d").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns).
			AddRow("dit-d", "Directorate D", "directorate", nil, "region-1", "d-role", true, true))

	mock.ExpectQuery(`FROM personnel p`).
		WithArgs("d-role").
		WillReturnRows(sqlmock.NewRows(testutil.RosterColumns).
			AddRow("p-1", "Alice", "Inspector", "unit-u1", "{d-role}", "alice", nil, true, false).
			AddRow("p-2", "Bob", "Sergeant", "unit-u2", "{d-role}", "bob", nil, true, false))

	// U2 has instagram disabled, so Bob's engagement there may not score
	mock.ExpectQuery(`SELECT DISTINCT`).
		WithArgs("d-role").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns).
			AddRow("unit-u1", "Unit One", "org_unit", "dit-d", "region-1", nil, true, true).
			AddRow("unit-u2", "Unit Two", "org_unit", "dit-d", "region-1", nil, false, true))

	published := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("d-role", "instagram").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns).
			AddRow("c-1", "unit-u1", "instagram", "d-role", published))
	mock.ExpectQuery(`FROM engagement_events`).
		WithArgs("instagram", "c-1").
		WillReturnRows(sqlmock.NewRows(testutil.EngagementColumns).
			AddRow(testutil.PGTextArray("alice", "bob")))

	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("d-role", "tiktok").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns))

	board, err := eng.Leaderboard(context.Background(), LeaderboardRequest{
		UnitID: "dit-d",
		Period: period.All,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if board.TopPersons[0].ID != "p-1" || board.TopPersons[0].Score != 1 {
		t.Fatalf("unexpected leader: %+v", board.TopPersons[0])
	}
	for _, entry := range board.TopPersons {
		if entry.ID == "p-2" && entry.Score != 0 {
			t.Fatalf("disabled unit must not score: %+v", entry)
		}
	}
	for _, entry := range board.TopUnits {
		if entry.ID == "unit-u2" && entry.Score != 0 {
			t.Fatalf("disabled unit roll-up must not score: %+v", entry)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLeaderboardSkipsDisabledPlatform(t *testing.T) {
	eng, mock := newTestEngine(t)

	// TikTok disabled for the unit: only Instagram content is consulted
	mock.ExpectQuery(`FROM org_units u\s+WHERE u\.unit_id`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns).
			AddRow("unit-07", "District Office 07", "org_unit", nil, "region-3", nil, true, false))

	mock.ExpectQuery(`FROM personnel p`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.RosterColumns).
			AddRow("p-1", "Alice", "Inspector", "unit-07", "{}", "alice", "alice_tt", true, false))

	published := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("unit-07", "instagram").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns).
			AddRow("ig-1", "unit-07", "instagram", nil, published))
	mock.ExpectQuery(`FROM engagement_events`).
		WithArgs("instagram", "ig-1").
		WillReturnRows(sqlmock.NewRows(testutil.EngagementColumns).AddRow("{alice}"))

	board, err := eng.Leaderboard(context.Background(), LeaderboardRequest{
		UnitID: "unit-07",
		Period: period.All,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if board.TopPersons[0].Score != 1 {
		t.Fatalf("expected instagram-only score 1, got %d", board.TopPersons[0].Score)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
