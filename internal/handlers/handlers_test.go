package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/cicero78M/recap-engine/internal/engine"
	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/internal/scope"
	"github.com/cicero78M/recap-engine/internal/store"
	"github.com/cicero78M/recap-engine/pkg/logging"
	"github.com/cicero78M/recap-engine/pkg/testutil"
)

func setupRecapRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)

	logger := logging.NewLogger()
	st := store.New(db, logger, 5*time.Second)
	Init(engine.New(engine.Config{
		Store:    st,
		Scopes:   scope.NewResolver(st, logger),
		Logger:   logger,
		Location: time.UTC,
	}), logger)

	router := gin.New()
	router.GET("/api/recap", GetRecap)
	router.GET("/api/leaderboard", GetLeaderboard)
	return router, mock
}

func TestGetRecapReturnsRankedListing(t *testing.T) {
	router, mock := setupRecapRouter(t)

	mock.ExpectQuery(`FROM org_units u\s+WHERE u\.unit_id`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns).
			AddRow("unit-07", "District Office 07", "org_unit", nil, "region-3", nil, true, true))

	published := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("unit-07", "instagram").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns).
			AddRow("c-1", "unit-07", "instagram", nil, published))

	mock.ExpectQuery(`FROM engagement_events`).
		WithArgs("instagram", "c-1").
		WillReturnRows(sqlmock.NewRows(testutil.EngagementColumns).
			AddRow(testutil.PGTextArray("alice")))

	mock.ExpectQuery(`FROM personnel p`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.RosterColumns).
			AddRow("p-1", "Alice", "Inspector", "unit-07", "{}", "alice", nil, true, false).
			AddRow("p-2", "Bob", "Sergeant", "unit-07", "{}", "bob", nil, true, false))

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recap?unit_id=unit-07&platform=instagram&period=all", nil)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var recap models.Recap
	if err := json.Unmarshal(resp.Body.Bytes(), &recap); err != nil {
		t.Fatalf("failed to decode recap: %v", err)
	}
	if recap.TotalPersons != 2 || recap.TotalContent != 1 {
		t.Fatalf("unexpected recap totals: %+v", recap)
	}
	if recap.PerPerson[0].PersonID != "p-1" || recap.PerPerson[0].Status != models.StatusComplete {
		t.Fatalf("unexpected leader record: %+v", recap.PerPerson[0])
	}
	if recap.PerPerson[1].Status != models.StatusNone {
		t.Fatalf("unexpected trailing record: %+v", recap.PerPerson[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetRecapUnknownUnitIs404(t *testing.T) {
	router, mock := setupRecapRouter(t)

	mock.ExpectQuery(`FROM org_units u\s+WHERE u\.unit_id`).
		WithArgs("unit-missing").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns))

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recap?unit_id=unit-missing&platform=instagram&period=daily", nil)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestGetRecapInvalidPlatformIs400(t *testing.T) {
	router, _ := setupRecapRouter(t)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recap?unit_id=unit-07&platform=myspace&period=daily", nil)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetLeaderboardHonorsLimit(t *testing.T) {
	router, mock := setupRecapRouter(t)

	mock.ExpectQuery(`FROM org_units u\s+WHERE u\.unit_id`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.UnitColumns).
			AddRow("unit-07", "District Office 07", "org_unit", nil, "region-3", nil, true, false))

	mock.ExpectQuery(`FROM personnel p`).
		WithArgs("unit-07").
		WillReturnRows(sqlmock.NewRows(testutil.RosterColumns).
			AddRow("p-1", "Alice", "Inspector", "unit-07", "{}", "alice", nil, true, false).
			AddRow("p-2", "Bob", "Sergeant", "unit-07", "{}", "bob", nil, true, false))

	published := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM content_items c`).
		WithArgs("unit-07", "instagram").
		WillReturnRows(sqlmock.NewRows(testutil.ContentColumns).
			AddRow("c-1", "unit-07", "instagram", nil, published))
	mock.ExpectQuery(`FROM engagement_events`).
		WithArgs("instagram", "c-1").
		WillReturnRows(sqlmock.NewRows(testutil.EngagementColumns).
			AddRow(testutil.PGTextArray("alice")))

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?unit_id=unit-07&period=all&limit=1", nil)
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var board models.Leaderboard
	if err := json.Unmarshal(resp.Body.Bytes(), &board); err != nil {
		t.Fatalf("failed to decode leaderboard: %v", err)
	}
	if len(board.TopPersons) != 1 || board.TopPersons[0].ID != "p-1" {
		t.Fatalf("unexpected top persons: %+v", board.TopPersons)
	}
}
