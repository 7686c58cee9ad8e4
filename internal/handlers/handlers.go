package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cicero78M/recap-engine/internal/engine"
	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/internal/period"
	"github.com/cicero78M/recap-engine/pkg/logging"
	"github.com/cicero78M/recap-engine/pkg/middleware"
)

var (
	eng    *engine.Engine
	logger logging.Logger
)

// Init initializes the handlers with the aggregation engine and logger
func Init(e *engine.Engine, log logging.Logger) {
	eng = e
	logger = log
}

// GetRecap computes a compliance recap for the requested unit, platform
// and period
func GetRecap(c middleware.Context) {
	req := engine.RecapRequest{
		UnitID:       c.Query("unit_id"),
		Platform:     models.Platform(c.Query("platform")),
		Period:       period.ParseKind(c.Query("period")),
		CustomStart:  c.Query("start"),
		CustomEnd:    c.Query("end"),
		CallerRole:   c.Query("role"),
		CallerScope:  c.Query("scope"),
		RegionFilter: c.Query("region"),
	}

	recap, err := eng.ComputeRecap(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to compute recap")
		return
	}

	c.JSON(http.StatusOK, recap)
}

// GetLeaderboard returns top and bottom performers by combined engagement
// score across platforms
func GetLeaderboard(c middleware.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	req := engine.LeaderboardRequest{
		UnitID:       c.Query("unit_id"),
		Period:       period.ParseKind(c.Query("period")),
		CustomStart:  c.Query("start"),
		CustomEnd:    c.Query("end"),
		CallerRole:   c.Query("role"),
		CallerScope:  c.Query("scope"),
		RegionFilter: c.Query("region"),
		Limit:        limit,
	}

	board, err := eng.Leaderboard(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to compute leaderboard")
		return
	}

	c.JSON(http.StatusOK, board)
}

func respondError(c middleware.Context, err error, msg string) {
	switch {
	case errors.Is(err, models.ErrUnitNotFound):
		c.JSON(http.StatusNotFound, middleware.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidScope), errors.Is(err, models.ErrInvalidPlatform):
		c.JSON(http.StatusBadRequest, middleware.H{"error": err.Error()})
	default:
		logger.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, middleware.H{"error": "Internal server error"})
	}
}
