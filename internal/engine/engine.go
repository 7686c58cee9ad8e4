package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/internal/period"
	"github.com/cicero78M/recap-engine/internal/scope"
	"github.com/cicero78M/recap-engine/internal/store"
	"github.com/cicero78M/recap-engine/pkg/logging"
	"github.com/cicero78M/recap-engine/pkg/monitoring"
)

// defaultFanout caps concurrent per-unit and per-item reads, matching the
// fan-out discipline used against external APIs elsewhere in the pipeline
const defaultFanout = 3

// Engine computes engagement compliance recaps on demand. All reads go
// through the store; nothing is cached between calls.
type Engine struct {
	store  *store.Store
	scopes *scope.Resolver
	logger logging.Logger
	loc    *time.Location
	rules  []PriorityRule
	fanout int

	recaps        *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// Config holds the engine's collaborators
type Config struct {
	Store         *store.Store
	Scopes        *scope.Resolver
	Logger        logging.Logger
	Location      *time.Location
	PriorityRules []PriorityRule
	Fanout        int
	Metrics       *monitoring.MetricsCollector
}

// New creates an engine from its configuration
func New(cfg Config) *Engine {
	fanout := cfg.Fanout
	if fanout <= 0 {
		fanout = defaultFanout
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	e := &Engine{
		store:  cfg.Store,
		scopes: cfg.Scopes,
		logger: cfg.Logger,
		loc:    loc,
		rules:  cfg.PriorityRules,
		fanout: fanout,
	}
	if cfg.Metrics != nil {
		e.recaps, e.fetchFailures, e.duration = cfg.Metrics.CreateRecapMetrics()
	}
	return e
}

// RecapRequest describes one aggregation call
type RecapRequest struct {
	UnitID       string
	Platform     models.Platform
	Period       period.Kind
	Anchor       time.Time
	CustomStart  string
	CustomEnd    string
	CallerRole   string
	CallerScope  string
	RegionFilter string
}

// ComputeRecap resolves the scope and window, correlates engagement,
// classifies every person in the roster and returns the ranked recap.
// Derived data lives only for the duration of the call.
func (e *Engine) ComputeRecap(ctx context.Context, req RecapRequest) (*models.Recap, error) {
	start := time.Now()
	recap, err := e.computeRecap(ctx, req)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if e.recaps != nil {
		e.recaps.WithLabelValues(string(req.Platform), status).Inc()
	}
	if e.duration != nil {
		e.duration.WithLabelValues(string(req.Platform)).Observe(time.Since(start).Seconds())
	}

	return recap, err
}

func (e *Engine) computeRecap(ctx context.Context, req RecapRequest) (*models.Recap, error) {
	if !req.Platform.Valid() {
		return nil, fmt.Errorf("platform %q: %w", req.Platform, models.ErrInvalidPlatform)
	}

	// Correlation ID for log lines only; the recap itself stays
	// deterministic across identical calls
	log := e.logger.WithFields(logging.Fields{
		"recap_id": uuid.NewString(),
		"unit_id":  req.UnitID,
		"platform": req.Platform,
		"period":   req.Period,
	})

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

	// A unit with the platform disabled gets the empty-window shape: no
	// content is fetched and nobody can be punished for inactivity on it
	var items []models.ContentItem
	if sc.Unit.PlatformEnabled(req.Platform) {
		items, err = e.store.ContentItems(ctx, req.Platform, sc.ContentFilter(), window)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch window content: %w", err)
		}
	} else {
		log.Info("Platform disabled for unit, recap covers no content")
	}
	total := len(items)

	sets, failed := e.fetchEngagement(ctx, req.Platform, items)

	var perPerson []models.ComplianceRecord
	var perUnit []models.UnitRollup

	if sc.Directorate {
		units, err := e.store.UnitsWithRole(ctx, sc.RosterRoleTag, sc.RegionFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to list units for directorate scope: %w", err)
		}

		// Each unit's roll-up is an independent read merged after all
		// reads complete, so no locking is needed.
		unitRecords := make([][]models.ComplianceRecord, len(units))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.fanout)
		for i, unit := range units {
			i, unit := i, unit
			g.Go(func() error {
				roster, err := e.store.Roster(gctx, sc.RosterFilterForUnit(unit.ID))
				if err != nil {
					return fmt.Errorf("failed to fetch roster for unit %s: %w", unit.ID, err)
				}
				if unit.PlatformEnabled(req.Platform) {
					unitRecords[i] = e.evaluate(roster, req.Platform, sets, total)
				} else {
					// Disabled units are rolled up against an empty window
					unitRecords[i] = e.evaluate(roster, req.Platform, nil, 0)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i, unit := range units {
			perUnit = append(perUnit, buildRollup(unit, unitRecords[i]))
			perPerson = append(perPerson, unitRecords[i]...)
		}
	} else {
		roster, err := e.store.Roster(ctx, sc.RosterFilter())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch roster: %w", err)
		}
		records := e.evaluate(roster, req.Platform, sets, total)
		perUnit = []models.UnitRollup{buildRollup(*sc.Unit, records)}
		perPerson = records
	}

	SortCompliance(perPerson, e.rules)

	var totals models.StatusCounts
	for _, rollup := range perUnit {
		totals.Merge(rollup.Counts)
	}

	recap := &models.Recap{
		Platform:      req.Platform,
		TotalContent:  total,
		PerPerson:     perPerson,
		PerUnit:       perUnit,
		Totals:        totals,
		TotalPersons:  totals.Total(),
		FailedFetches: failed,
	}
	if !window.Unbounded {
		ws, we := window.Start, window.End
		recap.WindowStart = &ws
		recap.WindowEnd = &we
	}

	log.WithFields(logging.Fields{
		"total_content":  total,
		"total_persons":  recap.TotalPersons,
		"units":          len(perUnit),
		"failed_fetches": failed,
	}).Info("Recap computed")

	return recap, nil
}

// evaluate classifies a roster against the fetched engagement sets. The sets
// are read-only here and shared across concurrent unit evaluations.
func (e *Engine) evaluate(roster []models.Person, platform models.Platform, sets []map[string]struct{}, total int) []models.ComplianceRecord {
	records := make([]models.ComplianceRecord, 0, len(roster))
	for _, person := range roster {
		engaged := 0
		if handle := NormalizeHandle(person.Handle(platform)); handle != "" {
			for _, set := range sets {
				if _, ok := set[handle]; ok {
					engaged++
				}
			}
		}

		status := Classify(person, platform, engaged, total)
		if person.Exception {
			// Administrative override reports maximum compliance
			engaged = total
		}

		records = append(records, models.ComplianceRecord{
			PersonID:     person.ID,
			DisplayName:  person.Name,
			Rank:         person.Rank,
			UnitID:       person.UnitID,
			EngagedCount: engaged,
			TotalContent: total,
			Status:       status,
		})
	}
	return records
}

func buildRollup(unit models.OrgUnit, records []models.ComplianceRecord) models.UnitRollup {
	rollup := models.UnitRollup{
		UnitID:       unit.ID,
		UnitName:     unit.Name,
		TotalPersons: len(records),
	}
	for _, record := range records {
		rollup.Counts.Add(record.Status)
	}
	return rollup
}
