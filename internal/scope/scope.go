package scope

import (
	"context"
	"fmt"

	"github.com/cicero78M/recap-engine/internal/models"
	"github.com/cicero78M/recap-engine/internal/store"
	"github.com/cicero78M/recap-engine/pkg/logging"
)

// Caller scope values
const (
	ScopeUnit        = "unit"
	ScopeDirectorate = "directorate"
)

// RoleOperator is the access role bound to exactly one organizational unit
const RoleOperator = "operator"

// UnitLookup resolves unit identifiers against the organization hierarchy
type UnitLookup interface {
	UnitByID(ctx context.Context, unitID string) (*models.OrgUnit, error)
}

// Request carries the caller's requested scope
type Request struct {
	UnitID       string
	CallerRole   string
	CallerScope  string
	RegionFilter string
}

// Resolved is the concrete content-scope and roster-scope for one request.
// Exactly one of the role-tag or unit fields is set on each side.
type Resolved struct {
	Unit *models.OrgUnit

	// Directorate marks a directorate-wide scope whose roll-ups fan out
	// across every subordinate unit holding the role
	Directorate bool

	ContentRoleTag string
	ContentUnitID  string

	RosterRoleTag string
	RosterUnitID  string
	RegionFilter  string
}

// ContentFilter builds the predicate selecting the window's content
func (r *Resolved) ContentFilter() *store.Filter {
	f := store.NewFilter()
	if r.ContentRoleTag != "" {
		return f.Eq("c.role_tag", r.ContentRoleTag)
	}
	return f.Eq("c.unit_id", r.ContentUnitID)
}

// RosterFilter builds the predicate selecting the evaluated personnel
func (r *Resolved) RosterFilter() *store.Filter {
	f := store.NewFilter()
	if r.RosterRoleTag != "" {
		f.HasElement("p.roles", r.RosterRoleTag)
		if r.RegionFilter != "" {
			f.Eq("u.region_id", r.RegionFilter)
		}
		return f
	}
	return f.Eq("p.unit_id", r.RosterUnitID)
}

// RosterFilterForUnit narrows the roster scope to one subordinate unit,
// used by the per-unit roll-up fan-out.
func (r *Resolved) RosterFilterForUnit(unitID string) *store.Filter {
	f := store.NewFilter().Eq("p.unit_id", unitID)
	if r.RosterRoleTag != "" {
		f.HasElement("p.roles", r.RosterRoleTag)
	}
	return f
}

// Resolver turns requested unit identifiers and caller roles into concrete
// scopes. Resolution is read-only and total over well-formed inputs.
type Resolver struct {
	units  UnitLookup
	logger logging.Logger
}

// NewResolver creates a scope resolver
func NewResolver(units UnitLookup, logger logging.Logger) *Resolver {
	return &Resolver{units: units, logger: logger}
}

// Resolve selects one of the three resolution patterns. Unknown units yield
// models.ErrUnitNotFound; an operator role without a unit identity yields
// models.ErrInvalidScope.
func (rv *Resolver) Resolve(ctx context.Context, req Request) (*Resolved, error) {
	if req.CallerRole == RoleOperator && req.UnitID == "" {
		return nil, fmt.Errorf("operator role requires a unit identity: %w", models.ErrInvalidScope)
	}
	if req.UnitID == "" {
		return nil, fmt.Errorf("unit identifier is required: %w", models.ErrInvalidScope)
	}

	unit, err := rv.units.UnitByID(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}

	// Directorate-wide: role-tagged content across every subordinate unit,
	// roster is everyone holding the directorate role
	if unit.Type == models.UnitTypeDirectorate {
		roleTag := unit.ID
		if unit.RoleTag != nil && *unit.RoleTag != "" {
			roleTag = *unit.RoleTag
		}
		return &Resolved{
			Unit:           unit,
			Directorate:    true,
			ContentRoleTag: roleTag,
			RosterRoleTag:  roleTag,
			RegionFilter:   req.RegionFilter,
		}, nil
	}

	// Role-in-unit: an operator measuring their own personnel against
	// directorate-wide content. Selected by a directorate caller role, or by
	// an explicit directorate caller scope resolved through the parent unit.
	if req.CallerScope == ScopeDirectorate || (req.CallerRole != "" && req.CallerRole != RoleOperator) {
		roleTag := req.CallerRole
		if roleTag == "" || roleTag == RoleOperator {
			if unit.ParentID == nil {
				return nil, fmt.Errorf("directorate scope on unit %s without a parent directorate: %w", unit.ID, models.ErrInvalidScope)
			}
			parent, err := rv.units.UnitByID(ctx, *unit.ParentID)
			if err != nil {
				return nil, err
			}
			roleTag = parent.ID
			if parent.RoleTag != nil && *parent.RoleTag != "" {
				roleTag = *parent.RoleTag
			}
		}
		return &Resolved{
			Unit:           unit,
			ContentRoleTag: roleTag,
			RosterUnitID:   unit.ID,
		}, nil
	}

	// Single unit: content and roster both collapse to the requested unit
	return &Resolved{
		Unit:          unit,
		ContentUnitID: unit.ID,
		RosterUnitID:  unit.ID,
	}, nil
}
