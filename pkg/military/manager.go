package military

import (
	"fmt"
	"log/slog"

	"github.com/cdurham/hegemon/pkg/world"
)

// ActionType classifies a free-text unit order. The classification itself
// is the oracle's job; the manager only executes the structured outcome.
type ActionType string

const (
	ActionRelocate     ActionType = "RELOCATE"
	ActionRetreat      ActionType = "RETREAT"
	ActionSplit        ActionType = "SPLIT"
	ActionMerge        ActionType = "MERGE"
	ActionGeneralOrder ActionType = "GENERAL_ORDER"
)

// SplitPart describes one of the units an original splits into.
type SplitPart struct {
	Name        string           `json:"name"`
	Composition []world.Division `json:"composition,omitempty"`
	Strength    float64          `json:"strength"`
}

// UnitActionOutcome is the oracle-classified result of a unit order.
// For MERGE the oracle picks the highest-ranking leader among the merged
// units; the manager does not compare ranks, it uses whatever leader the
// outcome specifies.
type UnitActionOutcome struct {
	Action      ActionType         `json:"action"`
	Order       string             `json:"order"`
	Narrative   string             `json:"narrative,omitempty"`
	Destination *world.Coordinates `json:"destination,omitempty"`

	NewUnits []SplitPart `json:"new_units,omitempty"`

	MergeSourceIDs    []string         `json:"merge_source_ids,omitempty"`
	MergedName        string           `json:"merged_name,omitempty"`
	MergedComposition []world.Division `json:"merged_composition,omitempty"`
	MergedStrength    float64          `json:"merged_strength,omitempty"`
	MergedLeader      *world.Leader    `json:"merged_leader,omitempty"`
}

// Manager tracks per-country unit inventories and executes structured
// deploy and order outcomes. It never mutates the state passed in; every
// operation returns a fresh unit map for the caller to fold into the next
// snapshot.
type Manager struct {
	ids    IDSource
	logger *slog.Logger
}

// NewManager creates a unit lifecycle manager.
func NewManager(ids IDSource, logger *slog.Logger) *Manager {
	return &Manager{ids: ids, logger: logger}
}

// CanDeploy reports whether the country has arsenal headroom for one more
// unit of the given branch. Deployment must be rejected by the caller when
// this returns false; Deploy itself does not re-check.
func (m *Manager) CanDeploy(gs *world.GameState, country string, ut world.UnitType) bool {
	ca, ok := gs.Arsenal[country]
	if !ok {
		return false
	}
	slot, ok := ca[ut]
	if !ok {
		return false
	}
	return gs.DeployedCount(country, ut) < slot.MaxUnits
}

// NextAvailableName returns the first catalog name for the country and
// branch not already borne by a deployed unit, or false if the catalog is
// exhausted.
func (m *Manager) NextAvailableName(gs *world.GameState, country string, ut world.UnitType) (string, bool) {
	ca, ok := gs.Arsenal[country]
	if !ok {
		return "", false
	}
	slot, ok := ca[ut]
	if !ok {
		return "", false
	}
	for _, name := range slot.UnitNames {
		taken := false
		for _, unit := range gs.MilitaryUnits {
			if unit.Owner == country && unit.Type == ut && unit.Name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name, true
		}
	}
	return "", false
}

// Deploy materializes oracle-proposed unit shells into units with fresh
// ids and the default standing order. Capacity must already have been
// validated by the caller.
func (m *Manager) Deploy(year int, proposed []world.ProposedUnit) []world.MilitaryUnit {
	units := make([]world.MilitaryUnit, 0, len(proposed))
	for _, p := range proposed {
		unit := world.MilitaryUnit{
			ID:           m.ids.NextUnitID(p.Owner, p.Type),
			Owner:        p.Owner,
			Type:         p.Type,
			Name:         p.Name,
			Coordinates:  p.Coordinates,
			Leader:       p.Leader,
			Composition:  p.Composition,
			Strength:     p.Strength,
			CurrentOrder: world.DefaultUnitOrder,
			OrdersLog: []world.OrderEntry{
				{Year: year, Order: world.DefaultUnitOrder, Outcome: "Deployed"},
			},
		}
		units = append(units, unit)
	}
	return units
}

// ResolveOrder applies a structured order outcome to one unit and returns
// the updated unit map. The input state is not mutated.
func (m *Manager) ResolveOrder(gs *world.GameState, unitID string, outcome UnitActionOutcome) (map[string]world.MilitaryUnit, error) {
	unit, ok := gs.MilitaryUnits[unitID]
	if !ok {
		return nil, fmt.Errorf("unit not found: %s", unitID)
	}

	next := make(map[string]world.MilitaryUnit, len(gs.MilitaryUnits))
	for id, u := range gs.MilitaryUnits {
		next[id] = u
	}

	switch outcome.Action {
	case ActionRelocate, ActionRetreat:
		if outcome.Destination != nil {
			unit.Coordinates = *outcome.Destination
		}
		unit.CurrentOrder = outcome.Order
		unit.PushOrder(world.OrderEntry{Year: gs.Year, Order: outcome.Order, Outcome: outcome.Narrative})
		next[unitID] = unit

	case ActionSplit:
		if len(outcome.NewUnits) == 0 {
			return nil, fmt.Errorf("split outcome for %s has no new units", unitID)
		}
		delete(next, unitID)
		for _, part := range outcome.NewUnits {
			nu := world.MilitaryUnit{
				ID:           m.ids.NextUnitID(unit.Owner, unit.Type),
				Owner:        unit.Owner,
				Type:         unit.Type,
				Name:         part.Name,
				Coordinates:  unit.Coordinates,
				Leader:       unit.Leader,
				Composition:  part.Composition,
				Strength:     part.Strength,
				CurrentOrder: outcome.Order,
				OrdersLog: []world.OrderEntry{
					{Year: gs.Year, Order: outcome.Order, Outcome: "Formed from split of " + unit.Name},
				},
			}
			next[nu.ID] = nu
		}
		m.logger.Info("Unit split", "unit_id", unitID, "owner", unit.Owner, "parts", len(outcome.NewUnits))

	case ActionMerge:
		merged := world.MilitaryUnit{
			ID:           m.ids.NextUnitID(unit.Owner, unit.Type),
			Owner:        unit.Owner,
			Type:         unit.Type,
			Name:         outcome.MergedName,
			Coordinates:  unit.Coordinates,
			Leader:       unit.Leader,
			Composition:  outcome.MergedComposition,
			Strength:     outcome.MergedStrength,
			CurrentOrder: outcome.Order,
			OrdersLog: []world.OrderEntry{
				{Year: gs.Year, Order: outcome.Order, Outcome: "Formed from merge"},
			},
		}
		if outcome.MergedLeader != nil {
			merged.Leader = *outcome.MergedLeader
		}
		delete(next, unitID)
		for _, srcID := range outcome.MergeSourceIDs {
			delete(next, srcID)
		}
		next[merged.ID] = merged
		m.logger.Info("Units merged", "into", merged.ID, "owner", unit.Owner, "sources", len(outcome.MergeSourceIDs)+1)

	default:
		// GENERAL_ORDER and anything unrecognized: log the narrative, no
		// structural change.
		unit.CurrentOrder = outcome.Order
		unit.PushOrder(world.OrderEntry{Year: gs.Year, Order: outcome.Order, Outcome: outcome.Narrative})
		next[unitID] = unit
	}

	return next, nil
}
