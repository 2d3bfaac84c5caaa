package world

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EpochYear is the year every new game starts in.
const EpochYear = 2025

// GameState is the aggregate root for one game session. It is transformed
// by whole-object replacement only: the engine deep-copies, folds one
// yearly event batch, and the orchestrator commits the result. No caller
// ever observes a partially-updated state.
//
// Invariant: every Territory.Owner and MilitaryUnit.Owner references a key
// in Countries, except the UnclaimedOwner sentinel. Invariant: Events is
// reverse-chronological (newest first).
type GameState struct {
	ID            uuid.UUID                 `json:"id"`
	PlayerCountry string                    `json:"player_country,omitempty"`
	Year          int                       `json:"year"`
	Territories   map[string]Territory      `json:"territories"`
	Countries     map[string]Country        `json:"countries"`
	Cities        []City                    `json:"cities"`
	Events        []WorldEvent              `json:"events,omitempty"`
	// The map fields deliberately omit omitempty: an empty map must
	// survive a JSON round-trip as a map, not come back nil.
	Chats         map[string]DiplomaticChat `json:"chats"`
	Invitations   []ChatInvitation          `json:"pending_invitations,omitempty"`
	MilitaryUnits map[string]MilitaryUnit   `json:"military_units"`
	Arsenal       map[string]CountryArsenal `json:"arsenal"`
	CreatedAt     time.Time                 `json:"created_at,omitempty"`
	UpdatedAt     time.Time                 `json:"updated_at,omitempty"`
}

// NewGameState returns an empty state at the epoch year.
func NewGameState() *GameState {
	return &GameState{
		ID:            uuid.New(),
		Year:          EpochYear,
		Territories:   make(map[string]Territory),
		Countries:     make(map[string]Country),
		Cities:        make([]City, 0),
		Chats:         make(map[string]DiplomaticChat),
		MilitaryUnits: make(map[string]MilitaryUnit),
		Arsenal:       make(map[string]CountryArsenal),
		CreatedAt:     time.Now().UTC(),
	}
}

// DeepCopy returns an independent copy of the game state. The engine
// clones before folding so the previous snapshot never aliases the next.
func (gs *GameState) DeepCopy() (*GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state for copy: %w", err)
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state copy: %w", err)
	}
	return &out, nil
}

// DeployedCount returns the number of units of the given branch currently
// deployed by the named country.
func (gs *GameState) DeployedCount(country string, ut UnitType) int {
	n := 0
	for _, unit := range gs.MilitaryUnits {
		if unit.Owner == country && unit.Type == ut {
			n++
		}
	}
	return n
}

// TerritoriesOwnedBy returns the ids of all territories owned by the
// named country.
func (gs *GameState) TerritoriesOwnedBy(owner string) []string {
	var ids []string
	for id, t := range gs.Territories {
		if t.Owner == owner {
			ids = append(ids, id)
		}
	}
	return ids
}

// FindTerritoryByName resolves a territory by display name. Oracle text
// names territories, not ids.
func (gs *GameState) FindTerritoryByName(name string) (Territory, bool) {
	for _, t := range gs.Territories {
		if t.Name == name {
			return t, true
		}
	}
	return Territory{}, false
}

// Normalize repairs gaps left by older save files: a missing arsenal
// table, missing per-country or per-branch arsenal slots, a missing unit
// map, and units without a current order. It never overwrites data that
// is present. Returns an error if the state fails basic shape checks.
func (gs *GameState) Normalize() error {
	if gs.Countries == nil {
		return fmt.Errorf("game state has no countries")
	}
	if gs.Year == 0 {
		return fmt.Errorf("game state has no year")
	}
	if gs.Territories == nil {
		gs.Territories = make(map[string]Territory)
	}
	if gs.Chats == nil {
		gs.Chats = make(map[string]DiplomaticChat)
	}
	if gs.MilitaryUnits == nil {
		gs.MilitaryUnits = make(map[string]MilitaryUnit)
	}
	if gs.Arsenal == nil {
		gs.Arsenal = make(map[string]CountryArsenal)
	}
	for name := range gs.Countries {
		ca, ok := gs.Arsenal[name]
		if !ok || ca == nil {
			gs.Arsenal[name] = NewCountryArsenal()
			continue
		}
		for _, ut := range UnitTypes {
			if ca[ut] == nil {
				ca[ut] = &ArsenalSlot{MaxUnits: DefaultMaxUnits}
			}
		}
	}
	for id, unit := range gs.MilitaryUnits {
		if unit.CurrentOrder == "" {
			unit.CurrentOrder = DefaultUnitOrder
		}
		if unit.OrdersLog == nil {
			unit.OrdersLog = make([]OrderEntry, 0)
		}
		gs.MilitaryUnits[id] = unit
	}
	return nil
}
