package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/cdurham/hegemon/pkg/world"
)

// EventHistoryLimit caps how many recent events are serialized into the
// oracle request.
const EventHistoryLimit = 10

// CountrySummary is the per-country slice of state the oracle sees.
type CountrySummary struct {
	GDP              float64  `json:"gdp"`
	Population       float64  `json:"population"`
	Stability        float64  `json:"stability"`
	MilitaryStrength float64  `json:"military_strength"`
	MilitaryTech     float64  `json:"military_tech"`
	Resources        []string `json:"resources,omitempty"`
	Territories      []string `json:"territories,omitempty"`
}

// UnitSummary is the per-unit slice of state the oracle sees.
type UnitSummary struct {
	ID           string         `json:"id"`
	Owner        string         `json:"owner"`
	Type         world.UnitType `json:"type"`
	Name         string         `json:"name"`
	Strength     float64        `json:"strength"`
	CurrentOrder string         `json:"current_order,omitempty"`
}

// WorldSummary is the serialized world-state summary sent with every
// oracle request: territorial ownership, city roster, stats, recent
// events, deployments and arsenal levels.
type WorldSummary struct {
	Year          int                                       `json:"year"`
	PlayerCountry string                                    `json:"player_country,omitempty"`
	Countries     map[string]CountrySummary                 `json:"countries"`
	Cities        []string                                  `json:"cities"`
	RecentEvents  []string                                  `json:"recent_events,omitempty"`
	Units         []UnitSummary                             `json:"units,omitempty"`
	Arsenal       map[string]map[world.UnitType]world.ArsenalSlot `json:"arsenal,omitempty"`
}

// ToWorldSummary projects a game state into the oracle request shape.
func ToWorldSummary(gs *world.GameState) WorldSummary {
	ws := WorldSummary{
		Year:          gs.Year,
		PlayerCountry: gs.PlayerCountry,
		Countries:     make(map[string]CountrySummary, len(gs.Countries)),
		Arsenal:       make(map[string]map[world.UnitType]world.ArsenalSlot, len(gs.Arsenal)),
	}

	for name, c := range gs.Countries {
		ws.Countries[name] = CountrySummary{
			GDP:              c.GDP,
			Population:       c.Population,
			Stability:        c.Stability,
			MilitaryStrength: c.MilitaryStrength,
			MilitaryTech:     c.MilitaryTech,
			Resources:        c.Resources,
			Territories:      territoryNamesOwnedBy(gs, name),
		}
	}

	for _, city := range gs.Cities {
		label := city.Name
		if t, ok := gs.Territories[city.TerritoryID]; ok {
			label = fmt.Sprintf("%s (%s)", city.Name, t.Owner)
		}
		ws.Cities = append(ws.Cities, label)
	}

	limit := min(len(gs.Events), EventHistoryLimit)
	for _, ev := range gs.Events[:limit] {
		ws.RecentEvents = append(ws.RecentEvents, fmt.Sprintf("[%s] %s: %s", ev.Date, ev.Kind, ev.Description))
	}

	for _, unit := range gs.MilitaryUnits {
		ws.Units = append(ws.Units, UnitSummary{
			ID:           unit.ID,
			Owner:        unit.Owner,
			Type:         unit.Type,
			Name:         unit.Name,
			Strength:     unit.Strength,
			CurrentOrder: unit.CurrentOrder,
		})
	}

	for country, ca := range gs.Arsenal {
		slots := make(map[world.UnitType]world.ArsenalSlot, len(ca))
		for ut, slot := range ca {
			if slot != nil {
				slots[ut] = *slot
			}
		}
		ws.Arsenal[country] = slots
	}

	return ws
}

// BuildWorldSummary serializes the summary as compact JSON for prompt
// embedding.
func BuildWorldSummary(gs *world.GameState) (string, error) {
	data, err := json.Marshal(ToWorldSummary(gs))
	if err != nil {
		return "", fmt.Errorf("failed to marshal world summary: %w", err)
	}
	return string(data), nil
}

func territoryNamesOwnedBy(gs *world.GameState, owner string) []string {
	var names []string
	for _, t := range gs.Territories {
		if t.Owner == owner {
			names = append(names, t.Name)
		}
	}
	return names
}
