package snapshot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/cdurham/hegemon/pkg/world"
)

// Polygon is one land polygon from the geography provider. Country is the
// parent-country name for internal regions of subdivided countries; when
// empty the polygon stands for a whole country and its own name is used.
type Polygon struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// GeographyData is the immutable seed supplied once at startup.
type GeographyData struct {
	Polygons []Polygon `json:"polygons"`
}

// Build constructs the initial GameState from raw geography data: one
// territory per polygon, one country per distinct parent name (first
// polygon seen instantiates it), the fixed city catalog, and a
// zero-initialized arsenal for every country. Antarctica-style polygons
// whose parent is the unclaimed marker become territories without a
// country.
func Build(geo GeographyData, logger *slog.Logger) (*world.GameState, error) {
	if len(geo.Polygons) == 0 {
		return nil, fmt.Errorf("geography data has no polygons")
	}

	table, err := loadBaselineStats()
	if err != nil {
		return nil, err
	}
	catalog, err := loadCityCatalog()
	if err != nil {
		return nil, err
	}

	gs := world.NewGameState()

	for _, p := range geo.Polygons {
		parent := p.Country
		if parent == "" {
			parent = p.Name
		}

		// Internal regions of a subdivided country get a synthetic
		// composite id; whole-country polygons use their own name.
		id := p.Name
		if p.Country != "" && p.Country != p.Name {
			id = p.Country + "-" + p.Name
		}

		if _, dup := gs.Territories[id]; dup {
			logger.Warn("Duplicate polygon skipped", "territory_id", id)
			continue
		}

		owner := parent
		gs.Territories[id] = world.Territory{
			ID:     id,
			Name:   p.Name,
			Parent: parent,
			Owner:  owner,
		}

		if parent == world.UnclaimedOwner {
			continue
		}
		if _, exists := gs.Countries[parent]; exists {
			continue
		}

		stats, ok := table[parent]
		if !ok {
			stats = fallbackStats(parent)
		}
		gs.Countries[parent] = world.Country{
			Name:             parent,
			Color:            CountryColor(parent),
			GDP:              stats.GDP,
			Population:       stats.Population,
			Stability:        stats.Stability,
			Resources:        stats.Resources,
			MilitaryStrength: stats.MilitaryStrength,
			MilitaryTech:     stats.MilitaryTech,
		}
		gs.Arsenal[parent] = world.NewCountryArsenal()
	}

	for _, seed := range catalog {
		if _, ok := gs.Territories[seed.TerritoryID]; !ok {
			// Data-authoring error in the catalog, not a runtime failure.
			logger.Warn("City catalog references unknown territory, skipping",
				"city", seed.Name,
				"territory_id", seed.TerritoryID)
			continue
		}
		gs.Cities = append(gs.Cities, world.City{
			ID:          world.CityID(seed.Name, seed.TerritoryID),
			Name:        seed.Name,
			Coordinates: world.Coordinates{Lat: seed.Lat, Lng: seed.Lng},
			TerritoryID: seed.TerritoryID,
			IsCapital:   seed.Capital,
		})
	}

	return gs, nil
}

// DefaultGeography returns one polygon per country in the baseline table,
// plus Antarctica as unclaimed land. Used when no external geography
// provider is configured.
func DefaultGeography() GeographyData {
	table, err := loadBaselineStats()
	if err != nil {
		// The table is embedded; failing to parse it is a build defect.
		panic(err)
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	polygons := make([]Polygon, 0, len(names)+1)
	for _, name := range names {
		polygons = append(polygons, Polygon{Name: name})
	}
	polygons = append(polygons, Polygon{Name: "Antarctica", Country: world.UnclaimedOwner})
	return GeographyData{Polygons: polygons}
}
