package engine

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cdurham/hegemon/pkg/world"
)

var titleCaser = cases.Title(language.English)

// handleCityFounded appends a new non-capital city to the named territory.
// Silently no-ops if the territory is unresolvable.
func (w *EventWorker) handleCityFounded(ev world.WorldEvent) {
	if ev.City == nil || ev.City.TerritoryName == "" {
		return
	}
	t, ok := w.gs.FindTerritoryByName(ev.City.TerritoryName)
	if !ok {
		w.logger.Debug("City founding in unknown territory dropped",
			"city", ev.City.Name,
			"territory", ev.City.TerritoryName)
		return
	}

	// Oracle-supplied names arrive in whatever casing the model produced.
	name := titleCaser.String(ev.City.Name)

	city := world.City{
		ID:          world.CityID(name, t.ID),
		Name:        name,
		TerritoryID: t.ID,
	}
	if ev.City.Coordinates != nil {
		city.Coordinates = *ev.City.Coordinates
	}
	w.gs.Cities = append(w.gs.Cities, city)
}

// handleCityRenamed renames all cities matching the old name and
// regenerates their ids from the new name. Any reference held by the old
// id stops resolving; there is no compensating reference update.
func (w *EventWorker) handleCityRenamed(ev world.WorldEvent) {
	if ev.City == nil || ev.City.NewName == "" {
		return
	}
	newName := titleCaser.String(ev.City.NewName)
	for i, city := range w.gs.Cities {
		if city.Name != ev.City.Name {
			continue
		}
		city.Name = newName
		city.ID = world.CityID(newName, city.TerritoryID)
		w.gs.Cities[i] = city
	}
}

// handleCityDestroyed removes all cities matching the given name.
func (w *EventWorker) handleCityDestroyed(ev world.WorldEvent) {
	if ev.City == nil {
		return
	}
	kept := w.gs.Cities[:0]
	for _, city := range w.gs.Cities {
		if city.Name != ev.City.Name {
			kept = append(kept, city)
		}
	}
	w.gs.Cities = kept
}
