package engine

import (
	"github.com/cdurham/hegemon/pkg/world"
)

// handleDeploy creates an AI-initiated unit if the owner's arsenal has
// headroom. Capacity exhaustion is logged and dropped, not surfaced: this
// event is background flavor, not a player request.
func (w *EventWorker) handleDeploy(ev world.WorldEvent) {
	if ev.Deploy == nil {
		return
	}
	p := *ev.Deploy
	if _, ok := w.gs.Countries[p.Owner]; !ok {
		w.logger.Debug("Deployment for unknown country dropped", "owner", p.Owner)
		return
	}
	if !w.military.CanDeploy(w.gs, p.Owner, p.Type) {
		w.logger.Info("Deployment rejected, arsenal at capacity",
			"owner", p.Owner,
			"type", p.Type)
		return
	}
	for _, unit := range w.military.Deploy(w.gs.Year, []world.ProposedUnit{p}) {
		w.gs.MilitaryUnits[unit.ID] = unit
	}
}

// handleManufacture raises a country's deployment ceiling and/or adds a
// named unit to its catalog.
func (w *EventWorker) handleManufacture(ev world.WorldEvent) {
	if ev.Manufacture == nil {
		return
	}
	mo := ev.Manufacture
	ca, ok := w.gs.Arsenal[mo.Country]
	if !ok {
		w.logger.Debug("Manufacture for unknown country dropped", "country", mo.Country)
		return
	}
	slot, ok := ca[mo.Type]
	if !ok {
		slot = &world.ArsenalSlot{MaxUnits: world.DefaultMaxUnits}
		ca[mo.Type] = slot
	}
	slot.MaxUnits = max(slot.MaxUnits+mo.MaxUnitsDelta, 0)
	if mo.UnitName != "" {
		exists := false
		for _, name := range slot.UnitNames {
			if name == mo.UnitName {
				exists = true
				break
			}
		}
		if !exists {
			slot.UnitNames = append(slot.UnitNames, mo.UnitName)
		}
	}
}

// handleScrap removes the named unit if present; no-op otherwise.
func (w *EventWorker) handleScrap(ev world.WorldEvent) {
	if ev.ScrapUnitID == "" {
		return
	}
	if _, ok := w.gs.MilitaryUnits[ev.ScrapUnitID]; !ok {
		return
	}
	delete(w.gs.MilitaryUnits, ev.ScrapUnitID)
}
