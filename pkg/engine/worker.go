package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/snapshot"
	"github.com/cdurham/hegemon/pkg/world"
)

// EventWorker encapsulates the logic for folding one yearly batch of
// world events into a game state. It operates on a private deep copy, so
// the state and events passed to Apply are never mutated.
type EventWorker struct {
	gs       *world.GameState
	military *military.Manager
	logger   *slog.Logger
}

// Engine is the world-state reducer. One fold per player turn: the batch
// is applied in oracle-given chronological order, the year advances by
// exactly one, and the batch is committed to the visible log newest first.
type Engine struct {
	military *military.Manager
	logger   *slog.Logger
}

// New creates an engine backed by the given unit lifecycle manager.
func New(mil *military.Manager, logger *slog.Logger) *Engine {
	return &Engine{military: mil, logger: logger}
}

// Apply produces the next game state from the current state and an
// ordered event batch. Pure with respect to its inputs.
func (e *Engine) Apply(gs *world.GameState, batch []world.WorldEvent) (*world.GameState, error) {
	next, err := gs.DeepCopy()
	if err != nil {
		return nil, fmt.Errorf("failed to clone game state: %w", err)
	}
	// States decoded from external JSON may arrive with nil maps.
	if err := next.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid game state: %w", err)
	}

	w := &EventWorker{gs: next, military: e.military, logger: e.logger}

	// CHAT_INVITATION does not touch world state; it is filtered out of
	// the fold and parked for separate acceptance handling.
	var applied []world.WorldEvent
	for _, ev := range batch {
		if ev.Kind == world.EventChatInvitation {
			w.collectInvitation(ev)
			continue
		}
		w.apply(ev)
		applied = append(applied, ev)
	}

	next.Year++

	// The log is reverse-chronological: newest-in-batch first, then the
	// prior history.
	reversed := make([]world.WorldEvent, 0, len(applied)+len(next.Events))
	for i := len(applied) - 1; i >= 0; i-- {
		reversed = append(reversed, applied[i])
	}
	next.Events = append(reversed, next.Events...)

	return next, nil
}

// apply dispatches one event to its handler, then applies any inline
// economic effects regardless of kind.
func (w *EventWorker) apply(ev world.WorldEvent) {
	switch ev.Kind {
	case world.EventAnnexation:
		w.handleAnnexation(ev)
	case world.EventCountryFormation:
		w.handleFormation(ev)
	case world.EventSecession:
		w.handleSecession(ev)
	case world.EventCityFounded:
		w.handleCityFounded(ev)
	case world.EventCityRenamed:
		w.handleCityRenamed(ev)
	case world.EventCityDestroyed:
		w.handleCityDestroyed(ev)
	case world.EventDeployUnit:
		w.handleDeploy(ev)
	case world.EventManufactureComplete:
		w.handleManufacture(ev)
	case world.EventScrapUnit:
		w.handleScrap(ev)
	case world.EventWarDeclared, world.EventPeaceTreaty,
		world.EventAllianceFormed, world.EventAllianceBroken,
		world.EventEconomicShift, world.EventNarrative:
		// Narrative-only kinds; economic effects below are their whole
		// mechanical impact.
	default:
		// Unrecognized kinds pass through for forward compatibility with
		// oracle output drift.
		w.logger.Debug("Unrecognized event kind passed through", "kind", ev.Kind)
	}

	w.applyEconomicEffects(ev.EconomicEffects)
}

// applyEconomicEffects folds stat deltas into the named countries.
// Effects on unknown countries are silently dropped: the oracle's
// natural-language grounding is imperfect and must not crash the
// simulation.
func (w *EventWorker) applyEconomicEffects(effects []world.EconomicEffect) {
	for _, eff := range effects {
		country, ok := w.gs.Countries[eff.Country]
		if !ok {
			w.logger.Debug("Economic effect on unknown country dropped", "country", eff.Country)
			continue
		}
		country.ApplyStatDeltas(eff.GDP, eff.Population, eff.Stability, eff.MilitaryStrength)
		country.AddResources(eff.NewResources)
		w.gs.Countries[eff.Country] = country
	}
}

// handleAnnexation reassigns territory ownership between the two involved
// countries. With explicit territory names each named territory moves to
// whichever involved country does not currently own it; the oracle lists
// the countries in no reliable order. Without names the listing is
// (aggressor, target) and the target loses everything it owns. The losing
// country entity persists either way.
func (w *EventWorker) handleAnnexation(ev world.WorldEvent) {
	if len(ev.Countries) != 2 {
		w.logger.Warn("Annexation requires exactly two countries, skipping",
			"countries", ev.Countries)
		return
	}

	if len(ev.TerritoryNames) > 0 {
		for _, name := range ev.TerritoryNames {
			t, ok := w.gs.FindTerritoryByName(name)
			if !ok {
				// Oracle text may not map cleanly to the geography.
				continue
			}
			acquirer := ev.Countries[0]
			if acquirer == t.Owner {
				acquirer = ev.Countries[1]
			}
			if _, ok := w.gs.Countries[acquirer]; !ok {
				w.logger.Warn("Annexation by unknown country skipped",
					"acquirer", acquirer,
					"territory", name)
				continue
			}
			t.Owner = acquirer
			w.gs.Territories[t.ID] = t
		}
		return
	}

	aggressor, target := ev.Countries[0], ev.Countries[1]
	if _, ok := w.gs.Countries[aggressor]; !ok {
		w.logger.Warn("Annexation by unknown country skipped", "aggressor", aggressor)
		return
	}
	for _, id := range w.gs.TerritoriesOwnedBy(target) {
		t := w.gs.Territories[id]
		t.Owner = aggressor
		w.gs.Territories[id] = t
	}
}

// handleFormation creates the named country if it does not exist, then
// reassigns the listed territories to it. Country creation is idempotent;
// the territory reassignment reapplies harmlessly.
func (w *EventWorker) handleFormation(ev world.WorldEvent) {
	name := ev.NewCountryName
	if name == "" && len(ev.Countries) > 0 {
		name = ev.Countries[0]
	}
	if name == "" {
		w.logger.Warn("Country formation without a name skipped")
		return
	}

	if _, exists := w.gs.Countries[name]; !exists {
		w.gs.Countries[name] = snapshot.NewFormedCountry(name)
		w.gs.Arsenal[name] = world.NewCountryArsenal()
	}

	w.reassignTerritories(ev.TerritoryNames, name)
}

// handleSecession is formation seeded from the ancestral polity: the new
// country's baseline stats are a fraction of the parent's, resolved
// through the first seceding territory's parent chain.
func (w *EventWorker) handleSecession(ev world.WorldEvent) {
	name := ev.NewCountryName
	if name == "" || len(ev.TerritoryNames) == 0 {
		w.logger.Warn("Secession without new country name or territories skipped")
		return
	}

	if _, exists := w.gs.Countries[name]; !exists {
		country := snapshot.NewFormedCountry(name)
		for _, tn := range ev.TerritoryNames {
			t, ok := w.gs.FindTerritoryByName(tn)
			if !ok {
				continue
			}
			parent, ok := w.gs.Countries[t.Parent]
			if !ok {
				continue
			}
			const secessionShare = 0.25
			country.GDP = max(parent.GDP*secessionShare, world.MinGDP)
			country.Population = max(parent.Population*secessionShare, world.MinPopulation)
			country.MilitaryStrength = parent.MilitaryStrength * secessionShare
			country.MilitaryTech = parent.MilitaryTech
			break
		}
		w.gs.Countries[name] = country
		w.gs.Arsenal[name] = world.NewCountryArsenal()
	}

	w.reassignTerritories(ev.TerritoryNames, name)
}

func (w *EventWorker) reassignTerritories(names []string, owner string) {
	for _, tn := range names {
		t, ok := w.gs.FindTerritoryByName(tn)
		if !ok {
			continue
		}
		t.Owner = owner
		w.gs.Territories[t.ID] = t
	}
}

func (w *EventWorker) collectInvitation(ev world.WorldEvent) {
	if ev.Invitation == nil {
		w.logger.Warn("Chat invitation event without payload skipped")
		return
	}
	w.gs.Invitations = append(w.gs.Invitations, world.ChatInvitation{
		ID:           uuid.New().String(),
		Initiator:    ev.Invitation.Initiator,
		Participants: ev.Invitation.Participants,
		Topic:        ev.Invitation.Topic,
		Year:         w.gs.Year,
	})
}
