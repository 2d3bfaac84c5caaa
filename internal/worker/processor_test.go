package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/internal/services"
	"github.com/cdurham/hegemon/internal/storage"
	"github.com/cdurham/hegemon/pkg/engine"
	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProcessor(oracle services.Oracle) (*TurnProcessor, *storage.MockStorage) {
	logger := testLogger()
	mil := military.NewManager(military.NewCounterIDSource(), logger)
	eng := engine.New(mil, logger)
	st := storage.NewMockStorage()
	return NewTurnProcessor(st, oracle, eng, mil, logger), st
}

func seedGameState(t *testing.T, st *storage.MockStorage) *world.GameState {
	t.Helper()

	gs := world.NewGameState()
	gs.PlayerCountry = "Brazil"
	gs.Countries["Brazil"] = world.Country{Name: "Brazil", GDP: 2100, Population: 216, Stability: 60, MilitaryStrength: 45}
	gs.Countries["Argentina"] = world.Country{Name: "Argentina", GDP: 630, Population: 46, Stability: 55, MilitaryStrength: 30}
	gs.Territories["Brazil"] = world.Territory{ID: "Brazil", Name: "Brazil", Owner: "Brazil"}
	gs.Territories["Argentina"] = world.Territory{ID: "Argentina", Name: "Argentina", Owner: "Argentina"}
	require.NoError(t, gs.Normalize())
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))
	return gs
}

func TestProcessTurn_AppliesOracleEvents(t *testing.T) {
	oracle := &services.MockOracle{
		GenerateEventsFunc: func(ctx context.Context, gs *world.GameState, action string) ([]world.WorldEvent, error) {
			return []world.WorldEvent{
				{
					Kind:        world.EventEconomicShift,
					Description: "Brazilian agricultural exports surge",
					Date:        fmt.Sprintf("%d-06-01", gs.Year),
					EconomicEffects: []world.EconomicEffect{
						{Country: "Brazil", GDP: 150},
					},
				},
			}, nil
		},
	}
	p, st := newTestProcessor(oracle)
	gs := seedGameState(t, st)

	next, err := p.ProcessTurn(context.Background(), gs.ID, "Invest heavily in agriculture")
	require.NoError(t, err)

	assert.Equal(t, gs.Year+1, next.Year)
	assert.Equal(t, float64(2250), next.Countries["Brazil"].GDP)
	require.Len(t, next.Events, 1)
	assert.Equal(t, []string{"Invest heavily in agriculture"}, oracle.GenerateEventsCalls)

	// The result was persisted
	saved, err := st.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Equal(t, next.Year, saved.Year)
}

func TestProcessTurn_OracleFailureDegradesToNarrative(t *testing.T) {
	oracle := &services.MockOracle{
		GenerateEventsFunc: func(ctx context.Context, gs *world.GameState, action string) ([]world.WorldEvent, error) {
			return nil, fmt.Errorf("rate limited")
		},
	}
	p, st := newTestProcessor(oracle)
	gs := seedGameState(t, st)

	next, err := p.ProcessTurn(context.Background(), gs.ID, "Declare war on everyone")
	require.NoError(t, err, "oracle failure must not fail the turn")

	assert.Equal(t, gs.Year+1, next.Year, "year still advances on fallback")
	require.Len(t, next.Events, 1)
	assert.Equal(t, world.EventNarrative, next.Events[0].Kind)
}

func TestProcessTurn_MissingGame(t *testing.T) {
	p, _ := newTestProcessor(&services.MockOracle{})

	_, err := p.ProcessTurn(context.Background(), world.NewGameState().ID, "anything")
	assert.Error(t, err)
}

func TestProcessUnitOrder_RelocatesUnit(t *testing.T) {
	oracle := &services.MockOracle{
		ResolveUnitOrderFunc: func(ctx context.Context, gs *world.GameState, unit world.MilitaryUnit, order string) (*military.UnitActionOutcome, error) {
			return &military.UnitActionOutcome{
				Action:      military.ActionRelocate,
				Order:       order,
				Narrative:   "The First Army marches north.",
				Destination: &world.Coordinates{Lat: -15.79, Lng: -47.88},
			}, nil
		},
	}
	p, st := newTestProcessor(oracle)
	gs := seedGameState(t, st)
	gs.MilitaryUnits["brazil-army-1"] = world.MilitaryUnit{
		ID:           "brazil-army-1",
		Owner:        "Brazil",
		Type:         world.UnitTypeArmy,
		Name:         "First Army",
		CurrentOrder: world.DefaultUnitOrder,
	}
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))

	updated, err := p.ProcessUnitOrder(context.Background(), gs.ID, "brazil-army-1", "Move to the capital")
	require.NoError(t, err)

	unit := updated.MilitaryUnits["brazil-army-1"]
	assert.Equal(t, -15.79, unit.Coordinates.Lat)
	assert.Equal(t, "Move to the capital", unit.CurrentOrder)
	assert.Equal(t, gs.Year, updated.Year, "unit orders do not advance the year")
}

func TestProcessUnitOrder_UnknownUnit(t *testing.T) {
	p, st := newTestProcessor(&services.MockOracle{})
	gs := seedGameState(t, st)

	_, err := p.ProcessUnitOrder(context.Background(), gs.ID, "nope", "hold")
	assert.Error(t, err)
}
