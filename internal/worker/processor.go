package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/internal/services"
	"github.com/cdurham/hegemon/internal/storage"
	"github.com/cdurham/hegemon/pkg/engine"
	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/world"
)

// TurnProcessor runs the yearly turn loop: interpret the player's
// national action through the oracle, fold the resulting event batch
// into the world, and persist the new state. One call advances one year.
type TurnProcessor struct {
	storage  storage.Storage
	oracle   services.Oracle
	engine   *engine.Engine
	military *military.Manager
	logger   *slog.Logger
}

func NewTurnProcessor(st storage.Storage, oracle services.Oracle, eng *engine.Engine, mil *military.Manager, logger *slog.Logger) *TurnProcessor {
	return &TurnProcessor{
		storage:  st,
		oracle:   oracle,
		engine:   eng,
		military: mil,
		logger:   logger,
	}
}

// ProcessTurn advances the game one year in response to the player's
// national action. An oracle failure degrades to a single narrative
// filler event rather than losing the year.
func (p *TurnProcessor) ProcessTurn(ctx context.Context, gameID uuid.UUID, action string) (*world.GameState, error) {
	start := time.Now()

	gs, err := p.storage.LoadGameState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if gs == nil {
		return nil, fmt.Errorf("game state not found: %s", gameID)
	}

	batch, err := p.oracle.GenerateEvents(ctx, gs, action)
	if err != nil {
		p.logger.Error("Oracle failed, using fallback event",
			"error", err,
			"game_state_id", gameID.String(),
		)
		batch = []world.WorldEvent{services.FallbackEvent(gs.Year)}
	}

	next, err := p.engine.Apply(gs, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to apply event batch: %w", err)
	}

	if err := p.storage.SaveGameState(ctx, gameID, next); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	p.logger.Info("Turn processed",
		"game_state_id", gameID.String(),
		"year", next.Year,
		"events", len(batch),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return next, nil
}

// ProcessUnitOrder resolves a free-text order for a single military
// unit. Unlike ProcessTurn this does not advance the year.
func (p *TurnProcessor) ProcessUnitOrder(ctx context.Context, gameID uuid.UUID, unitID string, order string) (*world.GameState, error) {
	gs, err := p.storage.LoadGameState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if gs == nil {
		return nil, fmt.Errorf("game state not found: %s", gameID)
	}

	unit, ok := gs.MilitaryUnits[unitID]
	if !ok {
		return nil, fmt.Errorf("unit not found: %s", unitID)
	}

	outcome, err := p.oracle.ResolveUnitOrder(ctx, gs, unit, order)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit order: %w", err)
	}

	units, err := p.military.ResolveOrder(gs, unitID, *outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to apply unit order: %w", err)
	}
	gs.MilitaryUnits = units

	if err := p.storage.SaveGameState(ctx, gameID, gs); err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	p.logger.Info("Unit order processed",
		"game_state_id", gameID.String(),
		"unit_id", unitID,
		"action", outcome.Action,
	)
	return gs, nil
}
