package services

import (
	"context"

	"github.com/cdurham/hegemon/pkg/diplomacy"
	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/world"
)

// MockOracle is a configurable Oracle for testing. Each method delegates
// to the corresponding func field when set, and records its calls.
type MockOracle struct {
	GenerateEventsFunc   func(ctx context.Context, gs *world.GameState, action string) ([]world.WorldEvent, error)
	SelectSpeakerFunc    func(ctx context.Context, gs *world.GameState, chat world.DiplomaticChat, excludePlayer bool) (*diplomacy.TurnResult, error)
	ResolveUnitOrderFunc func(ctx context.Context, gs *world.GameState, unit world.MilitaryUnit, order string) (*military.UnitActionOutcome, error)

	GenerateEventsCalls   []string
	SelectSpeakerCalls    []string
	ResolveUnitOrderCalls []string
}

var _ Oracle = (*MockOracle)(nil)

func (m *MockOracle) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func (m *MockOracle) GenerateEvents(ctx context.Context, gs *world.GameState, action string) ([]world.WorldEvent, error) {
	m.GenerateEventsCalls = append(m.GenerateEventsCalls, action)
	if m.GenerateEventsFunc != nil {
		return m.GenerateEventsFunc(ctx, gs, action)
	}
	return []world.WorldEvent{FallbackEvent(gs.Year)}, nil
}

func (m *MockOracle) SelectSpeaker(ctx context.Context, gs *world.GameState, chat world.DiplomaticChat, excludePlayer bool) (*diplomacy.TurnResult, error) {
	m.SelectSpeakerCalls = append(m.SelectSpeakerCalls, chat.ID)
	if m.SelectSpeakerFunc != nil {
		return m.SelectSpeakerFunc(ctx, gs, chat, excludePlayer)
	}
	return &diplomacy.TurnResult{
		Sender:      firstNonPlayer(gs, chat),
		Message:     "We acknowledge your position and will consider it.",
		NextSpeaker: gs.PlayerCountry,
	}, nil
}

func (m *MockOracle) ResolveUnitOrder(ctx context.Context, gs *world.GameState, unit world.MilitaryUnit, order string) (*military.UnitActionOutcome, error) {
	m.ResolveUnitOrderCalls = append(m.ResolveUnitOrderCalls, unit.ID)
	if m.ResolveUnitOrderFunc != nil {
		return m.ResolveUnitOrderFunc(ctx, gs, unit, order)
	}
	return &military.UnitActionOutcome{
		Action:    military.ActionGeneralOrder,
		Order:     order,
		Narrative: "The unit carries out its orders without incident.",
	}, nil
}

func firstNonPlayer(gs *world.GameState, chat world.DiplomaticChat) string {
	for _, p := range chat.Participants {
		if p != gs.PlayerCountry {
			return p
		}
	}
	return gs.PlayerCountry
}

// MockClient is a canned-response completion backend for oracle tests.
type MockClient struct {
	Responses []string
	Err       error

	Calls [][]Message
	next  int
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func (m *MockClient) Complete(ctx context.Context, messages []Message) (string, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return "", m.Err
	}
	if m.next >= len(m.Responses) {
		return "", context.Canceled
	}
	resp := m.Responses[m.next]
	m.next++
	return resp, nil
}
