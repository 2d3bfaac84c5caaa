package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cdurham/hegemon/pkg/diplomacy"
	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/prompts"
	"github.com/cdurham/hegemon/pkg/world"
)

const (
	ChatRoleUser   = "user"
	ChatRoleAgent  = "assistant"
	ChatRoleSystem = "system"
)

// Message is a single message in an LLM conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a low-level LLM completion backend (Anthropic, Ollama).
type Client interface {
	// InitModel verifies or prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Complete returns the model's text completion for the messages.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Oracle is the external narrative service: it interprets player actions
// into world events, selects speakers in diplomatic chats, and classifies
// free-text unit orders. All outputs are untrusted and validated before
// use.
type Oracle interface {
	diplomacy.TurnSelector

	InitModel(ctx context.Context, modelName string) error
	GenerateEvents(ctx context.Context, gs *world.GameState, action string) ([]world.WorldEvent, error)
	ResolveUnitOrder(ctx context.Context, gs *world.GameState, unit world.MilitaryUnit, order string) (*military.UnitActionOutcome, error)
}

// LLMOracle implements Oracle on top of any completion Client.
type LLMOracle struct {
	client Client
	logger *slog.Logger
}

var _ Oracle = (*LLMOracle)(nil)

// NewLLMOracle wraps a completion client in the oracle contract.
func NewLLMOracle(client Client, logger *slog.Logger) *LLMOracle {
	return &LLMOracle{client: client, logger: logger}
}

func (o *LLMOracle) InitModel(ctx context.Context, modelName string) error {
	return o.client.InitModel(ctx, modelName)
}

// GenerateEvents asks the oracle to interpret a national action and
// returns the schema-validated event batch.
func (o *LLMOracle) GenerateEvents(ctx context.Context, gs *world.GameState, action string) ([]world.WorldEvent, error) {
	summary, err := prompts.BuildWorldSummary(gs)
	if err != nil {
		return nil, err
	}

	messages := []Message{
		{Role: ChatRoleSystem, Content: fmt.Sprintf(prompts.EventOraclePrompt, gs.Year, gs.Year, summary)},
		{Role: ChatRoleUser, Content: action},
	}

	content, err := o.client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("oracle completion failed: %w", err)
	}

	events, err := world.DecodeEventBatch(extractJSON(content))
	if err != nil {
		o.logger.Warn("Oracle returned malformed event batch", "error", err)
		return nil, err
	}
	return events, nil
}

// SelectSpeaker asks the oracle who speaks next in a diplomatic chat.
func (o *LLMOracle) SelectSpeaker(ctx context.Context, gs *world.GameState, chat world.DiplomaticChat, excludePlayer bool) (*diplomacy.TurnResult, error) {
	roster := make(map[string]prompts.CountrySummary, len(chat.Participants))
	full := prompts.ToWorldSummary(gs)
	for _, p := range chat.Participants {
		if cs, ok := full.Countries[p]; ok {
			roster[p] = cs
		}
	}
	rosterJSON, err := json.Marshal(roster)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal participant roster: %w", err)
	}

	transcript := ""
	for _, msg := range chat.Messages {
		transcript += fmt.Sprintf("%s: %s\n", msg.Sender, msg.Text)
	}

	constraint := ""
	if excludePlayer {
		constraint = prompts.TurnSelectorExcludePlayer
	}

	messages := []Message{
		{Role: ChatRoleSystem, Content: fmt.Sprintf(prompts.TurnSelectorPrompt, string(rosterJSON), transcript, constraint)},
		{Role: ChatRoleUser, Content: "Who speaks next?"},
	}

	content, err := o.client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("turn selector completion failed: %w", err)
	}

	var result diplomacy.TurnResult
	if err := json.Unmarshal(extractJSON(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse turn selector response: %w", err)
	}
	if result.NextSpeaker != "" && !chat.HasParticipant(result.NextSpeaker) {
		return nil, fmt.Errorf("turn selector chose a non-participant: %s", result.NextSpeaker)
	}
	return &result, nil
}

// ResolveUnitOrder asks the oracle to classify a free-text unit order
// into a structured outcome.
func (o *LLMOracle) ResolveUnitOrder(ctx context.Context, gs *world.GameState, unit world.MilitaryUnit, order string) (*military.UnitActionOutcome, error) {
	unitJSON, err := json.Marshal(unit)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal unit: %w", err)
	}
	summary, err := prompts.BuildWorldSummary(gs)
	if err != nil {
		return nil, err
	}

	messages := []Message{
		{Role: ChatRoleSystem, Content: fmt.Sprintf(prompts.UnitOrderPrompt, string(unitJSON), summary, order)},
		{Role: ChatRoleUser, Content: order},
	}

	content, err := o.client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("unit order completion failed: %w", err)
	}

	var outcome military.UnitActionOutcome
	if err := json.Unmarshal(extractJSON(content), &outcome); err != nil {
		return nil, fmt.Errorf("failed to parse unit order outcome: %w", err)
	}
	if outcome.Order == "" {
		outcome.Order = order
	}
	return &outcome, nil
}
