package diplomacy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/pkg/world"
)

// TurnResult is the turn-selector oracle's answer: who spoke, what they
// said, and who holds the token next.
type TurnResult struct {
	Sender      string `json:"sender"`
	Message     string `json:"message,omitempty"`
	NextSpeaker string `json:"next_speaker"`
}

// TurnSelector is the external oracle that picks the next speaker in a
// diplomatic chat. ExcludePlayer is set during delegation: the selector
// must then return a non-player speaker.
type TurnSelector interface {
	SelectSpeaker(ctx context.Context, gs *world.GameState, chat world.DiplomaticChat, excludePlayer bool) (*TurnResult, error)
}

// Store is the slice of game-state persistence the manager needs.
type Store interface {
	LoadGameState(ctx context.Context, id uuid.UUID) (*world.GameState, error)
	SaveGameState(ctx context.Context, id uuid.UUID, gs *world.GameState) error
}

// Scheduler defers a chained AI-to-AI turn-advance. Injected so tests can
// fire continuations manually instead of sleeping.
type Scheduler interface {
	After(d time.Duration, fn func())
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// ChainDelay is the pause before a non-player speaker takes their turn.
const ChainDelay = 4 * time.Second

// apologyText is appended when the turn-selector oracle fails and control
// falls back without a real reply.
const apologyText = "Apologies, the delegation needs a moment to confer. Please continue."

// Manager runs diplomatic chat sessions as a turn-token state machine.
// The current speaker is either a participant name or the deciding
// sentinel. Every scheduled turn-advance carries the chat epoch it
// observed and no-ops if the live epoch has moved on.
type Manager struct {
	store    Store
	selector TurnSelector
	sched    Scheduler
	logger   *slog.Logger
}

// NewManager creates a diplomacy manager with the real timer scheduler.
func NewManager(store Store, selector TurnSelector, logger *slog.Logger) *Manager {
	return &Manager{store: store, selector: selector, sched: timerScheduler{}, logger: logger}
}

// WithScheduler overrides the scheduler. Returns the manager for chaining.
func (m *Manager) WithScheduler(s Scheduler) *Manager {
	m.sched = s
	return m
}

// CreateChat opens a player-initiated chat. The player holds the token
// and must send the opening message.
func (m *Manager) CreateChat(ctx context.Context, gameID uuid.UUID, participants []string, topic string) (string, error) {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return "", err
	}

	chat := world.DiplomaticChat{
		ID:             uuid.New().String(),
		Participants:   participants,
		Topic:          topic,
		CurrentSpeaker: gs.PlayerCountry,
	}
	gs.Chats[chat.ID] = chat

	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return "", fmt.Errorf("failed to save game state: %w", err)
	}
	return chat.ID, nil
}

// AcceptInvitation moves a pending invitation into a live chat. The
// initiator speaks first unless the initiator is the player, in which
// case the oracle decides and a turn-advance is scheduled immediately.
func (m *Manager) AcceptInvitation(ctx context.Context, gameID uuid.UUID, invitationID string) (string, error) {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return "", err
	}

	inv, ok := takeInvitation(gs, invitationID)
	if !ok {
		return "", fmt.Errorf("invitation not found: %s", invitationID)
	}

	chat := world.DiplomaticChat{
		ID:           uuid.New().String(),
		Participants: inv.Participants,
		Topic:        inv.Topic,
	}
	advance := false
	if inv.Initiator == gs.PlayerCountry {
		chat.CurrentSpeaker = world.SpeakerDeciding
		advance = true
	} else {
		chat.CurrentSpeaker = inv.Initiator
	}
	gs.Chats[chat.ID] = chat

	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return "", fmt.Errorf("failed to save game state: %w", err)
	}

	if advance {
		m.scheduleAdvance(gameID, chat.ID, chat.Epoch, false, 0)
	}
	return chat.ID, nil
}

// DeclineInvitation drops a pending invitation without creating a chat.
func (m *Manager) DeclineInvitation(ctx context.Context, gameID uuid.UUID, invitationID string) error {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return err
	}
	if _, ok := takeInvitation(gs, invitationID); !ok {
		return fmt.Errorf("invitation not found: %s", invitationID)
	}
	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// PlayerSend appends a player message. Only legal while the player holds
// the token; the chat then moves to the deciding sentinel and a
// turn-advance is scheduled.
func (m *Manager) PlayerSend(ctx context.Context, gameID uuid.UUID, chatID, text string) error {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return err
	}
	chat, ok := gs.Chats[chatID]
	if !ok {
		return fmt.Errorf("chat not found: %s", chatID)
	}
	if chat.CurrentSpeaker != gs.PlayerCountry {
		return fmt.Errorf("it is not the player's turn to speak")
	}

	chat.Messages = append(chat.Messages, world.ChatMessage{Sender: gs.PlayerCountry, Text: text})
	chat.SetSpeaker(world.SpeakerDeciding)
	gs.Chats[chatID] = chat

	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	m.scheduleAdvance(gameID, chatID, chat.Epoch, false, 0)
	return nil
}

// Delegate is a player-only action forcing the oracle to pick a
// non-player next speaker immediately.
func (m *Manager) Delegate(ctx context.Context, gameID uuid.UUID, chatID string) error {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return err
	}
	chat, ok := gs.Chats[chatID]
	if !ok {
		return fmt.Errorf("chat not found: %s", chatID)
	}
	if chat.CurrentSpeaker != gs.PlayerCountry {
		return fmt.Errorf("only the current speaker may delegate")
	}

	chat.SetSpeaker(world.SpeakerDeciding)
	gs.Chats[chatID] = chat

	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	m.scheduleAdvance(gameID, chatID, chat.Epoch, true, 0)
	return nil
}

// Interrupt forcibly returns the token to the player, pre-empting any
// in-flight turn-advance. The pre-empted continuation sees a changed
// epoch and discards its result.
func (m *Manager) Interrupt(ctx context.Context, gameID uuid.UUID, chatID string) error {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return err
	}
	chat, ok := gs.Chats[chatID]
	if !ok {
		return fmt.Errorf("chat not found: %s", chatID)
	}

	chat.SetSpeaker(gs.PlayerCountry)
	gs.Chats[chatID] = chat

	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// AdvanceTurn resolves a deciding chat: it asks the turn-selector oracle
// who speaks next, applies the answer, and chains another advance when
// the chosen speaker is not the player. expectEpoch is the epoch the
// caller observed when it set the sentinel; if the live chat no longer
// matches, someone interrupted and the result is silently dropped.
func (m *Manager) AdvanceTurn(ctx context.Context, gameID uuid.UUID, chatID string, expectEpoch int64, excludePlayer bool) error {
	gs, err := m.loadState(ctx, gameID)
	if err != nil {
		return err
	}
	chat, ok := gs.Chats[chatID]
	if !ok {
		return fmt.Errorf("chat not found: %s", chatID)
	}
	if chat.Epoch != expectEpoch {
		m.logger.Debug("Stale turn-advance dropped",
			"chat_id", chatID,
			"expect_epoch", expectEpoch,
			"live_epoch", chat.Epoch)
		return nil
	}

	// A chained advance fires while the token still shows the AI speaker
	// from the previous turn; claim it before consulting the oracle.
	if chat.CurrentSpeaker != world.SpeakerDeciding {
		chat.SetSpeaker(world.SpeakerDeciding)
		gs.Chats[chatID] = chat
		if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
			return fmt.Errorf("failed to save game state: %w", err)
		}
		expectEpoch = chat.Epoch
	}

	result, err := m.selector.SelectSpeaker(ctx, gs, chat, excludePlayer)
	if err != nil {
		m.logger.Warn("Turn selector failed, falling back", "error", err, "chat_id", chatID)
		result = m.fallbackResult(gs, chat, excludePlayer)
	}

	// Re-read after the await: the selector call may have taken long
	// enough for an interrupt to land.
	gs, err = m.loadState(ctx, gameID)
	if err != nil {
		return err
	}
	chat, ok = gs.Chats[chatID]
	if !ok {
		return fmt.Errorf("chat not found: %s", chatID)
	}
	if chat.CurrentSpeaker != world.SpeakerDeciding || chat.Epoch != expectEpoch {
		m.logger.Debug("Turn-advance result discarded after interrupt", "chat_id", chatID)
		return nil
	}

	if result.Message != "" {
		chat.Messages = append(chat.Messages, world.ChatMessage{Sender: result.Sender, Text: result.Message})
	}
	nextSpeaker := result.NextSpeaker
	if nextSpeaker == world.SpeakerDeciding {
		nextSpeaker = gs.PlayerCountry
	}
	chat.SetSpeaker(nextSpeaker)
	gs.Chats[chatID] = chat

	if err := m.store.SaveGameState(ctx, gameID, gs); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}

	// Chained AI-to-AI conversation: a non-player next speaker does not
	// wait for the player. The scheduled continuation carries the epoch
	// it observed; an interrupt in the meantime invalidates it.
	if nextSpeaker != gs.PlayerCountry {
		m.scheduleAdvance(gameID, chatID, chat.Epoch, false, ChainDelay)
	}
	return nil
}

// fallbackResult returns control to the player, or during a delegation to
// the first non-player participant, with a canned apology.
func (m *Manager) fallbackResult(gs *world.GameState, chat world.DiplomaticChat, excludePlayer bool) *TurnResult {
	next := gs.PlayerCountry
	if excludePlayer {
		for _, p := range chat.Participants {
			if p != gs.PlayerCountry {
				next = p
				break
			}
		}
	}
	return &TurnResult{Sender: next, Message: apologyText, NextSpeaker: next}
}

func (m *Manager) scheduleAdvance(gameID uuid.UUID, chatID string, epoch int64, excludePlayer bool, delay time.Duration) {
	fire := func() {
		if err := m.AdvanceTurn(context.Background(), gameID, chatID, epoch, excludePlayer); err != nil {
			m.logger.Error("Turn advance failed", "error", err, "chat_id", chatID)
		}
	}
	m.sched.After(delay, fire)
}

func (m *Manager) loadState(ctx context.Context, gameID uuid.UUID) (*world.GameState, error) {
	gs, err := m.store.LoadGameState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	if gs == nil {
		return nil, fmt.Errorf("game state not found: %s", gameID.String())
	}
	return gs, nil
}

func takeInvitation(gs *world.GameState, invitationID string) (world.ChatInvitation, bool) {
	for i, inv := range gs.Invitations {
		if inv.ID == invitationID {
			gs.Invitations = append(gs.Invitations[:i], gs.Invitations[i+1:]...)
			return inv, true
		}
	}
	return world.ChatInvitation{}, false
}
