package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/internal/services"
	"github.com/cdurham/hegemon/internal/storage"
	"github.com/cdurham/hegemon/pkg/diplomacy"
	"github.com/cdurham/hegemon/pkg/world"
)

// manualScheduler collects continuations so tests fire them explicitly.
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, fn)
}

func (s *manualScheduler) fireAll() {
	for len(s.pending) > 0 {
		fn := s.pending[0]
		s.pending = s.pending[1:]
		fn()
	}
}

func setupChatHandler(t *testing.T) (*ChatHandler, *storage.MockStorage, *manualScheduler, *world.GameState) {
	t.Helper()

	logger := testLogger()
	st := storage.NewMockStorage()
	sched := &manualScheduler{}

	oracle := &services.MockOracle{
		SelectSpeakerFunc: func(ctx context.Context, gs *world.GameState, chat world.DiplomaticChat, excludePlayer bool) (*diplomacy.TurnResult, error) {
			return &diplomacy.TurnResult{
				Sender:      "Turkey",
				Message:     "We propose a joint customs framework.",
				NextSpeaker: gs.PlayerCountry,
			}, nil
		},
	}
	mgr := diplomacy.NewManager(st, oracle, logger).WithScheduler(sched)

	gs := world.NewGameState()
	gs.PlayerCountry = "Greece"
	gs.Countries["Greece"] = world.Country{Name: "Greece"}
	gs.Countries["Turkey"] = world.Country{Name: "Turkey"}
	require.NoError(t, gs.Normalize())
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))

	return NewChatHandler(mgr, logger), st, sched, gs
}

func loadChat(t *testing.T, st *storage.MockStorage, gs *world.GameState, chatID string) world.DiplomaticChat {
	t.Helper()
	loaded, err := st.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	chat, ok := loaded.Chats[chatID]
	require.True(t, ok, "chat %s not found", chatID)
	return chat
}

func TestChatHandler_CreateAndMessage(t *testing.T) {
	h, st, sched, gs := setupChatHandler(t)

	w := postJSON(t, h, "/v1/chat", CreateChatRequest{
		GameStateID:  gs.ID,
		Participants: []string{"Greece", "Turkey"},
		Topic:        "Aegean shipping lanes",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp ChatIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	chat := loadChat(t, st, gs, resp.ChatID)
	assert.Equal(t, "Greece", chat.CurrentSpeaker, "player opens a chat they initiated")

	w = postJSON(t, h, "/v1/chat/message", ChatMessageRequest{
		GameStateID: gs.ID,
		ChatID:      resp.ChatID,
		Text:        "We would like to discuss shipping tariffs.",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	chat = loadChat(t, st, gs, resp.ChatID)
	assert.Equal(t, world.SpeakerDeciding, chat.CurrentSpeaker)

	sched.fireAll()

	chat = loadChat(t, st, gs, resp.ChatID)
	assert.Equal(t, "Greece", chat.CurrentSpeaker, "token returns to player after reply")
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, "Turkey", chat.Messages[1].Sender)
}

func TestChatHandler_MessageOutOfTurn(t *testing.T) {
	h, _, _, gs := setupChatHandler(t)

	w := postJSON(t, h, "/v1/chat", CreateChatRequest{
		GameStateID:  gs.ID,
		Participants: []string{"Greece", "Turkey"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp ChatIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// First message hands the token off; a second immediate message is
	// out of turn.
	w = postJSON(t, h, "/v1/chat/message", ChatMessageRequest{GameStateID: gs.ID, ChatID: resp.ChatID, Text: "one"})
	require.Equal(t, http.StatusAccepted, w.Code)
	w = postJSON(t, h, "/v1/chat/message", ChatMessageRequest{GameStateID: gs.ID, ChatID: resp.ChatID, Text: "two"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChatHandler_AcceptInvitation(t *testing.T) {
	h, st, _, gs := setupChatHandler(t)

	gs.Invitations = append(gs.Invitations, world.ChatInvitation{
		ID:           "inv-1",
		Initiator:    "Turkey",
		Participants: []string{"Greece", "Turkey"},
		Topic:        "Border incident",
		Year:         gs.Year,
	})
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))

	w := postJSON(t, h, "/v1/chat/accept", InvitationRequest{GameStateID: gs.ID, InvitationID: "inv-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp ChatIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	chat := loadChat(t, st, gs, resp.ChatID)
	assert.Equal(t, "Turkey", chat.CurrentSpeaker, "initiator speaks first")

	loaded, err := st.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Invitations, "accepted invitation is consumed")
}

func TestChatHandler_DeclineInvitation(t *testing.T) {
	h, st, _, gs := setupChatHandler(t)

	gs.Invitations = append(gs.Invitations, world.ChatInvitation{
		ID:           "inv-2",
		Initiator:    "Turkey",
		Participants: []string{"Greece", "Turkey"},
	})
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))

	w := postJSON(t, h, "/v1/chat/decline", InvitationRequest{GameStateID: gs.ID, InvitationID: "inv-2"})
	require.Equal(t, http.StatusNoContent, w.Code)

	loaded, err := st.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Invitations)
	assert.Empty(t, loaded.Chats, "declining creates no chat")
}

func TestChatHandler_Interrupt(t *testing.T) {
	h, st, _, gs := setupChatHandler(t)

	w := postJSON(t, h, "/v1/chat", CreateChatRequest{
		GameStateID:  gs.ID,
		Participants: []string{"Greece", "Turkey"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp ChatIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = postJSON(t, h, "/v1/chat/message", ChatMessageRequest{GameStateID: gs.ID, ChatID: resp.ChatID, Text: "hello"})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = postJSON(t, h, "/v1/chat/interrupt", ChatMessageRequest{GameStateID: gs.ID, ChatID: resp.ChatID})
	require.Equal(t, http.StatusNoContent, w.Code)

	chat := loadChat(t, st, gs, resp.ChatID)
	assert.Equal(t, "Greece", chat.CurrentSpeaker)
}
