package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/pkg/diplomacy"
)

type ChatHandler struct {
	diplomacy *diplomacy.Manager
	logger    *slog.Logger
}

func NewChatHandler(d *diplomacy.Manager, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{diplomacy: d, logger: logger}
}

type CreateChatRequest struct {
	GameStateID  uuid.UUID `json:"game_state_id"`
	Participants []string  `json:"participants"`
	Topic        string    `json:"topic"`
}

type ChatIDResponse struct {
	ChatID string `json:"chat_id"`
}

type ChatMessageRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	ChatID      string    `json:"chat_id"`
	Text        string    `json:"text,omitempty"`
}

type InvitationRequest struct {
	GameStateID  uuid.UUID `json:"game_state_id"`
	InvitationID string    `json:"invitation_id"`
}

// ServeHTTP handles diplomatic chat operations
// Routes:
// POST /v1/chat            - Open a new chat (player speaks first)
// POST /v1/chat/message    - Player sends a message on their turn
// POST /v1/chat/delegate   - Player yields the turn to an AI participant
// POST /v1/chat/interrupt  - Player seizes the turn
// POST /v1/chat/accept     - Accept a pending invitation
// POST /v1/chat/decline    - Decline a pending invitation
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/chat"), "/")
	switch action {
	case "":
		h.handleCreate(w, r)
	case "message":
		h.handleMessage(w, r)
	case "delegate":
		h.handleDelegate(w, r)
	case "interrupt":
		h.handleInterrupt(w, r)
	case "accept":
		h.handleAccept(w, r)
	case "decline":
		h.handleDecline(w, r)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown chat operation")
	}
}

func (h *ChatHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || len(req.Participants) < 2 {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and at least two participants are required")
		return
	}

	chatID, err := h.diplomacy.CreateChat(r.Context(), req.GameStateID, req.Participants, req.Topic)
	if err != nil {
		h.logger.Error("Failed to create chat", "game_state_id", req.GameStateID.String(), "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, ChatIDResponse{ChatID: chatID})
}

func (h *ChatHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.ChatID == "" || strings.TrimSpace(req.Text) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id, chat_id and text are required")
		return
	}

	if err := h.diplomacy.PlayerSend(r.Context(), req.GameStateID, req.ChatID, req.Text); err != nil {
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *ChatHandler) handleDelegate(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.ChatID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and chat_id are required")
		return
	}

	if err := h.diplomacy.Delegate(r.Context(), req.GameStateID, req.ChatID); err != nil {
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *ChatHandler) handleInterrupt(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.ChatID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and chat_id are required")
		return
	}

	if err := h.diplomacy.Interrupt(r.Context(), req.GameStateID, req.ChatID); err != nil {
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.InvitationID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and invitation_id are required")
		return
	}

	chatID, err := h.diplomacy.AcceptInvitation(r.Context(), req.GameStateID, req.InvitationID)
	if err != nil {
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, ChatIDResponse{ChatID: chatID})
}

func (h *ChatHandler) handleDecline(w http.ResponseWriter, r *http.Request) {
	var req InvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.InvitationID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and invitation_id are required")
		return
	}

	if err := h.diplomacy.DeclineInvitation(r.Context(), req.GameStateID, req.InvitationID); err != nil {
		writeError(w, h.logger, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
