package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/internal/worker"
)

type TurnHandler struct {
	processor *worker.TurnProcessor
	logger    *slog.Logger
}

func NewTurnHandler(processor *worker.TurnProcessor, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{processor: processor, logger: logger}
}

type TurnRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Action      string    `json:"action"`
}

type UnitOrderRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	UnitID      string    `json:"unit_id"`
	Order       string    `json:"order"`
}

// ServeHTTP handles turn processing
// Routes:
// POST /v1/turn        - Submit the yearly national action
// POST /v1/turn/unit   - Issue a free-text order to one military unit
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/turn"), "/")
	switch action {
	case "":
		h.handleTurn(w, r)
	case "unit":
		h.handleUnitOrder(w, r)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown turn operation")
	}
}

func (h *TurnHandler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || strings.TrimSpace(req.Action) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and action are required")
		return
	}

	gs, err := h.processor.ProcessTurn(r.Context(), req.GameStateID, req.Action)
	if err != nil {
		h.logger.Error("Turn processing failed", "game_state_id", req.GameStateID.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process turn")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *TurnHandler) handleUnitOrder(w http.ResponseWriter, r *http.Request) {
	var req UnitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.UnitID == "" || strings.TrimSpace(req.Order) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id, unit_id and order are required")
		return
	}

	gs, err := h.processor.ProcessUnitOrder(r.Context(), req.GameStateID, req.UnitID, req.Order)
	if err != nil {
		h.logger.Error("Unit order failed",
			"game_state_id", req.GameStateID.String(),
			"unit_id", req.UnitID,
			"error", err,
		)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to process unit order")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}
