package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/internal/storage"
	"github.com/cdurham/hegemon/pkg/snapshot"
)

type GameStateHandler struct {
	storage storage.Storage
	geo     snapshot.GeographyData
	logger  *slog.Logger
}

func NewGameStateHandler(st storage.Storage, geo snapshot.GeographyData, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{
		storage: st,
		geo:     geo,
		logger:  logger,
	}
}

type CreateGameRequest struct {
	PlayerCountry string `json:"player_country"`
}

// ServeHTTP handles HTTP requests for game state operations
// Routes:
// POST /v1/gamestate         - Create new game from the world snapshot
// GET /v1/gamestate/{id}     - Read game state by ID
// DELETE /v1/gamestate/{id}  - Delete game state by ID
func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/gamestate")
	var gameStateID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		gameStateID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid game state ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if gameStateID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required for GET requests")
			return
		}
		h.handleRead(w, r, gameStateID)

	case http.MethodDelete:
		if gameStateID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, gameStateID)

	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerCountry == "" {
		writeError(w, h.logger, http.StatusBadRequest, "player_country is required")
		return
	}

	gs, err := snapshot.Build(h.geo, h.logger)
	if err != nil {
		h.logger.Error("Failed to build world snapshot", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create game")
		return
	}

	if _, ok := gs.Countries[req.PlayerCountry]; !ok {
		writeError(w, h.logger, http.StatusBadRequest, "Unknown country: "+req.PlayerCountry)
		return
	}
	gs.PlayerCountry = req.PlayerCountry

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		h.logger.Error("Failed to save new game state", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game")
		return
	}

	h.logger.Info("Game created", "game_state_id", gs.ID.String(), "player_country", req.PlayerCountry)
	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func (h *GameStateHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, err := h.storage.LoadGameState(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load game state", "game_state_id", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game state")
		return
	}
	if gs == nil {
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *GameStateHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteGameState(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete game state", "game_state_id", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game state")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
