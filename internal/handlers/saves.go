package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/internal/storage"
)

type SaveHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewSaveHandler(st storage.Storage, logger *slog.Logger) *SaveHandler {
	return &SaveHandler{storage: st, logger: logger}
}

type ExportSaveRequest struct {
	GameStateID uuid.UUID `json:"game_state_id"`
	Name        string    `json:"name"`
}

type ImportSaveRequest struct {
	Name string `json:"name"`
}

type ImportSaveResponse struct {
	GameStateID uuid.UUID `json:"game_state_id"`
}

// ServeHTTP handles save file operations
// Routes:
// GET /v1/saves          - List save files
// POST /v1/saves/export  - Write a live game to a save file
// POST /v1/saves/import  - Load a save file into a live game
func (h *SaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/saves"), "/")

	switch {
	case r.Method == http.MethodGet && action == "":
		h.handleList(w, r)
	case r.Method == http.MethodPost && action == "export":
		h.handleExport(w, r)
	case r.Method == http.MethodPost && action == "import":
		h.handleImport(w, r)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Unsupported saves operation")
	}
}

func (h *SaveHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.storage.ListSaves(r.Context())
	if err != nil {
		h.logger.Error("Failed to list saves", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list saves")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string][]string{"saves": names})
}

func (h *SaveHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GameStateID == uuid.Nil || req.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "game_state_id and name are required")
		return
	}

	gs, err := h.storage.LoadGameState(r.Context(), req.GameStateID)
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game state")
		return
	}
	if gs == nil {
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return
	}

	if err := h.storage.ExportSave(r.Context(), req.Name, gs); err != nil {
		h.logger.Error("Failed to export save", "name", req.Name, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Failed to export save: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaveHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	var req ImportSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, h.logger, http.StatusBadRequest, "name is required")
		return
	}

	gs, err := h.storage.ImportSave(r.Context(), req.Name)
	if err != nil {
		h.logger.Warn("Save import rejected", "name", req.Name, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Failed to import save: "+err.Error())
		return
	}

	// Imported games get a fresh session ID so an import never clobbers
	// the live game it was exported from.
	gs.ID = uuid.New()
	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save imported game")
		return
	}

	h.logger.Info("Save imported", "name", req.Name, "game_state_id", gs.ID.String())
	writeJSON(w, h.logger, http.StatusCreated, ImportSaveResponse{GameStateID: gs.ID})
}
