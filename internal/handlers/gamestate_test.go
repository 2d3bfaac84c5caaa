package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/internal/storage"
	"github.com/cdurham/hegemon/pkg/snapshot"
	"github.com/cdurham/hegemon/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGameStateHandler_Create(t *testing.T) {
	st := storage.NewMockStorage()
	h := NewGameStateHandler(st, snapshot.DefaultGeography(), testLogger())

	w := postJSON(t, h, "/v1/gamestate", CreateGameRequest{PlayerCountry: "Japan"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var gs world.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gs))
	assert.Equal(t, "Japan", gs.PlayerCountry)
	assert.Equal(t, world.EpochYear, gs.Year)
	assert.NotEmpty(t, gs.Countries)

	saved, err := st.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestGameStateHandler_CreateUnknownCountry(t *testing.T) {
	h := NewGameStateHandler(storage.NewMockStorage(), snapshot.DefaultGeography(), testLogger())

	w := postJSON(t, h, "/v1/gamestate", CreateGameRequest{PlayerCountry: "Atlantis"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameStateHandler_ReadAndDelete(t *testing.T) {
	st := storage.NewMockStorage()
	h := NewGameStateHandler(st, snapshot.DefaultGeography(), testLogger())

	gs := world.NewGameState()
	gs.PlayerCountry = "India"
	gs.Countries["India"] = world.Country{Name: "India"}
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+gs.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/v1/gamestate/"+gs.ID.String(), nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+gs.ID.String(), nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameStateHandler_InvalidID(t *testing.T) {
	h := NewGameStateHandler(storage.NewMockStorage(), snapshot.DefaultGeography(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveHandler_ExportImport(t *testing.T) {
	st := storage.NewMockStorage()
	h := NewSaveHandler(st, testLogger())

	gs := world.NewGameState()
	gs.PlayerCountry = "Egypt"
	gs.Countries["Egypt"] = world.Country{Name: "Egypt"}
	require.NoError(t, st.SaveGameState(context.Background(), gs.ID, gs))

	w := postJSON(t, h, "/v1/saves/export", ExportSaveRequest{GameStateID: gs.ID, Name: "nile"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = postJSON(t, h, "/v1/saves/import", ImportSaveRequest{Name: "nile"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp ImportSaveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, gs.ID, resp.GameStateID, "import gets a fresh session id")

	imported, err := st.LoadGameState(context.Background(), resp.GameStateID)
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, "Egypt", imported.PlayerCountry)
}

func TestSaveHandler_ImportMissing(t *testing.T) {
	h := NewSaveHandler(storage.NewMockStorage(), testLogger())

	w := postJSON(t, h, "/v1/saves/import", ImportSaveRequest{Name: "ghost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
