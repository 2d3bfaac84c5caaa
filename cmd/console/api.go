package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/cdurham/hegemon/pkg/world"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/v1/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeOrError(body []byte, status int, wantStatus int, v any) error {
	if status != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", status, string(body))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(body, v)
}

func postJSON(client *http.Client, url string, reqBody any, wantStatus int, v any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	return decodeOrError(body, resp.StatusCode, wantStatus, v)
}

func createGame(client *http.Client, baseURL string, country string) (*world.GameState, error) {
	var gs world.GameState
	req := map[string]string{"player_country": country}
	if err := postJSON(client, baseURL+"/v1/gamestate", req, http.StatusCreated, &gs); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &gs, nil
}

func getGameState(client *http.Client, baseURL string, gameStateID uuid.UUID) (*world.GameState, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var gs world.GameState
	if err := decodeOrError(body, resp.StatusCode, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}
	return &gs, nil
}

func processTurn(client *http.Client, baseURL string, gameStateID uuid.UUID, action string) (*world.GameState, error) {
	var gs world.GameState
	req := map[string]any{
		"game_state_id": gameStateID,
		"action":        action,
	}
	if err := postJSON(client, baseURL+"/v1/turn", req, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("turn failed: %w", err)
	}
	return &gs, nil
}

func exportSave(client *http.Client, baseURL string, gameStateID uuid.UUID, name string) error {
	req := map[string]any{
		"game_state_id": gameStateID,
		"name":          name,
	}
	return postJSON(client, baseURL+"/v1/saves/export", req, http.StatusNoContent, nil)
}
