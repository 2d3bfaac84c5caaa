package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/pkg/world"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	rs := NewRedisStorage(mr.Addr(), t.TempDir(), logger)
	t.Cleanup(func() { _ = rs.Close() })

	return rs, mr
}

func testGameState(t *testing.T) *world.GameState {
	t.Helper()

	gs := world.NewGameState()
	gs.PlayerCountry = "France"
	gs.Countries["France"] = world.Country{
		Name:             "France",
		GDP:              3100,
		Population:       68,
		Stability:        72,
		MilitaryStrength: 65,
	}
	gs.Territories["France"] = world.Territory{ID: "France", Name: "France", Owner: "France"}
	return gs
}

func TestRedisStorage_GameStateRoundTrip(t *testing.T) {
	rs, _ := setupTestStorage(t)
	ctx := context.Background()

	gs := testGameState(t)
	require.NoError(t, rs.SaveGameState(ctx, gs.ID, gs))

	loaded, err := rs.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, "France", loaded.PlayerCountry)
	assert.Equal(t, gs.Year, loaded.Year)
	assert.Contains(t, loaded.Countries, "France")
	assert.Equal(t, float64(3100), loaded.Countries["France"].GDP)
}

func TestRedisStorage_LoadMigratesOldSchema(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()

	// A record written before chats, units and arsenals existed.
	raw := `{
		"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"year": 2027,
		"player_country": "France",
		"countries": {"France": {"name": "France", "gdp": 3100, "population": 68, "stability": 72}},
		"territories": {"France": {"id": "France", "name": "France", "parent_country": "France", "owner": "France"}}
	}`
	require.NoError(t, mr.Set("gamestate:7c9e6679-7425-40de-944b-e07fc1f90ae7", raw))

	loaded, err := rs.LoadGameState(ctx, mustUUID(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7"))
	require.NoError(t, err)
	require.NotNil(t, loaded)

	require.NotNil(t, loaded.Chats)
	require.NotNil(t, loaded.MilitaryUnits)
	require.Contains(t, loaded.Arsenal, "France")
	for _, ut := range world.UnitTypes {
		require.NotNil(t, loaded.Arsenal["France"][ut])
		assert.Equal(t, world.DefaultMaxUnits, loaded.Arsenal["France"][ut].MaxUnits)
	}
}

func TestRedisStorage_LoadRejectsMalformedState(t *testing.T) {
	rs, mr := setupTestStorage(t)

	require.NoError(t, mr.Set("gamestate:9c9e6679-7425-40de-944b-e07fc1f90ae7", `{"year": 0}`))

	_, err := rs.LoadGameState(context.Background(), mustUUID(t, "9c9e6679-7425-40de-944b-e07fc1f90ae7"))
	assert.Error(t, err)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestRedisStorage_LoadMissing(t *testing.T) {
	rs, _ := setupTestStorage(t)

	gs := testGameState(t)
	loaded, err := rs.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded, "missing gamestate should load as nil without error")
}

func TestRedisStorage_Delete(t *testing.T) {
	rs, _ := setupTestStorage(t)
	ctx := context.Background()

	gs := testGameState(t)
	require.NoError(t, rs.SaveGameState(ctx, gs.ID, gs))
	require.NoError(t, rs.DeleteGameState(ctx, gs.ID))

	loaded, err := rs.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_SaveSetsTTL(t *testing.T) {
	rs, mr := setupTestStorage(t)
	ctx := context.Background()

	gs := testGameState(t)
	require.NoError(t, rs.SaveGameState(ctx, gs.ID, gs))

	ttl := mr.TTL("gamestate:" + gs.ID.String())
	assert.Equal(t, gameStateTTL, ttl)
}

func TestRedisStorage_Ping(t *testing.T) {
	rs, mr := setupTestStorage(t)

	require.NoError(t, rs.Ping(context.Background()))

	mr.Close()
	assert.Error(t, rs.Ping(context.Background()))
}
