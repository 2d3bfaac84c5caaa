package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/pkg/world"
)

func setupSaveStorage(t *testing.T) (*RedisStorage, string) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	rs := NewRedisStorage(mr.Addr(), dir, logger)
	t.Cleanup(func() { _ = rs.Close() })

	return rs, dir
}

func TestSaveFile_RoundTrip(t *testing.T) {
	rs, dir := setupSaveStorage(t)
	ctx := context.Background()

	gs := testGameState(t)
	gs.Year = 2031
	require.NoError(t, rs.ExportSave(ctx, "campaign-1", gs))

	// Export is indented JSON
	data, err := os.ReadFile(filepath.Join(dir, "campaign-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"")

	loaded, err := rs.ImportSave(ctx, "campaign-1")
	require.NoError(t, err)
	assert.Equal(t, gs.ID, loaded.ID)
	assert.Equal(t, 2031, loaded.Year)
	assert.Equal(t, "France", loaded.PlayerCountry)
}

func TestSaveFile_ImportMigratesOldSchema(t *testing.T) {
	rs, dir := setupSaveStorage(t)

	// A save written before military support existed: no units, no arsenal.
	old := `{
		"id": "3b1f8a44-9c2d-4e61-8f07-5a9d2c1e6b33",
		"player_country": "France",
		"year": 2028,
		"territories": {"France": {"id": "France", "name": "France", "owner": "France"}},
		"countries": {"France": {"name": "France", "gdp": 3100, "population": 68, "stability": 72, "military_strength": 65}}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte(old), 0o644))

	loaded, err := rs.ImportSave(context.Background(), "old")
	require.NoError(t, err)

	assert.NotNil(t, loaded.MilitaryUnits)
	assert.NotNil(t, loaded.Chats)
	require.Contains(t, loaded.Arsenal, "France")
	for _, ut := range world.UnitTypes {
		slot, ok := loaded.Arsenal["France"][ut]
		require.True(t, ok, "missing arsenal slot for %s", ut)
		assert.Equal(t, world.DefaultMaxUnits, slot.MaxUnits)
	}
}

func TestSaveFile_ImportRejectsBadShape(t *testing.T) {
	rs, dir := setupSaveStorage(t)
	ctx := context.Background()

	cases := map[string]string{
		"not-json":     `{"year": 2026,`,
		"no-countries": `{"year": 2026}`,
		"no-year":      `{"countries": {"France": {"name": "France"}}}`,
	}

	for name, content := range cases {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644))
		_, err := rs.ImportSave(ctx, name)
		assert.Error(t, err, "expected %s to be rejected", name)
	}
}

func TestSaveFile_InvalidNames(t *testing.T) {
	rs, _ := setupSaveStorage(t)
	ctx := context.Background()

	gs := testGameState(t)
	for _, name := range []string{"", "../escape", "a/b", "x\x00y"} {
		assert.Error(t, rs.ExportSave(ctx, name, gs), "name %q should be rejected", name)
	}
}

func TestSaveFile_List(t *testing.T) {
	rs, _ := setupSaveStorage(t)
	ctx := context.Background()

	names, err := rs.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	gs := testGameState(t)
	require.NoError(t, rs.ExportSave(ctx, "alpha", gs))
	require.NoError(t, rs.ExportSave(ctx, "beta", gs))

	names, err = rs.ListSaves(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}
