package snapshot

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(GeographyData{}, testLogger())
	assert.Error(t, err)
}

func TestBuild_WholeCountryPolygon(t *testing.T) {
	geo := GeographyData{Polygons: []Polygon{{Name: "Japan"}}}

	gs, err := Build(geo, testLogger())
	require.NoError(t, err)

	tr, ok := gs.Territories["Japan"]
	require.True(t, ok, "whole-country polygon uses its own name as id")
	assert.Equal(t, "Japan", tr.Parent)
	assert.Equal(t, "Japan", tr.Owner)

	c, ok := gs.Countries["Japan"]
	require.True(t, ok)
	assert.Greater(t, c.GDP, 0.0, "Japan is in the baseline table")
	assert.NotEmpty(t, c.Color)

	ca, ok := gs.Arsenal["Japan"]
	require.True(t, ok)
	for _, ut := range world.UnitTypes {
		require.Contains(t, ca, ut)
		assert.Equal(t, world.DefaultMaxUnits, ca[ut].MaxUnits)
	}
}

func TestBuild_SubdividedCountry(t *testing.T) {
	geo := GeographyData{Polygons: []Polygon{
		{Name: "Bavaria", Country: "Germany"},
		{Name: "Saxony", Country: "Germany"},
	}}

	gs, err := Build(geo, testLogger())
	require.NoError(t, err)

	require.Contains(t, gs.Territories, "Germany-Bavaria", "regions get composite ids")
	require.Contains(t, gs.Territories, "Germany-Saxony")
	assert.Equal(t, "Germany", gs.Territories["Germany-Bavaria"].Parent)

	assert.Len(t, gs.Countries, 1, "one country per distinct parent")
}

func TestBuild_UnclaimedLandHasNoCountry(t *testing.T) {
	geo := GeographyData{Polygons: []Polygon{
		{Name: "Japan"},
		{Name: "Antarctica", Country: world.UnclaimedOwner},
	}}

	gs, err := Build(geo, testLogger())
	require.NoError(t, err)

	tr, ok := gs.Territories["Antarctica"]
	require.True(t, ok)
	assert.Equal(t, world.UnclaimedOwner, tr.Owner)
	assert.NotContains(t, gs.Countries, world.UnclaimedOwner)
	assert.NotContains(t, gs.Arsenal, world.UnclaimedOwner)
}

func TestBuild_DuplicatePolygonSkipped(t *testing.T) {
	geo := GeographyData{Polygons: []Polygon{{Name: "Japan"}, {Name: "Japan"}}}

	gs, err := Build(geo, testLogger())
	require.NoError(t, err)
	assert.Len(t, gs.Territories, 1)
}

func TestBuild_CityCatalogSeeded(t *testing.T) {
	geo := DefaultGeography()

	gs, err := Build(geo, testLogger())
	require.NoError(t, err)

	require.NotEmpty(t, gs.Cities)
	var berlin *world.City
	for i := range gs.Cities {
		if gs.Cities[i].Name == "Berlin" {
			berlin = &gs.Cities[i]
			break
		}
	}
	require.NotNil(t, berlin)
	assert.Equal(t, world.CityID("Berlin", berlin.TerritoryID), berlin.ID)
	assert.True(t, berlin.IsCapital)
	assert.Contains(t, gs.Territories, berlin.TerritoryID)
}

func TestBuild_UnknownCountryGetsFallbackStats(t *testing.T) {
	geo := GeographyData{Polygons: []Polygon{{Name: "Ruritania"}}}

	gs, err := Build(geo, testLogger())
	require.NoError(t, err)

	c := gs.Countries["Ruritania"]
	assert.Greater(t, c.GDP, 0.0)
	assert.GreaterOrEqual(t, c.Stability, 30.0)
	assert.Less(t, c.Stability, 90.0)

	// Rebuilding yields identical stats.
	gs2, err := Build(geo, testLogger())
	require.NoError(t, err)
	assert.Equal(t, c, gs2.Countries["Ruritania"])
}

func TestCountryColor_Deterministic(t *testing.T) {
	assert.Equal(t, CountryColor("France"), CountryColor("France"))
	assert.Regexp(t, `^#[0-9a-f]{6}$`, CountryColor("France"))
}

func TestNewFormedCountry(t *testing.T) {
	c := NewFormedCountry("Pacifica")
	assert.Equal(t, "Pacifica", c.Name)
	assert.NotEmpty(t, c.Color)
	assert.Greater(t, c.GDP, 0.0)
	assert.Equal(t, c, NewFormedCountry("Pacifica"), "formation stats are stable")
}

func TestDefaultGeography(t *testing.T) {
	geo := DefaultGeography()
	require.NotEmpty(t, geo.Polygons)

	last := geo.Polygons[len(geo.Polygons)-1]
	assert.Equal(t, "Antarctica", last.Name)
	assert.Equal(t, world.UnclaimedOwner, last.Country)

	// Country polygons are sorted for reproducible builds.
	names := make([]string, 0, len(geo.Polygons)-1)
	for _, p := range geo.Polygons[:len(geo.Polygons)-1] {
		names = append(names, p.Name)
	}
	assert.IsIncreasing(t, names)
}
