package snapshot

import (
	"fmt"
	"hash/fnv"

	"github.com/cdurham/hegemon/pkg/world"
)

// nameHash returns a stable 64-bit hash of a country name. Re-running the
// builder on identical input must be reproducible, so all fallback stats
// and colors derive from this.
func nameHash(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// hashRange maps a hash and salt into [lo, hi).
func hashRange(h uint64, salt uint64, lo, hi float64) float64 {
	mixed := (h ^ (salt * 0x9e3779b97f4a7c15)) % 10000
	return lo + (hi-lo)*float64(mixed)/10000
}

// fallbackStats derives baseline statistics for a country absent from the
// real-world table.
func fallbackStats(name string) BaselineStats {
	h := nameHash(name)
	return BaselineStats{
		GDP:              hashRange(h, 1, 10, 210),
		Population:       hashRange(h, 2, 1, 101),
		Stability:        hashRange(h, 3, 30, 90),
		MilitaryStrength: hashRange(h, 4, 5, 55),
		MilitaryTech:     hashRange(h, 5, 1, 8),
	}
}

// formationStats derives the nascent-state baseline for countries created
// mid-game by COUNTRY_FORMATION or secession. Smaller ranges than the
// snapshot fallback.
func formationStats(name string) BaselineStats {
	h := nameHash(name)
	return BaselineStats{
		GDP:              hashRange(h, 1, 5, 55),
		Population:       hashRange(h, 2, 1, 31),
		Stability:        hashRange(h, 3, 25, 65),
		MilitaryStrength: hashRange(h, 4, 2, 22),
		MilitaryTech:     hashRange(h, 5, 1, 6),
	}
}

// CountryColor maps a country name to a deterministic hex RGB color. The
// same name always yields the same color; distinct names generally differ
// but uniqueness is not guaranteed. Channels are kept off the extremes so
// labels stay readable on the map.
func CountryColor(name string) string {
	h := nameHash(name)
	r := 40 + (h>>0)%176
	g := 40 + (h>>21)%176
	b := 40 + (h>>42)%176
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// NewFormedCountry builds a Country entity for a name first seen mid-game.
func NewFormedCountry(name string) world.Country {
	stats := formationStats(name)
	return world.Country{
		Name:             name,
		Color:            CountryColor(name),
		GDP:              stats.GDP,
		Population:       stats.Population,
		Stability:        stats.Stability,
		MilitaryStrength: stats.MilitaryStrength,
		MilitaryTech:     stats.MilitaryTech,
	}
}
