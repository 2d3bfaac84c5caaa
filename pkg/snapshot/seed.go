package snapshot

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/baseline_stats.yaml
var baselineStatsYAML []byte

//go:embed data/cities.yaml
var cityCatalogYAML []byte

// BaselineStats is the real-world statistics row for one country. Countries
// absent from the table get deterministic hash-derived stats instead.
type BaselineStats struct {
	GDP              float64  `yaml:"gdp"`
	Population       float64  `yaml:"population"`
	Stability        float64  `yaml:"stability"`
	MilitaryStrength float64  `yaml:"military_strength"`
	MilitaryTech     float64  `yaml:"military_tech"`
	Resources        []string `yaml:"resources"`
}

// CitySeed is one entry of the fixed city catalog. TerritoryID must match
// a built territory; entries that do not are data-authoring errors and are
// skipped with a warning.
type CitySeed struct {
	Name        string  `yaml:"name"`
	TerritoryID string  `yaml:"territory_id"`
	Lat         float64 `yaml:"lat"`
	Lng         float64 `yaml:"lng"`
	Capital     bool    `yaml:"capital"`
}

func loadBaselineStats() (map[string]BaselineStats, error) {
	stats := make(map[string]BaselineStats)
	if err := yaml.Unmarshal(baselineStatsYAML, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse baseline stats table: %w", err)
	}
	return stats, nil
}

func loadCityCatalog() ([]CitySeed, error) {
	var cities []CitySeed
	if err := yaml.Unmarshal(cityCatalogYAML, &cities); err != nil {
		return nil, fmt.Errorf("failed to parse city catalog: %w", err)
	}
	return cities, nil
}
