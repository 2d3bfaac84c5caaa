package world

// UnclaimedOwner is the sentinel owner for ungoverned land such as
// Antarctica. Territories owned by it have no Country entry.
const UnclaimedOwner = "Unclaimed"

// Coordinates is a point on the world map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Territory is the smallest ownable land unit. Owner is the only mutable
// field; Parent is the original polity and never changes.
type Territory struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent_country"`
	Owner  string `json:"owner"`
}

// Country is a political entity with economic and military statistics.
// Countries are never deleted once created; a defeated country persists
// with degraded stats.
type Country struct {
	Name             string   `json:"name"`
	Color            string   `json:"color"`
	GDP              float64  `json:"gdp"`
	Population       float64  `json:"population"`
	Stability        float64  `json:"stability"`
	Resources        []string `json:"resources,omitempty"`
	MilitaryStrength float64  `json:"military_strength"`
	MilitaryTech     float64  `json:"military_tech"`
	LabelName        string   `json:"label_name,omitempty"`
	LabelScale       float64  `json:"label_scale,omitempty"`
}

// Stat floors and clamps. Applied by ApplyStatDeltas, and re-applied on
// load so hand-edited saves cannot smuggle values past them.
const (
	MinGDP        = 1.0
	MinPopulation = 0.1
	MinStability  = 0.0
	MaxStability  = 100.0
)

// ApplyStatDeltas adjusts the country's numeric stats by the given deltas
// and clamps the results to their legal ranges.
func (c *Country) ApplyStatDeltas(gdp, population, stability, militaryStrength float64) {
	c.GDP = max(c.GDP+gdp, MinGDP)
	c.Population = max(c.Population+population, MinPopulation)
	c.Stability = min(max(c.Stability+stability, MinStability), MaxStability)
	c.MilitaryStrength = max(c.MilitaryStrength+militaryStrength, 0)
}

// AddResources unions the given resources into the country's resource set.
func (c *Country) AddResources(resources []string) {
	for _, res := range resources {
		if res == "" {
			continue
		}
		exists := false
		for _, have := range c.Resources {
			if have == res {
				exists = true
				break
			}
		}
		if !exists {
			c.Resources = append(c.Resources, res)
		}
	}
}

// City is a named settlement bound to a territory. Its ID is derived from
// name and territory, so renaming a city changes its ID. Any external
// reference held by the old ID stops resolving after a rename; there is no
// compensating reference-update pass.
type City struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	TerritoryID string      `json:"territory_id"`
	IsCapital   bool        `json:"is_capital,omitempty"`
}

// CityID derives a city's identifier from its name and territory.
func CityID(name, territoryID string) string {
	return territoryID + ":" + name
}
