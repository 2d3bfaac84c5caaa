package world

// EventKind tags a WorldEvent with its variant. The oracle may emit kinds
// this engine does not know; unrecognized kinds are a no-op pass-through.
type EventKind string

const (
	EventWarDeclared         EventKind = "WAR_DECLARED"
	EventPeaceTreaty         EventKind = "PEACE_TREATY"
	EventAllianceFormed      EventKind = "ALLIANCE_FORMED"
	EventAllianceBroken      EventKind = "ALLIANCE_BROKEN"
	EventAnnexation          EventKind = "ANNEXATION"
	EventSecession           EventKind = "SECESSION"
	EventCountryFormation    EventKind = "COUNTRY_FORMATION"
	EventEconomicShift       EventKind = "ECONOMIC_SHIFT"
	EventCityFounded         EventKind = "CITY_FOUNDED"
	EventCityRenamed         EventKind = "CITY_RENAMED"
	EventCityDestroyed       EventKind = "CITY_DESTROYED"
	EventChatInvitation      EventKind = "CHAT_INVITATION"
	EventDeployUnit          EventKind = "DEPLOY_UNIT"
	EventManufactureComplete EventKind = "MANUFACTURE_COMPLETE"
	EventScrapUnit           EventKind = "SCRAP_UNIT"
	EventNarrative           EventKind = "NARRATIVE"
)

// EconomicEffect is a stat adjustment for one country, carried inline on
// any event kind. Effects on unknown countries are silently dropped.
type EconomicEffect struct {
	Country          string   `json:"country"`
	GDP              float64  `json:"gdp,omitempty"`
	Population       float64  `json:"population,omitempty"`
	Stability        float64  `json:"stability,omitempty"`
	MilitaryStrength float64  `json:"military_strength,omitempty"`
	NewResources     []string `json:"new_resources,omitempty"`
}

// CityChange carries the payload for the city event kinds.
type CityChange struct {
	Name          string       `json:"name"`
	NewName       string       `json:"new_name,omitempty"`
	TerritoryName string       `json:"territory_name,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
}

// ProposedUnit is an oracle-proposed unit shell for DEPLOY_UNIT events.
// The engine assigns the ID and default order; the oracle supplies the
// rest.
type ProposedUnit struct {
	Owner       string      `json:"owner"`
	Type        UnitType    `json:"type"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Leader      Leader      `json:"leader"`
	Composition []Division  `json:"composition,omitempty"`
	Strength    float64     `json:"strength"`
}

// ManufactureOrder raises a country's deployment ceiling for a branch
// and/or adds a named unit to its catalog.
type ManufactureOrder struct {
	Country       string   `json:"country"`
	Type          UnitType `json:"type"`
	MaxUnitsDelta int      `json:"max_units_delta,omitempty"`
	UnitName      string   `json:"unit_name,omitempty"`
}

// InvitationOffer is the payload of a CHAT_INVITATION event.
type InvitationOffer struct {
	Initiator    string   `json:"initiator"`
	Participants []string `json:"participants"`
	Topic        string   `json:"topic,omitempty"`
}

// WorldEvent is one entry in the oracle's yearly batch. It is a tagged
// union: Kind selects the variant and at most one of the payload pointers
// is set, except EconomicEffects, which any kind may carry. Events are
// immutable once issued; the engine only reads them.
type WorldEvent struct {
	Kind        EventKind `json:"kind"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Countries   []string  `json:"countries,omitempty"`

	// TerritoryNames scopes ANNEXATION, SECESSION and COUNTRY_FORMATION.
	// Empty on an ANNEXATION means full conquest of the target.
	TerritoryNames []string `json:"territory_names,omitempty"`

	EconomicEffects []EconomicEffect  `json:"economic_effects,omitempty"`
	City            *CityChange       `json:"city,omitempty"`
	Deploy          *ProposedUnit     `json:"deploy,omitempty"`
	Manufacture     *ManufactureOrder `json:"manufacture,omitempty"`
	ScrapUnitID     string            `json:"scrap_unit_id,omitempty"`
	Invitation      *InvitationOffer  `json:"invitation,omitempty"`
	NewCountryName  string            `json:"new_country_name,omitempty"`
}
