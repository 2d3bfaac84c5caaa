package world

// UnitType is the branch of a military unit.
type UnitType string

const (
	UnitTypeArmy     UnitType = "ARMY"
	UnitTypeNavy     UnitType = "NAVY"
	UnitTypeAirForce UnitType = "AIR_FORCE"
)

// UnitTypes lists every branch, in the order arsenals are initialized.
var UnitTypes = []UnitType{UnitTypeArmy, UnitTypeNavy, UnitTypeAirForce}

// Leader is the commanding officer of a military unit.
type Leader struct {
	Name string `json:"name"`
	Rank string `json:"rank"`
}

// Division is one component of a unit's composition.
type Division struct {
	Name      string   `json:"name"`
	Equipment []string `json:"equipment,omitempty"`
}

// OrderEntry is one line of a unit's orders log, newest first.
type OrderEntry struct {
	Year    int    `json:"year"`
	Order   string `json:"order"`
	Outcome string `json:"outcome,omitempty"`
}

// OrdersLogLimit bounds a unit's orders log; the oldest entries are
// silently dropped.
const OrdersLogLimit = 10

// DefaultUnitOrder is the standing order assigned to freshly deployed
// units, and the fallback for units loaded from saves that predate orders.
const DefaultUnitOrder = "Hold position and await orders"

// MilitaryUnit is a deployed formation owned by exactly one country.
// Units are created by deployment and destroyed by scrapping, or consumed
// by split and merge orders. A unit ID, once removed, never reappears.
type MilitaryUnit struct {
	ID           string       `json:"id"`
	Owner        string       `json:"owner"`
	Type         UnitType     `json:"type"`
	Name         string       `json:"name"`
	Coordinates  Coordinates  `json:"coordinates"`
	Leader       Leader       `json:"leader"`
	Composition  []Division   `json:"composition,omitempty"`
	Strength     float64      `json:"strength"`
	CurrentOrder string       `json:"current_order,omitempty"`
	OrdersLog    []OrderEntry `json:"orders_log,omitempty"`
}

// PushOrder prepends an entry to the unit's orders log, keeping the log
// bounded to OrdersLogLimit entries.
func (u *MilitaryUnit) PushOrder(entry OrderEntry) {
	u.OrdersLog = append([]OrderEntry{entry}, u.OrdersLog...)
	if len(u.OrdersLog) > OrdersLogLimit {
		u.OrdersLog = u.OrdersLog[:OrdersLogLimit]
	}
}

// DefaultMaxUnits is the deployment ceiling per country and branch before
// any MANUFACTURE_COMPLETE events raise it.
const DefaultMaxUnits = 3

// ArsenalSlot is a country's manufacturing state for one branch: a hard
// deployment ceiling and a catalog of named units available to deploy.
type ArsenalSlot struct {
	MaxUnits  int      `json:"max_units"`
	UnitNames []string `json:"unit_names,omitempty"`
}

// CountryArsenal maps branch to arsenal slot for one country.
type CountryArsenal map[UnitType]*ArsenalSlot

// NewCountryArsenal returns a zero-initialized arsenal with all branches
// present and the default ceiling.
func NewCountryArsenal() CountryArsenal {
	ca := make(CountryArsenal, len(UnitTypes))
	for _, ut := range UnitTypes {
		ca[ut] = &ArsenalSlot{MaxUnits: DefaultMaxUnits}
	}
	return ca
}
