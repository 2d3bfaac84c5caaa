package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cdurham/hegemon/pkg/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <save.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &SaveValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Save file is valid!")
}

type SaveValidator struct {
	errors []string
}

func (v *SaveValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var gs world.GameState
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&gs); err != nil {
		return fmt.Errorf("file %s failed JSON unmarshaling: %w", filename, err)
	}

	if err := gs.Normalize(); err != nil {
		return fmt.Errorf("file %s failed shape checks: %w", filename, err)
	}

	v.validateGameState(&gs)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *SaveValidator) validateGameState(gs *world.GameState) {
	if gs.Year < world.EpochYear {
		v.addError(fmt.Sprintf("year %d predates the simulation epoch %d", gs.Year, world.EpochYear))
	}
	if gs.PlayerCountry != "" {
		if _, ok := gs.Countries[gs.PlayerCountry]; !ok {
			v.addError(fmt.Sprintf("player country '%s' does not exist", gs.PlayerCountry))
		}
	}

	for name, c := range gs.Countries {
		v.validateCountry(name, c)
	}
	for id, t := range gs.Territories {
		v.validateTerritory(id, t, gs)
	}
	for _, city := range gs.Cities {
		v.validateCity(city, gs)
	}
	for id, unit := range gs.MilitaryUnits {
		v.validateUnit(id, unit, gs)
	}
	for id, chat := range gs.Chats {
		v.validateChat(id, chat)
	}
	v.validateArsenal(gs)
}

func (v *SaveValidator) validateCountry(name string, c world.Country) {
	if c.Name != name {
		v.addError(fmt.Sprintf("country key '%s' does not match name '%s'", name, c.Name))
	}
	if c.GDP < world.MinGDP {
		v.addError(fmt.Sprintf("country '%s' GDP %.2f is below the floor", name, c.GDP))
	}
	if c.Population < world.MinPopulation {
		v.addError(fmt.Sprintf("country '%s' population %.2f is below the floor", name, c.Population))
	}
	if c.Stability < world.MinStability || c.Stability > world.MaxStability {
		v.addError(fmt.Sprintf("country '%s' stability %.2f is out of range", name, c.Stability))
	}
	if c.MilitaryStrength < 0 {
		v.addError(fmt.Sprintf("country '%s' military strength %.2f is negative", name, c.MilitaryStrength))
	}
}

func (v *SaveValidator) validateTerritory(id string, t world.Territory, gs *world.GameState) {
	if t.ID != id {
		v.addError(fmt.Sprintf("territory key '%s' does not match id '%s'", id, t.ID))
	}
	if t.Owner != world.UnclaimedOwner {
		if _, ok := gs.Countries[t.Owner]; !ok {
			v.addError(fmt.Sprintf("territory '%s' owned by unknown country '%s'", id, t.Owner))
		}
	}
}

func (v *SaveValidator) validateCity(city world.City, gs *world.GameState) {
	if _, ok := gs.Territories[city.TerritoryID]; !ok {
		v.addError(fmt.Sprintf("city '%s' references unknown territory '%s'", city.Name, city.TerritoryID))
	}
	if want := world.CityID(city.Name, city.TerritoryID); city.ID != want {
		v.addError(fmt.Sprintf("city '%s' has id '%s', expected '%s'", city.Name, city.ID, want))
	}
}

func (v *SaveValidator) validateUnit(id string, unit world.MilitaryUnit, gs *world.GameState) {
	if unit.ID != id {
		v.addError(fmt.Sprintf("unit key '%s' does not match id '%s'", id, unit.ID))
	}
	if _, ok := gs.Countries[unit.Owner]; !ok {
		v.addError(fmt.Sprintf("unit '%s' owned by unknown country '%s'", id, unit.Owner))
	}
	valid := false
	for _, ut := range world.UnitTypes {
		if unit.Type == ut {
			valid = true
			break
		}
	}
	if !valid {
		v.addError(fmt.Sprintf("unit '%s' has unknown type '%s'", id, unit.Type))
	}
	if len(unit.OrdersLog) > world.OrdersLogLimit {
		v.addError(fmt.Sprintf("unit '%s' orders log exceeds %d entries", id, world.OrdersLogLimit))
	}
}

func (v *SaveValidator) validateChat(id string, chat world.DiplomaticChat) {
	if chat.ID != id {
		v.addError(fmt.Sprintf("chat key '%s' does not match id '%s'", id, chat.ID))
	}
	if len(chat.Participants) < 2 {
		v.addError(fmt.Sprintf("chat '%s' has fewer than two participants", id))
	}
	if chat.CurrentSpeaker != world.SpeakerDeciding && !chat.HasParticipant(chat.CurrentSpeaker) {
		v.addError(fmt.Sprintf("chat '%s' current speaker '%s' is not a participant", id, chat.CurrentSpeaker))
	}
	for _, msg := range chat.Messages {
		if !chat.HasParticipant(msg.Sender) {
			v.addError(fmt.Sprintf("chat '%s' has a message from non-participant '%s'", id, msg.Sender))
		}
	}
}

func (v *SaveValidator) validateArsenal(gs *world.GameState) {
	for country, arsenal := range gs.Arsenal {
		if _, ok := gs.Countries[country]; !ok {
			v.addError(fmt.Sprintf("arsenal entry for unknown country '%s'", country))
			continue
		}
		for ut, slot := range arsenal {
			if slot == nil {
				v.addError(fmt.Sprintf("country '%s' has a nil arsenal slot for %s", country, ut))
				continue
			}
			deployed := gs.DeployedCount(country, ut)
			if deployed > slot.MaxUnits {
				v.addError(fmt.Sprintf("country '%s' has %d deployed %s units over the ceiling of %d", country, deployed, ut, slot.MaxUnits))
			}
		}
	}
}

func (v *SaveValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}
