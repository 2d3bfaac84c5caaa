package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdurham/hegemon/pkg/military"
	"github.com/cdurham/hegemon/pkg/world"
)

func testOracle(client Client) *LLMOracle {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewLLMOracle(client, logger)
}

func oracleState(t *testing.T) *world.GameState {
	t.Helper()
	gs := world.NewGameState()
	gs.PlayerCountry = "India"
	gs.Countries["India"] = world.Country{Name: "India", GDP: 3700, Population: 1430, Stability: 65, MilitaryStrength: 70}
	gs.Countries["Pakistan"] = world.Country{Name: "Pakistan", GDP: 340, Population: 240, Stability: 40, MilitaryStrength: 35}
	require.NoError(t, gs.Normalize())
	return gs
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"bare object":    {`{"a":1}`, `{"a":1}`},
		"bare array":     {`[{"a":1}]`, `[{"a":1}]`},
		"fenced":         {"```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		"fence no lang":  {"```\n{\"a\":1}\n```", `{"a":1}`},
		"leading prose":  {"Here is the batch:\n[{\"a\":1}]", `[{"a":1}]`},
		"trailing prose": {"{\"a\":1}\nLet me know if you need more.", `{"a":1}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(extractJSON(tc.in)))
		})
	}
}

func TestGenerateEvents(t *testing.T) {
	client := &MockClient{Responses: []string{
		"```json\n" + `[
			{"kind":"WAR_DECLARED","description":"Border skirmishes escalate.","date":"2025-04-12","countries":["India","Pakistan"]},
			{"kind":"ECONOMIC_SHIFT","description":"Markets react badly.","date":"2025-04-20","economic_effects":[{"country":"India","gdp":-120,"stability":-5}]}
		]` + "\n```",
	}}
	o := testOracle(client)
	gs := oracleState(t)

	events, err := o.GenerateEvents(context.Background(), gs, "Mass troops on the western border")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, world.EventWarDeclared, events[0].Kind)
	assert.Equal(t, -120.0, events[1].EconomicEffects[0].GDP)

	require.Len(t, client.Calls, 1)
	require.Len(t, client.Calls[0], 2)
	assert.Equal(t, ChatRoleSystem, client.Calls[0][0].Role)
	assert.Contains(t, client.Calls[0][0].Content, `"player_country":"India"`)
	assert.Equal(t, "Mass troops on the western border", client.Calls[0][1].Content)
}

func TestGenerateEvents_MalformedBatch(t *testing.T) {
	client := &MockClient{Responses: []string{
		`[{"kind":"WAR_DECLARED"}]`, // missing description and date
	}}
	o := testOracle(client)

	_, err := o.GenerateEvents(context.Background(), oracleState(t), "anything")
	assert.Error(t, err)
}

func TestGenerateEvents_ClientError(t *testing.T) {
	client := &MockClient{Err: errors.New("connection refused")}
	o := testOracle(client)

	_, err := o.GenerateEvents(context.Background(), oracleState(t), "anything")
	assert.Error(t, err)
}

func TestSelectSpeaker(t *testing.T) {
	client := &MockClient{Responses: []string{
		`{"sender":"Pakistan","message":"We seek de-escalation.","next_speaker":"India"}`,
	}}
	o := testOracle(client)
	gs := oracleState(t)
	chat := world.DiplomaticChat{
		ID:           "c1",
		Participants: []string{"India", "Pakistan"},
		Messages:     []world.ChatMessage{{Sender: "India", Text: "Withdraw your artillery."}},
	}

	result, err := o.SelectSpeaker(context.Background(), gs, chat, false)
	require.NoError(t, err)
	assert.Equal(t, "Pakistan", result.Sender)
	assert.Equal(t, "India", result.NextSpeaker)

	// The transcript and roster reach the prompt.
	require.Len(t, client.Calls, 1)
	assert.Contains(t, client.Calls[0][0].Content, "India: Withdraw your artillery.")
}

func TestSelectSpeaker_NonParticipantRejected(t *testing.T) {
	client := &MockClient{Responses: []string{
		`{"sender":"Pakistan","message":"hm","next_speaker":"China"}`,
	}}
	o := testOracle(client)
	chat := world.DiplomaticChat{ID: "c1", Participants: []string{"India", "Pakistan"}}

	_, err := o.SelectSpeaker(context.Background(), oracleState(t), chat, false)
	assert.Error(t, err, "the oracle may not hand the floor to a bystander")
}

func TestResolveUnitOrder(t *testing.T) {
	client := &MockClient{Responses: []string{
		`{"action":"RELOCATE","order":"Redeploy to the Thar sector","narrative":"The division moves by rail.","destination":{"lat":27.0,"lng":71.0}}`,
	}}
	o := testOracle(client)
	gs := oracleState(t)
	unit := world.MilitaryUnit{ID: "india-army-1", Owner: "India", Type: world.UnitTypeArmy, Name: "Desert Corps"}

	outcome, err := o.ResolveUnitOrder(context.Background(), gs, unit, "move to the desert border")
	require.NoError(t, err)
	assert.Equal(t, military.ActionRelocate, outcome.Action)
	require.NotNil(t, outcome.Destination)
	assert.Equal(t, 27.0, outcome.Destination.Lat)
}

func TestResolveUnitOrder_FillsEmptyOrder(t *testing.T) {
	client := &MockClient{Responses: []string{
		`{"action":"GENERAL_ORDER","narrative":"Done."}`,
	}}
	o := testOracle(client)
	unit := world.MilitaryUnit{ID: "india-army-1", Owner: "India", Type: world.UnitTypeArmy}

	outcome, err := o.ResolveUnitOrder(context.Background(), oracleState(t), unit, "dig in")
	require.NoError(t, err)
	assert.Equal(t, "dig in", outcome.Order, "original text stands in for a missing restatement")
}
