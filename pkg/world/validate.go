package world

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed events_schema.json
var eventsSchemaJSON string

var eventsSchema = jsonschema.MustCompileString("events_schema.json", eventsSchemaJSON)

// DecodeEventBatch validates raw oracle output against the event batch
// schema and decodes it into the tagged union. The oracle is untrusted:
// a batch that fails the schema is rejected whole, so a single malformed
// response never half-applies.
func DecodeEventBatch(raw []byte) ([]WorldEvent, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("event batch is not valid JSON: %w", err)
	}
	if err := eventsSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("event batch failed schema validation: %w", err)
	}
	var events []WorldEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event batch: %w", err)
	}
	return events, nil
}
