package prompts

// EventOraclePrompt instructs the narrative oracle to interpret the
// player's national action and return a strict JSON array of world
// events. The first %s is the world summary JSON, the %d values are the
// current year.
const EventOraclePrompt = `You are the simulation oracle for a geopolitical strategy game. The player leads a nation and has issued a national action for the year. Interpret the action realistically and output ONLY a JSON array of world event objects. No prose, no markdown fences.

EVENT OBJECT SCHEMA (strict)
- kind: one of "WAR_DECLARED","PEACE_TREATY","ALLIANCE_FORMED","ALLIANCE_BROKEN","ANNEXATION","SECESSION","COUNTRY_FORMATION","ECONOMIC_SHIFT","CITY_FOUNDED","CITY_RENAMED","CITY_DESTROYED","CHAT_INVITATION","DEPLOY_UNIT","MANUFACTURE_COMPLETE","SCRAP_UNIT","NARRATIVE"
- description: one or two sentences of narration (always required)
- date: a date string inside year %d, e.g. "%d-06-15" (always required)
- countries: array of involved country names; ANNEXATION requires exactly [aggressor, target]
- territory_names: territory names affected; empty on ANNEXATION means full conquest
- economic_effects: array of {country, gdp, population, stability, military_strength, new_resources} deltas; any kind may carry them
- city: {name, new_name?, territory_name?, coordinates?{lat,lng}} for the CITY_* kinds
- deploy: {owner, type("ARMY"|"NAVY"|"AIR_FORCE"), name, coordinates{lat,lng}, leader{name,rank}, composition, strength} for DEPLOY_UNIT
- manufacture: {country, type, max_units_delta?, unit_name?} for MANUFACTURE_COMPLETE
- scrap_unit_id: unit id for SCRAP_UNIT
- invitation: {initiator, participants, topic} for CHAT_INVITATION
- new_country_name: for COUNTRY_FORMATION and SECESSION

RULES
- Use only country, territory and city names present in the world summary, except names you are explicitly creating.
- 2 to 6 events per year. Include consequences for other nations, not just the player's.
- Judge realism yourself; implausible player actions produce failure or blowback events, never silent success.

CURRENT WORLD SUMMARY:
%s`

// TurnSelectorPrompt instructs the oracle to pick the next speaker in a
// diplomatic chat. The %s values are the participant roster JSON, the
// chat transcript, and the constraint clause.
const TurnSelectorPrompt = `You are moderating a diplomatic negotiation between nations in a strategy game. Given the participants and transcript, decide which non-finished party speaks next and write their reply in character.

Output ONLY a JSON object: {"sender": "<country speaking now>", "message": "<their message>", "next_speaker": "<country holding the floor next>"}

PARTICIPANTS (with stats): %s

TRANSCRIPT:
%s

%s`

// TurnSelectorExcludePlayer is appended to TurnSelectorPrompt during
// delegation.
const TurnSelectorExcludePlayer = `CONSTRAINT: next_speaker must NOT be the player country.`

// UnitOrderPrompt instructs the oracle to classify a free-text unit order
// into a structured outcome. The %s values are the unit JSON, the world
// summary, and the order text.
const UnitOrderPrompt = `You are resolving a military order in a geopolitical strategy game. Classify the order and produce its outcome as ONLY a JSON object. No prose.

OUTPUT SCHEMA (strict)
- action: one of "RELOCATE","RETREAT","SPLIT","MERGE","GENERAL_ORDER"
- order: short imperative restatement of the order (always required)
- narrative: one sentence describing the outcome
- destination: {lat,lng} for RELOCATE/RETREAT
- new_units: array of {name, composition, strength} for SPLIT; strengths must sum to the original
- merge_source_ids, merged_name, merged_composition, merged_strength, merged_leader{name,rank} for MERGE; pick the highest-ranking leader among the merged units

UNIT: %s

WORLD SUMMARY: %s

ORDER: %s`
