package world

// SpeakerDeciding is the sentinel speaker meaning the turn-selector oracle
// is choosing who speaks next. It is not "no one": a chat in this state
// has a pending turn-advance.
const SpeakerDeciding = ""

// ChatMessage is a single message in a diplomatic chat.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// DiplomaticChat is a multi-party conversation between countries, managed
// as a turn-token state machine. A chat exists indefinitely once created.
//
// Epoch increments on every speaker change. A scheduled turn-advance
// carries the epoch it observed and declines to apply its result if the
// live epoch has moved on (an interrupt raced it).
type DiplomaticChat struct {
	ID             string        `json:"id"`
	Participants   []string      `json:"participants"`
	Messages       []ChatMessage `json:"messages,omitempty"`
	Topic          string        `json:"topic,omitempty"`
	CurrentSpeaker string        `json:"current_speaker,omitempty"`
	Epoch          int64         `json:"epoch,omitempty"`
}

// HasParticipant reports whether the named country is in the chat.
func (c *DiplomaticChat) HasParticipant(name string) bool {
	for _, p := range c.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// SetSpeaker changes the current speaker and advances the epoch,
// invalidating any in-flight turn-advance that observed the old epoch.
func (c *DiplomaticChat) SetSpeaker(speaker string) {
	c.CurrentSpeaker = speaker
	c.Epoch++
}

// ChatInvitation is a pending invitation to open a diplomatic chat. It is
// produced by CHAT_INVITATION events and held outside the chat map until
// the player accepts or declines.
type ChatInvitation struct {
	ID           string   `json:"id"`
	Initiator    string   `json:"initiator"`
	Participants []string `json:"participants"`
	Topic        string   `json:"topic,omitempty"`
	Year         int      `json:"year"`
}
