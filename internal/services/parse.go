package services

import (
	"fmt"
	"strings"

	"github.com/cdurham/hegemon/pkg/world"
)

// extractJSON strips markdown fences and surrounding prose from an LLM
// response, returning the first JSON value (object or array) it finds.
// Models sometimes wrap output in fences despite instructions not to.
func extractJSON(content string) []byte {
	s := strings.TrimSpace(content)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	objStart := strings.IndexAny(s, "{[")
	if objStart < 0 {
		return []byte(s)
	}

	closing := byte('}')
	if s[objStart] == '[' {
		closing = ']'
	}
	if end := strings.LastIndexByte(s, closing); end > objStart {
		s = s[objStart : end+1]
	}
	return []byte(s)
}

// FallbackEvent is the synthetic NARRATIVE event used when the oracle
// fails or returns garbage, so the engine's one-batch-per-year contract
// is never violated.
func FallbackEvent(year int) world.WorldEvent {
	return world.WorldEvent{
		Kind:        world.EventNarrative,
		Description: "The year passes without reliable reports; chancelleries trade rumors while the simulation recovers from a disruption.",
		Date:        fmt.Sprintf("%d-12-31", year),
	}
}
