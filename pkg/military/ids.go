package military

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cdurham/hegemon/pkg/world"
)

// IDSource produces military unit identifiers. Injected into the manager
// so transitions stay deterministic and testable without wall-clock
// mocking.
type IDSource interface {
	NextUnitID(owner string, ut world.UnitType) string
}

// CounterIDSource issues owner-type-sequence ids from a monotonic counter.
// A sequence number is never reissued, so a unit id removed by scrap,
// split or merge can never reappear.
type CounterIDSource struct {
	mu  sync.Mutex
	seq uint64
}

// NewCounterIDSource returns a counter starting at 1.
func NewCounterIDSource() *CounterIDSource {
	return &CounterIDSource{}
}

func (c *CounterIDSource) NextUnitID(owner string, ut world.UnitType) string {
	c.mu.Lock()
	c.seq++
	n := c.seq
	c.mu.Unlock()
	return fmt.Sprintf("%s-%s-%d", slug(owner), slug(string(ut)), n)
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
