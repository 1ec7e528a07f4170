package ledger

import (
	"sync"
	"time"
)

// IDGenerator hands out clock-derived ids (unix milliseconds). Two calls in
// the same millisecond, or a clock that steps backwards, still produce
// strictly increasing values.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns an id greater than every id returned before and greater
// than floor. Pass the largest id already stored as floor so ids written
// by another process are never reused.
func (g *IDGenerator) Next(floor int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	if id <= floor {
		id = floor + 1
	}
	g.last = id
	return id
}
