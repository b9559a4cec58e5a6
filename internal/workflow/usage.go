package workflow

import (
	"sync"

	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// Usage accumulates token counts across the concurrent calls of one run.
type Usage struct {
	mu     sync.Mutex
	totals llm.Usage
}

// Reset zeroes the counters.
func (u *Usage) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totals = llm.Usage{}
}

// Add records the usage of one successful model call.
func (u *Usage) Add(delta llm.Usage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totals = u.totals.Add(delta)
}

// Snapshot returns the current totals.
func (u *Usage) Snapshot() llm.Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totals
}
