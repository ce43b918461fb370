package quota

import (
	"context"
	"sync"
	"time"

	"github.com/hal/ghfolio/internal/log"
)

// DefaultPollInterval is how often the monitor refreshes when the
// caller does not override it.
const DefaultPollInterval = 90 * time.Second

// Monitor polls the rate-limit endpoint on a fixed interval and caches
// the latest status. Polling stops when the context given to Run is
// cancelled; a failed poll degrades the cached status to unknown rather
// than keeping stale numbers.
type Monitor struct {
	fetcher  Fetcher
	interval time.Duration

	mu     sync.RWMutex
	status Status
}

// NewMonitor creates a monitor over the given fetcher. A non-positive
// interval falls back to the default.
func NewMonitor(f Fetcher, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{fetcher: f, interval: interval}
}

// Status returns the most recently cached quota view. Known is false
// until the first successful poll.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Run polls immediately, then on every interval tick until ctx is
// cancelled. It blocks; callers run it in a goroutine.
func (m *Monitor) Run(ctx context.Context) {
	m.poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	status, err := Fetch(ctx, m.fetcher)
	if err != nil {
		log.Debug("quota poll failed", "error", err)
		m.mu.Lock()
		m.status = Status{Source: m.fetcher.CredentialSource()}
		m.mu.Unlock()
		return
	}

	log.Trace("quota refreshed",
		"core", status.Core.Remaining,
		"search", status.Search.Remaining,
		"graphql", status.GraphQL.Remaining)

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
