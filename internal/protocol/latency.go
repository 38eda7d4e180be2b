package protocol

import (
	"sync"
	"time"
)

const latencyHistorySize = 10

// LatencyTracker correlates PING/PONG pairs and keeps a bounded rolling
// round-trip history per connection.
type LatencyTracker struct {
	mu        sync.Mutex
	pending   map[string]time.Time
	callbacks map[string]func(rtt time.Duration)
	history   []time.Duration
}

func NewLatencyTracker() *LatencyTracker {
	return &LatencyTracker{
		pending:   make(map[string]time.Time),
		callbacks: make(map[string]func(rtt time.Duration)),
	}
}

// RecordPing registers an outgoing ping id.
func (t *LatencyTracker) RecordPing(pingID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[pingID] = time.Now()
}

// OnPong registers a one-shot callback fired when the matching pong
// arrives.
func (t *LatencyTracker) OnPong(pingID string, cb func(rtt time.Duration)) {
	if cb == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callbacks[pingID] = cb
}

// RecordPong resolves a pong against its ping: computes the round trip,
// appends it to the rolling history (oldest evicted beyond 10 samples)
// and fires the one-shot callback. Unknown ids are ignored.
func (t *LatencyTracker) RecordPong(pingID string) (time.Duration, bool) {
	t.mu.Lock()
	sent, ok := t.pending[pingID]
	if !ok {
		t.mu.Unlock()
		return 0, false
	}
	delete(t.pending, pingID)

	rtt := time.Since(sent)
	t.history = append(t.history, rtt)
	if len(t.history) > latencyHistorySize {
		t.history = t.history[len(t.history)-latencyHistorySize:]
	}

	cb := t.callbacks[pingID]
	delete(t.callbacks, pingID)
	t.mu.Unlock()

	if cb != nil {
		cb(rtt)
	}
	return rtt, true
}

// Average returns the rolling mean round trip; zero with no samples.
func (t *LatencyTracker) Average() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return 0
	}
	var total time.Duration
	for _, rtt := range t.history {
		total += rtt
	}
	return total / time.Duration(len(t.history))
}

// Samples returns a copy of the current history, oldest first.
func (t *LatencyTracker) Samples() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]time.Duration, len(t.history))
	copy(out, t.history)
	return out
}
