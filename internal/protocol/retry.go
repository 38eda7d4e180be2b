package protocol

import (
	"sync"
	"time"
)

const (
	defaultMaxAttempts   = 3
	defaultRetryInterval = 3 * time.Second
	defaultCheckEvery    = time.Second
)

type pendingMessage struct {
	msg         Message
	attempts    int
	maxAttempts int
	lastAttempt time.Time
	needsResend bool
	onSuccess   func(msg Message)
	onFailure   func(msg Message)
}

// RetryHandler provides at-least-once bookkeeping for outgoing envelopes.
// It does not resend by itself: a qualifying scan increments the attempt
// counter and flags the message; the transport polls PendingRetries and
// performs the actual write. Acknowledging removes the entry immediately.
type RetryHandler struct {
	mu            sync.Mutex
	pending       map[string]*pendingMessage
	retryInterval time.Duration
	checkEvery    time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRetryHandler(retryInterval, checkEvery time.Duration) *RetryHandler {
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	if checkEvery <= 0 {
		checkEvery = defaultCheckEvery
	}
	return &RetryHandler{
		pending:       make(map[string]*pendingMessage),
		retryInterval: retryInterval,
		checkEvery:    checkEvery,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Register tracks a sent message. maxAttempts <= 0 uses the default of 3.
func (h *RetryHandler) Register(msg Message, maxAttempts int, onSuccess, onFailure func(Message)) {
	if msg.MessageID == "" {
		return
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[msg.MessageID] = &pendingMessage{
		msg:         msg,
		attempts:    1,
		maxAttempts: maxAttempts,
		lastAttempt: time.Now(),
		onSuccess:   onSuccess,
		onFailure:   onFailure,
	}
}

// Ack resolves a message by id, firing its success callback and dropping
// it regardless of remaining attempts.
func (h *RetryHandler) Ack(messageID string) bool {
	h.mu.Lock()
	entry, ok := h.pending[messageID]
	if ok {
		delete(h.pending, messageID)
	}
	h.mu.Unlock()

	if !ok {
		return false
	}
	if entry.onSuccess != nil {
		entry.onSuccess(entry.msg)
	}
	return true
}

// PendingRetries drains the messages flagged for re-transmission since the
// last poll.
func (h *RetryHandler) PendingRetries() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []Message
	for _, entry := range h.pending {
		if entry.needsResend {
			entry.needsResend = false
			out = append(out, entry.msg)
		}
	}
	return out
}

// Start runs the periodic scan until Stop is called.
func (h *RetryHandler) Start() {
	go func() {
		defer close(h.done)
		ticker := time.NewTicker(h.checkEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.sweep(time.Now())
			case <-h.stop:
				return
			}
		}
	}()
}

// Stop cancels the scan loop and fails every still-pending message so no
// caller is left waiting on a callback.
func (h *RetryHandler) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
	<-h.done

	h.mu.Lock()
	remaining := make([]*pendingMessage, 0, len(h.pending))
	for id, entry := range h.pending {
		remaining = append(remaining, entry)
		delete(h.pending, id)
	}
	h.mu.Unlock()

	for _, entry := range remaining {
		if entry.onFailure != nil {
			entry.onFailure(entry.msg)
		}
	}
}

// sweep runs one retry scan: messages past the retry interval either burn
// an attempt and get flagged for resend, or fail out once attempts are
// exhausted.
func (h *RetryHandler) sweep(now time.Time) {
	var failed []*pendingMessage

	h.mu.Lock()
	for id, entry := range h.pending {
		if now.Sub(entry.lastAttempt) < h.retryInterval {
			continue
		}
		if entry.attempts < entry.maxAttempts {
			entry.attempts++
			entry.lastAttempt = now
			entry.needsResend = true
			continue
		}
		delete(h.pending, id)
		failed = append(failed, entry)
	}
	h.mu.Unlock()

	for _, entry := range failed {
		if entry.onFailure != nil {
			entry.onFailure(entry.msg)
		}
	}
}

// PendingCount reports how many messages are still tracked.
func (h *RetryHandler) PendingCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}
