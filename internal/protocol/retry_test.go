package protocol

import (
	"testing"
	"time"
)

func newTestHandler() *RetryHandler {
	return NewRetryHandler(3*time.Second, time.Second)
}

func TestRetryHandler_FailureAfterExhaustedAttempts(t *testing.T) {
	h := newTestHandler()
	msg := NewMessage(TypePlayerAction, nil)

	var failed, succeeded bool
	h.Register(msg, 3, func(Message) { succeeded = true }, func(Message) { failed = true })

	now := time.Now()
	// Sweeps 1 and 2 burn attempts 2 and 3; sweep 3 exhausts the message.
	h.sweep(now.Add(4 * time.Second))
	h.sweep(now.Add(8 * time.Second))
	if failed {
		t.Fatalf("failure fired before attempts were exhausted")
	}
	h.sweep(now.Add(12 * time.Second))

	if !failed {
		t.Fatalf("failure callback should fire after the 3rd failed check")
	}
	if succeeded {
		t.Fatalf("success callback must not fire for a failed message")
	}
	if h.PendingCount() != 0 {
		t.Fatalf("failed message should be removed, pending=%d", h.PendingCount())
	}
}

func TestRetryHandler_SweepFlagsForResend(t *testing.T) {
	h := newTestHandler()
	msg := NewMessage(TypeAttackResult, nil)
	h.Register(msg, 3, nil, nil)

	if got := h.PendingRetries(); len(got) != 0 {
		t.Fatalf("nothing should need resend before the interval: %v", got)
	}

	h.sweep(time.Now().Add(4 * time.Second))
	got := h.PendingRetries()
	if len(got) != 1 || got[0].MessageID != msg.MessageID {
		t.Fatalf("expected one pending retry, got=%v", got)
	}
	// Draining clears the flag until the next qualifying sweep.
	if again := h.PendingRetries(); len(again) != 0 {
		t.Fatalf("resend flag should clear after polling: %v", again)
	}
}

func TestRetryHandler_AckFiresSuccessAndRemoves(t *testing.T) {
	h := newTestHandler()
	msg := NewMessage(TypePlayerAction, nil)

	var failed, succeeded bool
	h.Register(msg, 3, func(Message) { succeeded = true }, func(Message) { failed = true })

	if !h.Ack(msg.MessageID) {
		t.Fatalf("ack should find the registered message")
	}
	if !succeeded {
		t.Fatalf("ack must fire the success callback")
	}

	// Later sweeps must not fail an acknowledged message.
	now := time.Now()
	for i := 1; i <= 5; i++ {
		h.sweep(now.Add(time.Duration(i) * 4 * time.Second))
	}
	if failed {
		t.Fatalf("acknowledged message fired its failure callback")
	}
}

func TestRetryHandler_StopFailsRemaining(t *testing.T) {
	h := newTestHandler()
	h.Start()

	var failed bool
	h.Register(NewMessage(TypePing, nil), 3, nil, func(Message) { failed = true })
	h.Stop()

	if !failed {
		t.Fatalf("stop should fail out still-pending messages")
	}
}
