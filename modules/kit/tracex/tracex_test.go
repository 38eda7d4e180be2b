package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	got, ok := TraceIDFrom(ctx)
	if !ok || got != "abc" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}

func TestTraceIDFrom_EmptyContext(t *testing.T) {
	if _, ok := TraceIDFrom(context.Background()); ok {
		t.Fatalf("expected no trace id on a bare context")
	}
}

func TestNewTraceID_Is32HexChars(t *testing.T) {
	id := NewTraceID()
	if len(id) != 32 {
		t.Fatalf("len=%d id=%q", len(id), id)
	}
	if id == NewTraceID() {
		t.Fatalf("two trace ids should not collide")
	}
}
