package address

import (
	"fmt"
	"testing"
	"time"
)

func TestSequenceGuardKeepsLatest(t *testing.T) {
	g := NewSequenceGuard(time.Minute)

	if !g.IsLatest("a", 7) {
		t.Fatal("unknown session should accept any sequence")
	}
	if !g.Observe("a", 1) || !g.Observe("a", 2) {
		t.Fatal("increasing sequences should be latest")
	}
	if g.IsLatest("a", 1) {
		t.Fatal("sequence 1 was superseded")
	}
	if !g.IsLatest("a", 2) {
		t.Fatal("sequence 2 should be latest")
	}
	if g.Observe("a", 1) {
		t.Fatal("older sequence must not move the session backwards")
	}
	if !g.IsLatest("a", 2) {
		t.Fatal("latest sequence changed after stale observe")
	}
	if !g.Observe("b", 1) {
		t.Fatal("sessions are independent")
	}
}

func TestSequenceGuardPrunesIdleSessions(t *testing.T) {
	g := NewSequenceGuard(time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	for i := 0; i < guardPruneTrigger; i++ {
		g.Observe(fmt.Sprintf("s-%d", i), 1)
	}
	now = now.Add(2 * time.Minute)
	g.Observe("fresh", 1)

	if got := g.len(); got != 1 {
		t.Fatalf("expected idle sessions pruned, got %d", got)
	}
}
