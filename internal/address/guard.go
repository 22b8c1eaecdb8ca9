package address

import (
	"sync"
	"time"
)

const (
	defaultGuardIdle  = 10 * time.Minute
	guardPruneTrigger = 1024
)

// SequenceGuard tracks the latest lookup sequence issued per autocomplete
// session so responses computed for superseded keystrokes can be discarded.
type SequenceGuard struct {
	mu       sync.Mutex
	sessions map[string]guardEntry
	idle     time.Duration
	now      func() time.Time
}

type guardEntry struct {
	seq     uint64
	touched time.Time
}

// NewSequenceGuard returns a guard that forgets sessions idle for longer than
// idle. A non-positive idle uses ten minutes.
func NewSequenceGuard(idle time.Duration) *SequenceGuard {
	if idle <= 0 {
		idle = defaultGuardIdle
	}
	return &SequenceGuard{
		sessions: make(map[string]guardEntry),
		idle:     idle,
		now:      time.Now,
	}
}

// Observe records seq for session and reports whether it is now the latest.
// Sequences lower than one already seen never move the session backwards.
func (g *SequenceGuard) Observe(session string, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if len(g.sessions) >= guardPruneTrigger {
		g.pruneLocked(now)
	}
	entry, ok := g.sessions[session]
	if ok && entry.seq > seq {
		entry.touched = now
		g.sessions[session] = entry
		return false
	}
	g.sessions[session] = guardEntry{seq: seq, touched: now}
	return true
}

// IsLatest reports whether seq is still the newest sequence for session.
// Unknown sessions accept any sequence.
func (g *SequenceGuard) IsLatest(session string, seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.sessions[session]
	if !ok {
		return true
	}
	return entry.seq == seq
}

func (g *SequenceGuard) pruneLocked(now time.Time) {
	for session, entry := range g.sessions {
		if now.Sub(entry.touched) > g.idle {
			delete(g.sessions, session)
		}
	}
}

func (g *SequenceGuard) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
