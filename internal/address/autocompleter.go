package address

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before a lookup runs.
const DefaultDebounce = 300 * time.Millisecond

// LookupFunc fetches suggestions for a query. It must honour ctx cancellation.
type LookupFunc func(ctx context.Context, query string) ([]Suggestion, error)

// LookupResult is delivered to the callback for the newest lookup only.
type LookupResult struct {
	Seq         uint64
	Query       string
	Suggestions []Suggestion
	Err         error
}

// Autocompleter debounces keystrokes into lookups. Each lookup gets a fresh
// sequence number and a context that is cancelled as soon as a newer lookup
// starts, so only the latest sequence ever reaches the callback.
type Autocompleter struct {
	parent   context.Context
	lookup   LookupFunc
	onResult func(LookupResult)
	debounce time.Duration

	seq atomic.Uint64

	mu       sync.Mutex
	timer    *time.Timer
	inflight context.CancelFunc
	closed   bool

	deliverMu sync.Mutex
}

// NewAutocompleter builds a session bound to parent. A non-positive debounce
// uses DefaultDebounce.
func NewAutocompleter(parent context.Context, lookup LookupFunc, debounce time.Duration, onResult func(LookupResult)) *Autocompleter {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Autocompleter{
		parent:   parent,
		lookup:   lookup,
		onResult: onResult,
		debounce: debounce,
	}
}

// Type registers a keystroke. Blank input cancels pending and in-flight work.
func (a *Autocompleter) Type(query string) {
	query = strings.TrimSpace(query)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if query == "" {
		a.seq.Add(1)
		a.cancelInflightLocked()
		return
	}
	a.timer = time.AfterFunc(a.debounce, func() { a.fire(query) })
}

// Close stops the session. Pending lookups are cancelled and no further
// results are delivered.
func (a *Autocompleter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.seq.Add(1)
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.cancelInflightLocked()
}

// Seq returns the most recently issued sequence number.
func (a *Autocompleter) Seq() uint64 {
	return a.seq.Load()
}

func (a *Autocompleter) fire(query string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	seq := a.seq.Add(1)
	a.cancelInflightLocked()
	ctx, cancel := context.WithCancel(a.parent)
	a.inflight = cancel
	a.mu.Unlock()

	suggestions, err := a.lookup(ctx, query)
	cancel()

	a.deliverMu.Lock()
	defer a.deliverMu.Unlock()
	if a.seq.Load() != seq {
		return
	}
	if a.onResult != nil {
		a.onResult(LookupResult{Seq: seq, Query: query, Suggestions: suggestions, Err: err})
	}
}

func (a *Autocompleter) cancelInflightLocked() {
	if a.inflight != nil {
		a.inflight()
		a.inflight = nil
	}
}
