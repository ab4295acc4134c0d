package presence

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const DefaultInactivityWindow = 90 * time.Second

// Tracker keeps the set of viewers currently watching each auction. Entries
// live only in this process: under horizontal scaling each instance reports its
// own approximation, which is the documented behavior, not a bug.
type Tracker struct {
	InactivityWindow time.Duration
	Logger           *zap.Logger
	Clock            clockwork.Clock

	mu       sync.RWMutex
	auctions map[string]*viewerSet
}

// viewerSet carries its own lock so traffic on one auction never blocks
// another.
type viewerSet struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

func NewTracker(window time.Duration, logger *zap.Logger) *Tracker {
	if window <= 0 {
		window = DefaultInactivityWindow
	}
	return &Tracker{
		InactivityWindow: window,
		Logger:           logger,
		auctions:         map[string]*viewerSet{},
	}
}

func (t *Tracker) now() time.Time {
	if t.Clock != nil {
		return t.Clock.Now()
	}
	return time.Now()
}

func (t *Tracker) set(auctionID string, create bool) *viewerSet {
	t.mu.RLock()
	vs := t.auctions[auctionID]
	t.mu.RUnlock()
	if vs != nil || !create {
		return vs
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if vs = t.auctions[auctionID]; vs == nil {
		vs = &viewerSet{lastSeen: map[string]time.Time{}}
		t.auctions[auctionID] = vs
	}
	return vs
}

// Add upserts the viewer and refreshes lastSeen. Re-registration never
// duplicates: one entry per (auction, viewer) pair.
func (t *Tracker) Add(auctionID, viewerID string) {
	if auctionID == "" || viewerID == "" {
		return
	}
	vs := t.set(auctionID, true)
	vs.mu.Lock()
	vs.lastSeen[viewerID] = t.now()
	vs.mu.Unlock()
}

// Remove deletes the entry if present; removing an unknown viewer is a no-op.
func (t *Tracker) Remove(auctionID, viewerID string) {
	vs := t.set(auctionID, false)
	if vs == nil {
		return
	}
	vs.mu.Lock()
	delete(vs.lastSeen, viewerID)
	vs.mu.Unlock()
}

// Count returns viewers seen within the inactivity window. Entries past the
// window do not count even before the sweep removes them.
func (t *Tracker) Count(auctionID string) int {
	vs := t.set(auctionID, false)
	if vs == nil {
		return 0
	}
	cutoff := t.now().Add(-t.InactivityWindow)
	vs.mu.Lock()
	defer vs.mu.Unlock()
	n := 0
	for _, seen := range vs.lastSeen {
		if seen.After(cutoff) {
			n++
		}
	}
	return n
}

// Sweep drops entries older than the inactivity window across all auctions,
// bounding memory growth from clients that disconnected without a clean
// signal. Scheduled on the cron runner.
func (t *Tracker) Sweep() int {
	cutoff := t.now().Add(-t.InactivityWindow)

	t.mu.RLock()
	sets := make(map[string]*viewerSet, len(t.auctions))
	for id, vs := range t.auctions {
		sets[id] = vs
	}
	t.mu.RUnlock()

	removed := 0
	empty := make([]string, 0)
	for id, vs := range sets {
		vs.mu.Lock()
		for viewer, seen := range vs.lastSeen {
			if !seen.After(cutoff) {
				delete(vs.lastSeen, viewer)
				removed++
			}
		}
		if len(vs.lastSeen) == 0 {
			empty = append(empty, id)
		}
		vs.mu.Unlock()
	}

	if len(empty) > 0 {
		t.mu.Lock()
		for _, id := range empty {
			vs := t.auctions[id]
			if vs == nil {
				continue
			}
			vs.mu.Lock()
			if len(vs.lastSeen) == 0 {
				delete(t.auctions, id)
			}
			vs.mu.Unlock()
		}
		t.mu.Unlock()
	}

	if removed > 0 && t.Logger != nil {
		t.Logger.Debug("presence sweep removed stale viewers", zap.Int("count", removed))
	}
	return removed
}
