package presence

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTracker_AddDeduplicates(t *testing.T) {
	clk := clockwork.NewFakeClock()
	tr := NewTracker(90*time.Second, nil)
	tr.Clock = clk

	tr.Add("a1", "v1")
	tr.Add("a1", "v1")
	tr.Add("a1", "v1")
	if n := tr.Count("a1"); n != 1 {
		t.Fatalf("count=%d want=1", n)
	}

	tr.Add("a1", "v2")
	if n := tr.Count("a1"); n != 2 {
		t.Fatalf("count=%d want=2", n)
	}
}

func TestTracker_RemoveUnknownIsNoop(t *testing.T) {
	clk := clockwork.NewFakeClock()
	tr := NewTracker(90*time.Second, nil)
	tr.Clock = clk

	tr.Remove("a1", "ghost")
	if n := tr.Count("a1"); n != 0 {
		t.Fatalf("count=%d want=0", n)
	}

	tr.Add("a1", "v1")
	tr.Remove("a1", "ghost")
	if n := tr.Count("a1"); n != 1 {
		t.Fatalf("count=%d want=1", n)
	}
	tr.Remove("a1", "v1")
	if n := tr.Count("a1"); n != 0 {
		t.Fatalf("count=%d want=0", n)
	}
}

func TestTracker_CountExcludesStale(t *testing.T) {
	clk := clockwork.NewFakeClock()
	tr := NewTracker(90*time.Second, nil)
	tr.Clock = clk

	tr.Add("a1", "v1")
	clk.Advance(60 * time.Second)
	tr.Add("a1", "v2")
	clk.Advance(45 * time.Second)

	// v1 is 105s old, v2 is 45s old.
	if n := tr.Count("a1"); n != 1 {
		t.Fatalf("count=%d want=1", n)
	}

	// A re-registration refreshes v1.
	tr.Add("a1", "v1")
	if n := tr.Count("a1"); n != 2 {
		t.Fatalf("count=%d want=2", n)
	}
}

func TestTracker_Sweep(t *testing.T) {
	clk := clockwork.NewFakeClock()
	tr := NewTracker(90*time.Second, nil)
	tr.Clock = clk

	tr.Add("a1", "v1")
	tr.Add("a1", "v2")
	tr.Add("a2", "v3")
	clk.Advance(120 * time.Second)
	tr.Add("a1", "v2")

	removed := tr.Sweep()
	if removed != 2 {
		t.Fatalf("removed=%d want=2", removed)
	}
	if n := tr.Count("a1"); n != 1 {
		t.Fatalf("a1 count=%d want=1", n)
	}
	if n := tr.Count("a2"); n != 0 {
		t.Fatalf("a2 count=%d want=0", n)
	}

	// Second sweep finds nothing new.
	if removed := tr.Sweep(); removed != 0 {
		t.Fatalf("removed=%d want=0", removed)
	}
}

func TestTracker_AuctionsIsolated(t *testing.T) {
	clk := clockwork.NewFakeClock()
	tr := NewTracker(90*time.Second, nil)
	tr.Clock = clk

	tr.Add("a1", "v1")
	tr.Add("a2", "v1")
	tr.Remove("a1", "v1")
	if n := tr.Count("a1"); n != 0 {
		t.Fatalf("a1 count=%d want=0", n)
	}
	if n := tr.Count("a2"); n != 1 {
		t.Fatalf("a2 count=%d want=1", n)
	}
}
