package stream

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/auction"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/presence"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

const (
	DefaultTickInterval      = time.Second
	DefaultHeartbeatInterval = 30 * time.Second
)

// Snapshot is one pushed update of an auction's derived state.
type Snapshot struct {
	Status            string                `json:"status"`
	CurrentPriceSol   decimal.Decimal       `json:"currentPriceSol"`
	Temperature       auction.Temperature   `json:"temperature"`
	TimeRemaining     auction.TimeRemaining `json:"timeRemaining"`
	ViewerCount       int                   `json:"viewerCount"`
	QuantityRemaining int                   `json:"quantityRemaining"`
	StartsAt          time.Time             `json:"startsAt"`
	EndsAt            time.Time             `json:"endsAt"`

	// Terminal-only fields.
	Ended           bool             `json:"ended,omitempty"`
	WinnerID        *string          `json:"winnerId,omitempty"`
	WinningPriceSol *decimal.Decimal `json:"winningPriceSol,omitempty"`
	Error           bool             `json:"error,omitempty"`
}

// Pusher is the transport half of a session: the SSE handler in production,
// a recorder in tests.
type Pusher interface {
	PushSnapshot(Snapshot) error
	PushHeartbeat() error
}

// Session drives one connected client watching one auction. Each session runs
// its own timeline; sessions on the same auction converge through the
// authoritative record, never through each other.
type Session struct {
	Repo      repository.Repository
	Lifecycle *auction.Lifecycle
	Pricing   auction.PricingEngine
	Presence  *presence.Tracker
	Logger    *zap.Logger
	Clock     clockwork.Clock

	TickInterval      time.Duration
	HeartbeatInterval time.Duration

	AuctionID string
	ViewerID  string

	// Out is the transport the session emits on.
	Out Pusher
}

func (s *Session) clock() clockwork.Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return clockwork.NewRealClock()
}

func (s *Session) tickInterval() time.Duration {
	if s.TickInterval > 0 {
		return s.TickInterval
	}
	return DefaultTickInterval
}

func (s *Session) heartbeatInterval() time.Duration {
	if s.HeartbeatInterval > 0 {
		return s.HeartbeatInterval
	}
	return DefaultHeartbeatInterval
}

// Run registers the viewer, pushes one immediate snapshot, then ticks until a
// terminal snapshot is sent or the client goes away. Presence is deregistered
// and timers stopped on every exit path. Transient read failures skip the tick;
// they never end the session.
func (s *Session) Run(ctx context.Context) error {
	clk := s.clock()

	s.Presence.Add(s.AuctionID, s.ViewerID)
	defer s.Presence.Remove(s.AuctionID, s.ViewerID)

	ticker := clk.NewTicker(s.tickInterval())
	defer ticker.Stop()
	heartbeat := clk.NewTicker(s.heartbeatInterval())
	defer heartbeat.Stop()

	lastStatus := ""

	done, err := s.tick(ctx, clk, &lastStatus)
	if done || err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.Chan():
			if err := s.push().PushHeartbeat(); err != nil {
				return nil
			}
		case <-ticker.Chan():
			done, err := s.tick(ctx, clk, &lastStatus)
			if done || err != nil {
				return err
			}
		}
	}
}

type discardPusher struct{}

func (discardPusher) PushSnapshot(Snapshot) error { return nil }
func (discardPusher) PushHeartbeat() error        { return nil }

func (s *Session) push() Pusher {
	if s.Out != nil {
		return s.Out
	}
	return discardPusher{}
}

func (s *Session) tick(ctx context.Context, clk clockwork.Clock, lastStatus *string) (bool, error) {
	a, err := s.Repo.FindAuctionByIDOrSlug(ctx, s.AuctionID)
	if err != nil {
		// Stale-but-valid beats an error flash; retry next interval.
		if s.Logger != nil {
			s.Logger.Warn("auction fetch failed, skipping tick",
				zap.String("auction_id", s.AuctionID),
				zap.Error(err),
			)
		}
		return false, nil
	}
	if a == nil {
		// Auction vanished under us: one terminal event, then stop.
		_ = s.push().PushSnapshot(Snapshot{
			Status: *lastStatus,
			Ended:  true,
			Error:  true,
		})
		return true, nil
	}

	a, err = s.Lifecycle.Reconcile(ctx, a)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("lifecycle reconcile failed, skipping tick",
				zap.String("auction_id", s.AuctionID),
				zap.Error(err),
			)
		}
		return false, nil
	}

	s.Presence.Add(s.AuctionID, s.ViewerID)

	snap := s.buildSnapshot(a, clk.Now())
	*lastStatus = a.Status

	if err := s.push().PushSnapshot(snap); err != nil {
		return true, nil
	}
	return a.Terminal(), nil
}

func (s *Session) buildSnapshot(a *models.Auction, now time.Time) Snapshot {
	snap := Snapshot{
		Status:            a.Status,
		CurrentPriceSol:   s.Pricing.CurrentPrice(a, now),
		Temperature:       s.Pricing.TemperatureAt(a, now),
		TimeRemaining:     auction.TimeRemainingAt(a, now),
		ViewerCount:       s.Presence.Count(a.ID),
		QuantityRemaining: a.QuantityRemaining(),
		StartsAt:          a.StartsAt,
		EndsAt:            a.EndsAt(),
	}
	if a.Terminal() {
		snap.Ended = true
		if a.Status == models.AuctionSold {
			snap.WinnerID = a.WinnerID
			snap.WinningPriceSol = a.WinningPriceSol
			if a.WinningPriceSol != nil {
				snap.CurrentPriceSol = *a.WinningPriceSol
			}
		}
	}
	return snap
}
