package auction

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

const MediaRetention = 30 * 24 * time.Hour

// Lifecycle reconciles time-driven auction state transitions. Many broadcast
// sessions watching the same auction call Reconcile concurrently; safety comes
// from the conditional status write, not from locks. A losing writer re-reads
// and returns whatever the winner persisted.
type Lifecycle struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Clock  clockwork.Clock
	// Retention overrides MediaRetention when positive.
	Retention time.Duration
}

func (l *Lifecycle) retention() time.Duration {
	if l.Retention > 0 {
		return l.Retention
	}
	return MediaRetention
}

func (l *Lifecycle) now() time.Time {
	if l.Clock != nil {
		return l.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// Reconcile applies at most one pending time-driven transition and returns the
// authoritative record afterwards. Terminal states are never left: SOLD and
// CANCELLED arrive from the purchase and seller flows, and once observed the
// controller refuses to move the auction again.
func (l *Lifecycle) Reconcile(ctx context.Context, a *models.Auction) (*models.Auction, error) {
	if a == nil {
		return nil, nil
	}
	if a.Terminal() {
		return a, nil
	}
	now := l.now()

	switch a.Status {
	case models.AuctionScheduled:
		if now.Before(a.StartsAt) {
			return a, nil
		}
		return l.transition(ctx, a, models.AuctionScheduled, models.AuctionLive, nil)

	case models.AuctionLive:
		if !TimeRemainingAt(a, now).Expired {
			return a, nil
		}
		expires := now.Add(l.retention())
		return l.transition(ctx, a, models.AuctionLive, models.AuctionEndedUnsold, map[string]any{
			"media_expires_at": expires,
		})
	}
	return a, nil
}

func (l *Lifecycle) transition(ctx context.Context, a *models.Auction, expected, next string, fields map[string]any) (*models.Auction, error) {
	rows, err := l.Repo.UpdateAuctionStatus(ctx, a.ID, expected, next, fields)
	if err != nil {
		return a, err
	}
	if rows == 0 {
		// Lost the race to another session; their write is just as good.
		if l.Logger != nil {
			l.Logger.Debug("auction transition already applied elsewhere",
				zap.String("auction_id", a.ID),
				zap.String("expected", expected),
				zap.String("next", next),
			)
		}
	} else if l.Logger != nil {
		l.Logger.Info("auction transitioned",
			zap.String("auction_id", a.ID),
			zap.String("from", expected),
			zap.String("to", next),
		)
	}

	fresh, err := l.Repo.FindAuctionByIDOrSlug(ctx, a.ID)
	if err != nil {
		return a, err
	}
	if fresh == nil {
		return a, nil
	}
	return fresh, nil
}
