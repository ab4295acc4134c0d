package auction

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

// RetentionScanner surfaces terminal auctions whose media retention deadline
// has passed. Deletion itself belongs to the media collaborator; this scan
// keeps the deadline visible on our side.
type RetentionScanner struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Limit  int
}

func (s *RetentionScanner) ScanOnce(ctx context.Context) (int, error) {
	if s == nil || s.Repo == nil {
		return 0, nil
	}
	limit := s.Limit
	if limit <= 0 {
		limit = 200
	}
	items, err := s.Repo.ListAuctionsWithExpiredMedia(ctx, time.Now().UTC(), limit)
	if err != nil {
		return 0, err
	}
	for _, a := range items {
		if s.Logger != nil {
			s.Logger.Info("auction media past retention",
				zap.String("auction_id", a.ID),
				zap.Timep("media_expires_at", a.MediaExpiresAt),
			)
		}
	}
	return len(items), nil
}
