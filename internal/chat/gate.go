package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

const (
	DefaultCooldown  = time.Second
	DefaultMaxLength = 500
	DefaultPageLimit = 50
)

// Message is a chat line joined with its author's public profile.
type Message struct {
	ID        string               `json:"id"`
	AuctionID string               `json:"auctionId"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
	Author    models.PublicProfile `json:"author"`
}

type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"hasMore"`
}

// Gate validates and admits chat messages for live auctions, one at a time.
type Gate struct {
	Repo      repository.Repository
	Logger    *zap.Logger
	Clock     clockwork.Clock
	Cooldown  time.Duration
	MaxLength int
	PageLimit int
}

func (g *Gate) now() time.Time {
	if g.Clock != nil {
		return g.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (g *Gate) cooldown() time.Duration {
	if g.Cooldown > 0 {
		return g.Cooldown
	}
	return DefaultCooldown
}

func (g *Gate) maxLength() int {
	if g.MaxLength > 0 {
		return g.MaxLength
	}
	return DefaultMaxLength
}

func (g *Gate) pageLimit() int {
	if g.PageLimit > 0 {
		return g.PageLimit
	}
	return DefaultPageLimit
}

// Post runs the admission checks in order, each with its own failure, then
// persists the message and returns it joined with the author profile. No push
// happens here; readers pull pages or hold their own feed.
func (g *Gate) Post(ctx context.Context, caller *models.User, auctionKey, content string) (*Message, error) {
	if caller == nil {
		return nil, core.Unauthenticated("sign in to chat")
	}
	if caller.Banned {
		return nil, core.Forbidden("account is banned from chat")
	}

	a, err := g.Repo.FindAuctionByIDOrSlug(ctx, auctionKey)
	if err != nil {
		return nil, core.Transient("auction lookup failed", err)
	}
	if a == nil {
		return nil, core.NotFound("auction not found")
	}
	if a.Status != models.AuctionLive {
		return nil, core.InvalidState("chat only available while live")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, core.InvalidInput("message is empty")
	}
	if len([]rune(content)) > g.maxLength() {
		return nil, core.InvalidInput("message is too long")
	}

	now := g.now()
	latest, err := g.Repo.FindLatestMessageByUser(ctx, a.ID, caller.ID)
	if err != nil {
		return nil, core.Transient("cooldown lookup failed", err)
	}
	if latest != nil && now.Sub(latest.CreatedAt) < g.cooldown() {
		return nil, core.RateLimited("slow down")
	}

	item := &models.AuctionMessage{
		ID:        uuid.NewString(),
		AuctionID: a.ID,
		UserID:    caller.ID,
		Content:   content,
		CreatedAt: now,
	}
	if err := g.Repo.CreateMessage(ctx, item); err != nil {
		return nil, core.Transient("message persist failed", err)
	}
	if g.Logger != nil {
		g.Logger.Debug("chat message admitted",
			zap.String("auction_id", a.ID),
			zap.String("user_id", caller.ID),
		)
	}

	return &Message{
		ID:        item.ID,
		AuctionID: item.AuctionID,
		Content:   item.Content,
		CreatedAt: item.CreatedAt,
		Author:    caller.PublicProfile(),
	}, nil
}

// ListPage reads newest-first then reverses, so the page renders in
// chronological order. The cursor is the createdAt of the oldest message the
// client already has.
func (g *Gate) ListPage(ctx context.Context, auctionKey string, before *time.Time, limit int) (*MessagePage, error) {
	a, err := g.Repo.FindAuctionByIDOrSlug(ctx, auctionKey)
	if err != nil {
		return nil, core.Transient("auction lookup failed", err)
	}
	if a == nil {
		return nil, core.NotFound("auction not found")
	}

	if limit <= 0 || limit > g.pageLimit() {
		limit = g.pageLimit()
	}
	items, err := g.Repo.ListMessagesBefore(ctx, repository.ListMessagesParams{
		AuctionID: a.ID,
		Before:    before,
		Limit:     limit,
	})
	if err != nil {
		return nil, core.Transient("message page read failed", err)
	}

	authors, err := g.authorsByID(ctx, items)
	if err != nil {
		return nil, core.Transient("author join failed", err)
	}

	page := &MessagePage{
		Messages: make([]Message, 0, len(items)),
		HasMore:  len(items) == limit,
	}
	for i := len(items) - 1; i >= 0; i-- {
		m := items[i]
		page.Messages = append(page.Messages, Message{
			ID:        m.ID,
			AuctionID: m.AuctionID,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			Author:    authors[m.UserID],
		})
	}
	return page, nil
}

func (g *Gate) authorsByID(ctx context.Context, items []models.AuctionMessage) (map[string]models.PublicProfile, error) {
	ids := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, m := range items {
		if _, ok := seen[m.UserID]; ok {
			continue
		}
		seen[m.UserID] = struct{}{}
		ids = append(ids, m.UserID)
	}
	users, err := g.Repo.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.PublicProfile, len(users))
	for _, u := range users {
		out[u.ID] = u.PublicProfile()
	}
	return out, nil
}
