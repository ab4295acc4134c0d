package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/core"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

type stubRepo struct {
	auction  *models.Auction
	users    map[string]models.User
	messages []models.AuctionMessage

	created []models.AuctionMessage
	latest  *models.AuctionMessage

	lastListParams repository.ListMessagesParams
}

func (r *stubRepo) FindAuctionByIDOrSlug(ctx context.Context, key string) (*models.Auction, error) {
	return r.auction, nil
}

func (r *stubRepo) UpdateAuctionStatus(ctx context.Context, id, expectedStatus, newStatus string, fields map[string]any) (int64, error) {
	return 0, nil
}

func (r *stubRepo) ListAuctionsWithExpiredMedia(ctx context.Context, before time.Time, limit int) ([]models.Auction, error) {
	return nil, nil
}

func (r *stubRepo) CreateMessage(ctx context.Context, item *models.AuctionMessage) error {
	r.created = append(r.created, *item)
	return nil
}

func (r *stubRepo) ListMessagesBefore(ctx context.Context, params repository.ListMessagesParams) ([]models.AuctionMessage, error) {
	r.lastListParams = params
	out := r.messages
	if len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *stubRepo) FindLatestMessageByUser(ctx context.Context, auctionID, userID string) (*models.AuctionMessage, error) {
	return r.latest, nil
}

func (r *stubRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if r.users == nil {
		return nil, nil
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *stubRepo) GetUserByWallet(ctx context.Context, wallet string) (*models.User, error) {
	return nil, nil
}

func (r *stubRepo) ListUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func liveAuction() *models.Auction {
	return &models.Auction{
		ID:              "a1",
		StartPriceSol:   decimal.NewFromInt(10),
		FloorPriceSol:   decimal.NewFromInt(1),
		DurationMinutes: 60,
		StartsAt:        time.Now().UTC().Add(-time.Minute),
		Status:          models.AuctionLive,
	}
}

func caller() *models.User {
	return &models.User{ID: "u1", WalletAddress: "wallet1", Username: "alice"}
}

func newGate(repo *stubRepo, clk clockwork.Clock) *Gate {
	return &Gate{Repo: repo, Clock: clk}
}

func TestPost_RequiresAuth(t *testing.T) {
	g := newGate(&stubRepo{auction: liveAuction()}, clockwork.NewFakeClock())

	_, err := g.Post(context.Background(), nil, "a1", "hello")
	if core.KindOf(err) != core.KindUnauthenticated {
		t.Fatalf("kind=%s want unauthenticated", core.KindOf(err))
	}
}

func TestPost_BannedForbidden(t *testing.T) {
	g := newGate(&stubRepo{auction: liveAuction()}, clockwork.NewFakeClock())
	u := caller()
	u.Banned = true

	_, err := g.Post(context.Background(), u, "a1", "hello")
	if core.KindOf(err) != core.KindForbidden {
		t.Fatalf("kind=%s want forbidden", core.KindOf(err))
	}
}

func TestPost_UnknownAuction(t *testing.T) {
	g := newGate(&stubRepo{}, clockwork.NewFakeClock())

	_, err := g.Post(context.Background(), caller(), "nope", "hello")
	if core.KindOf(err) != core.KindNotFound {
		t.Fatalf("kind=%s want not_found", core.KindOf(err))
	}
}

func TestPost_OnlyWhileLive(t *testing.T) {
	for _, status := range []string{
		models.AuctionScheduled,
		models.AuctionSold,
		models.AuctionCancelled,
		models.AuctionEndedUnsold,
	} {
		a := liveAuction()
		a.Status = status
		g := newGate(&stubRepo{auction: a}, clockwork.NewFakeClock())

		_, err := g.Post(context.Background(), caller(), "a1", "hello")
		if core.KindOf(err) != core.KindInvalidState {
			t.Fatalf("%s: kind=%s want invalid_state", status, core.KindOf(err))
		}
	}
}

func TestPost_ContentValidation(t *testing.T) {
	g := newGate(&stubRepo{auction: liveAuction()}, clockwork.NewFakeClock())

	_, err := g.Post(context.Background(), caller(), "a1", "   ")
	if core.KindOf(err) != core.KindInvalidInput {
		t.Fatalf("blank: kind=%s want invalid_input", core.KindOf(err))
	}

	_, err = g.Post(context.Background(), caller(), "a1", strings.Repeat("x", 501))
	if core.KindOf(err) != core.KindInvalidInput {
		t.Fatalf("long: kind=%s want invalid_input", core.KindOf(err))
	}

	// Length counts runes, not bytes.
	msg, err := g.Post(context.Background(), caller(), "a1", strings.Repeat("ü", 500))
	if err != nil {
		t.Fatalf("500 runes rejected: %v", err)
	}
	if msg == nil {
		t.Fatalf("message not returned")
	}
}

func TestPost_Cooldown(t *testing.T) {
	clk := clockwork.NewFakeClock()
	repo := &stubRepo{auction: liveAuction()}
	g := newGate(repo, clk)

	first, err := g.Post(context.Background(), caller(), "a1", "first")
	if err != nil {
		t.Fatalf("first post: %v", err)
	}
	repo.latest = &models.AuctionMessage{
		ID:        first.ID,
		AuctionID: "a1",
		UserID:    "u1",
		CreatedAt: first.CreatedAt,
	}

	clk.Advance(400 * time.Millisecond)
	_, err = g.Post(context.Background(), caller(), "a1", "too fast")
	if core.KindOf(err) != core.KindRateLimited {
		t.Fatalf("kind=%s want rate_limited", core.KindOf(err))
	}

	clk.Advance(700 * time.Millisecond)
	if _, err := g.Post(context.Background(), caller(), "a1", "ok now"); err != nil {
		t.Fatalf("post after cooldown: %v", err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("created=%d want=2", len(repo.created))
	}
}

func TestPost_JoinsAuthorAndTrims(t *testing.T) {
	repo := &stubRepo{auction: liveAuction()}
	g := newGate(repo, clockwork.NewFakeClock())

	msg, err := g.Post(context.Background(), caller(), "a1", "  gm  ")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if msg.Content != "gm" {
		t.Fatalf("content=%q want=%q", msg.Content, "gm")
	}
	if msg.Author.Username != "alice" || msg.Author.ID != "u1" {
		t.Fatalf("author=%+v want alice/u1", msg.Author)
	}
	if msg.ID == "" {
		t.Fatalf("message id not assigned")
	}
	if len(repo.created) != 1 || repo.created[0].Content != "gm" {
		t.Fatalf("persisted=%+v want trimmed content", repo.created)
	}
}

func TestListPage_ChronologicalWithHasMore(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubRepo{
		auction: liveAuction(),
		users: map[string]models.User{
			"u1": {ID: "u1", Username: "alice"},
			"u2": {ID: "u2", Username: "bob"},
		},
		// Newest first, as the store returns them.
		messages: []models.AuctionMessage{
			{ID: "m3", AuctionID: "a1", UserID: "u2", Content: "third", CreatedAt: base.Add(3 * time.Second)},
			{ID: "m2", AuctionID: "a1", UserID: "u1", Content: "second", CreatedAt: base.Add(2 * time.Second)},
			{ID: "m1", AuctionID: "a1", UserID: "u1", Content: "first", CreatedAt: base.Add(time.Second)},
		},
	}
	g := newGate(repo, clockwork.NewFakeClock())

	page, err := g.ListPage(context.Background(), "a1", nil, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Messages) != 3 {
		t.Fatalf("messages=%d want=3", len(page.Messages))
	}
	if !page.HasMore {
		t.Fatalf("hasMore=false want=true for a full page")
	}
	if page.Messages[0].ID != "m1" || page.Messages[2].ID != "m3" {
		t.Fatalf("order=%s..%s want m1..m3", page.Messages[0].ID, page.Messages[2].ID)
	}
	if page.Messages[0].Author.Username != "alice" || page.Messages[2].Author.Username != "bob" {
		t.Fatalf("author join wrong: %+v", page.Messages)
	}
}

func TestListPage_PartialPageHasNoMore(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubRepo{
		auction: liveAuction(),
		users:   map[string]models.User{"u1": {ID: "u1"}},
		messages: []models.AuctionMessage{
			{ID: "m1", AuctionID: "a1", UserID: "u1", CreatedAt: base},
		},
	}
	g := newGate(repo, clockwork.NewFakeClock())

	page, err := g.ListPage(context.Background(), "a1", nil, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Messages) != 1 || page.HasMore {
		t.Fatalf("page=%+v want 1 message, hasMore=false", page)
	}
}

func TestListPage_ClampsLimitAndPassesCursor(t *testing.T) {
	repo := &stubRepo{auction: liveAuction(), users: map[string]models.User{}}
	g := newGate(repo, clockwork.NewFakeClock())

	before := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if _, err := g.ListPage(context.Background(), "a1", &before, 9999); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastListParams.Limit != DefaultPageLimit {
		t.Fatalf("limit=%d want=%d", repo.lastListParams.Limit, DefaultPageLimit)
	}
	if repo.lastListParams.Before == nil || !repo.lastListParams.Before.Equal(before) {
		t.Fatalf("before=%v want=%s", repo.lastListParams.Before, before)
	}

	if _, err := g.ListPage(context.Background(), "a1", nil, 0); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastListParams.Limit != DefaultPageLimit {
		t.Fatalf("limit=%d want default for zero", repo.lastListParams.Limit)
	}
}

func TestListPage_UnknownAuction(t *testing.T) {
	g := newGate(&stubRepo{}, clockwork.NewFakeClock())

	_, err := g.ListPage(context.Background(), "nope", nil, 10)
	if core.KindOf(err) != core.KindNotFound {
		t.Fatalf("kind=%s want not_found", core.KindOf(err))
	}
}
