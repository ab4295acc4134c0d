package repository

import (
	"context"
	"time"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
)

type ListMessagesParams struct {
	AuctionID string
	// Before filters to messages created strictly before this instant. It is
	// the createdAt of the oldest message the client has already seen.
	Before *time.Time
	Limit  int
}

// Repository is the persistence collaborator the auction core talks to. The
// surrounding storefront (store/product CRUD, settlement, moderation) owns the
// rest of the schema and is not represented here.
type Repository interface {
	// Auctions
	FindAuctionByIDOrSlug(ctx context.Context, key string) (*models.Auction, error)
	// UpdateAuctionStatus applies a conditional, field-scoped transition: the
	// write succeeds only while the row still carries expectedStatus. Returns
	// the number of rows updated (0 means another writer got there first).
	UpdateAuctionStatus(ctx context.Context, id, expectedStatus, newStatus string, fields map[string]any) (int64, error)
	ListAuctionsWithExpiredMedia(ctx context.Context, before time.Time, limit int) ([]models.Auction, error)

	// Chat
	CreateMessage(ctx context.Context, item *models.AuctionMessage) error
	ListMessagesBefore(ctx context.Context, params ListMessagesParams) ([]models.AuctionMessage, error)
	FindLatestMessageByUser(ctx context.Context, auctionID, userID string) (*models.AuctionMessage, error)

	// Identity
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByWallet(ctx context.Context, wallet string) (*models.User, error)
	ListUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
}
