package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
	"github.com/dogogdfive/flaunt-lol-sub003/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- auctions ---------------------------------------------------------------

func (s *Store) FindAuctionByIDOrSlug(ctx context.Context, key string) (*models.Auction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.Auction
	err := s.db.WithContext(ctx).
		Where("id = ? OR slug = ?", key, key).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateAuctionStatus(ctx context.Context, id, expectedStatus, newStatus string, fields map[string]any) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	updates := map[string]any{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range fields {
		updates[k] = v
	}
	res := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("id = ?", id).
		Where("status = ?", expectedStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *Store) ListAuctionsWithExpiredMedia(ctx context.Context, before time.Time, limit int) ([]models.Auction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var items []models.Auction
	err := s.db.WithContext(ctx).
		Model(&models.Auction{}).
		Where("media_expires_at IS NOT NULL").
		Where("media_expires_at < ?", before).
		Order("media_expires_at asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- chat -------------------------------------------------------------------

func (s *Store) CreateMessage(ctx context.Context, item *models.AuctionMessage) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListMessagesBefore(ctx context.Context, params repository.ListMessagesParams) ([]models.AuctionMessage, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.AuctionMessage{}).
		Where("auction_id = ?", params.AuctionID)
	if params.Before != nil && !params.Before.IsZero() {
		query = query.Where("created_at < ?", *params.Before)
	}
	limit := normalizeLimit(params.Limit, 50)
	var items []models.AuctionMessage
	if err := query.Order("created_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) FindLatestMessageByUser(ctx context.Context, auctionID, userID string) (*models.AuctionMessage, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.AuctionMessage
	err := s.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- identity ---------------------------------------------------------------

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByWallet(ctx context.Context, wallet string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	var items []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func normalizeLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
