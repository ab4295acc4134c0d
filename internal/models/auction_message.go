package models

import (
	"time"
)

// AuctionMessage is one chat line on a live auction. Immutable once created.
type AuctionMessage struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	AuctionID string `gorm:"type:varchar(64);not null;index:idx_auction_messages_auction_created,priority:1"`
	UserID    string `gorm:"type:varchar(64);not null;index"`
	Content   string `gorm:"type:varchar(500);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index:idx_auction_messages_auction_created,priority:2"`
}

func (AuctionMessage) TableName() string {
	return "auction_messages"
}
