package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Auction lifecycle states.
const (
	AuctionScheduled   = "SCHEDULED"
	AuctionLive        = "LIVE"
	AuctionSold        = "SOLD"
	AuctionCancelled   = "CANCELLED"
	AuctionEndedUnsold = "ENDED_UNSOLD"
)

// Price decay curves.
const (
	DecayLinear      = "LINEAR"
	DecayStepped     = "STEPPED"
	DecayExponential = "EXPONENTIAL"
)

// Auction is the authoritative record for one descending-price sale. The
// database owns it; the core re-reads before every derived computation and only
// ever applies conditional, field-scoped status updates.
type Auction struct {
	ID       string  `gorm:"primaryKey;type:varchar(64)"`
	Slug     *string `gorm:"type:varchar(100);uniqueIndex"`
	SellerID string  `gorm:"type:varchar(64);not null;index"`
	Title    string  `gorm:"type:varchar(200);not null"`

	StartPriceSol   decimal.Decimal `gorm:"type:numeric(20,9);not null"`
	FloorPriceSol   decimal.Decimal `gorm:"type:numeric(20,9);not null;default:0"`
	DecayType       string          `gorm:"type:varchar(20);not null;default:'LINEAR'"`
	DecaySteps      datatypes.JSON  `gorm:"type:jsonb"`
	DurationMinutes int             `gorm:"not null"`

	StartsAt       time.Time  `gorm:"type:timestamptz;not null;index"`
	MediaExpiresAt *time.Time `gorm:"type:timestamptz;index"`

	Quantity     int `gorm:"not null;default:1"`
	QuantitySold int `gorm:"not null;default:0"`

	Status          string           `gorm:"type:varchar(20);not null;default:'SCHEDULED';index"`
	WinnerID        *string          `gorm:"type:varchar(64)"`
	WinningPriceSol *decimal.Decimal `gorm:"type:numeric(20,9)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Auction) TableName() string {
	return "auctions"
}

// EndsAt is derived; it is never stored independently of StartsAt + duration.
func (a *Auction) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

func (a *Auction) QuantityRemaining() int {
	rem := a.Quantity - a.QuantitySold
	if rem < 0 {
		return 0
	}
	return rem
}

// Terminal reports whether no further lifecycle transitions may occur.
func (a *Auction) Terminal() bool {
	switch a.Status {
	case AuctionSold, AuctionCancelled, AuctionEndedUnsold:
		return true
	}
	return false
}
