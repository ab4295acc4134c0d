package models

import (
	"time"
)

// User rows are owned by the profile/moderation subsystem; the auction core
// only reads them to resolve callers and join chat authors.
type User struct {
	ID            string `gorm:"primaryKey;type:varchar(64)"`
	WalletAddress string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Username      string `gorm:"type:varchar(50);uniqueIndex"`
	DisplayName   string `gorm:"type:varchar(100)"`
	AvatarURL     string `gorm:"type:text"`
	Banned        bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile is the author shape joined onto chat messages.
type PublicProfile struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName"`
	AvatarURL     string `json:"avatarUrl"`
}

func (u User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		WalletAddress: u.WalletAddress,
		Username:      u.Username,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
	}
}
