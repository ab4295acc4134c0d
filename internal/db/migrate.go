package db

import (
	"github.com/dogogdfive/flaunt-lol-sub003/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Auction{},
		&models.AuctionMessage{},
	)
}
