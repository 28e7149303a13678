package models

import (
	"time"

	"gorm.io/gorm"
)

type Wallet struct {
	ID        uint    `gorm:"primarykey"`
	UserID    uint    `gorm:"uniqueIndex;not null"`
	Balance   float64 `gorm:"default:0;check:balance >= 0"`
	Currency  string  `gorm:"default:'USD'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Every wallet starts empty; the ledger is the only way money enters.
	w.Balance = 0.0
	return nil
}
