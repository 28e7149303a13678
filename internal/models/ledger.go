package models

import (
	"time"
)

// Ledger entry kinds
const (
	LedgerKindDeposit    = "deposit"
	LedgerKindPayment    = "payment"
	LedgerKindRefund     = "refund"
	LedgerKindWithdrawal = "withdrawal"
)

// LedgerEntry is one immutable balance-affecting event. Credits carry a
// positive amount, debits a negative one, so the wallet balance is always
// the sum of a user's entries.
type LedgerEntry struct {
	ID          uint    `gorm:"primarykey"`
	UserID      uint    `gorm:"index;not null"`
	Amount      float64 `gorm:"not null"`
	Kind        string  `gorm:"not null"`
	ReferenceID *string `gorm:"index"` // order or payment transaction ID
	CreatedAt   time.Time
}
