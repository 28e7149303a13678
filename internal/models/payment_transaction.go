package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment transaction statuses. Completed, failed and expired are terminal.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusVerifying = "verifying"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusExpired   = "expired"
)

// Payment transaction kinds
const (
	PaymentKindDeposit = "deposit"
	PaymentKindRefund  = "refund"
)

// PaymentTransaction tracks an external deposit from its creation until a
// gateway webhook or the crypto verifier settles it. ProviderReferenceID is
// the idempotency key for external confirmations.
type PaymentTransaction struct {
	ID                  string  `gorm:"primarykey"`
	UserID              uint    `gorm:"index;not null"`
	Amount              float64 `gorm:"not null"`
	Currency            string  `gorm:"not null"`
	Provider            string  `gorm:"not null;uniqueIndex:idx_provider_ref"`
	ProviderReferenceID string  `gorm:"not null;uniqueIndex:idx_provider_ref"`
	Status              string  `gorm:"not null;default:'pending'"`
	Kind                string  `gorm:"not null;default:'deposit'"`
	ExpiresAt           *time.Time
	Metadata            JSON `gorm:"type:jsonb"`
	ProcessedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether no further status transition is permitted.
func (p *PaymentTransaction) IsTerminal() bool {
	switch p.Status {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusExpired:
		return true
	}
	return false
}

// IsExpired reports whether the transaction's deadline has passed.
func (p *PaymentTransaction) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
