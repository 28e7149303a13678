package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Order is a settled purchase. TotalAmount is fixed at creation and never
// recomputed.
type Order struct {
	ID          string  `gorm:"primarykey"`
	UserID      uint    `gorm:"index;not null"`
	ServiceID   uint    `gorm:"not null"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	TotalAmount float64 `gorm:"not null"`
	Status      string  `gorm:"not null;default:'pending'"`
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// CanRefund reports whether a refund may be issued for the current status.
// Cancelled and refunded orders never qualify.
func (o *Order) CanRefund() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted:
		return true
	}
	return false
}
