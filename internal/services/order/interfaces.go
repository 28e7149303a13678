package order

import (
	"context"

	"vendora/internal/models"
)

// Service is the order settlement and refund engine.
type Service interface {
	// CreateOrder settles a purchase: the wallet debit, the order row and
	// the payment ledger entry commit or roll back together.
	CreateOrder(ctx context.Context, userID, serviceID uint, quantity int) (*models.Order, error)

	// RefundOrder reverses a settled order exactly once, crediting the
	// buyer's wallet and flipping the order to refunded.
	RefundOrder(ctx context.Context, orderID string, actorID uint, isAdmin bool, reason string) (*RefundResult, error)

	// UpdateStatus applies an administrative status transition. It never
	// moves money.
	UpdateStatus(ctx context.Context, orderID, status string) error

	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error)
}

// RefundResult reports the outcome of a successful refund.
type RefundResult struct {
	Order        *models.Order
	RefundAmount float64
	NewBalance   float64
}
