package order

import (
	"context"
	"fmt"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/wallet"

	"github.com/rs/zerolog/log"
)

type service struct {
	uow     repositories.UnitOfWork
	orders  repositories.OrderRepository
	catalog repositories.ServiceRepository
	wallet  wallet.Service
}

func NewService(
	uow repositories.UnitOfWork,
	orders repositories.OrderRepository,
	catalog repositories.ServiceRepository,
	walletSvc wallet.Service,
) Service {
	if uow == nil {
		panic("unit of work is required")
	}
	if orders == nil || catalog == nil {
		panic("repositories are required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}

	return &service{
		uow:     uow,
		orders:  orders,
		catalog: catalog,
		wallet:  walletSvc,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID, serviceID uint, quantity int) (*models.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	svc, err := s.catalog.GetByID(serviceID)
	if err != nil {
		if err == repositories.ErrServiceNotFound {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to look up service: %w", err)
	}
	if !svc.IsActive() {
		return nil, ErrServiceUnavailable
	}

	order := &models.Order{
		UserID:      userID,
		ServiceID:   serviceID,
		Quantity:    quantity,
		UnitPrice:   svc.Price,
		TotalAmount: svc.Price * float64(quantity),
		Status:      models.OrderStatusPending,
	}

	err = s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		if err := tx.Orders.Create(order); err != nil {
			return err
		}
		return s.wallet.DebitTx(tx, userID, order.TotalAmount, models.LedgerKindPayment, &order.ID)
	})
	if err != nil {
		if err == wallet.ErrInsufficientBalance || err == wallet.ErrWalletNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to settle order: %w", err)
	}

	s.wallet.InvalidateCache(ctx, userID)
	log.Info().
		Str("order_id", order.ID).
		Uint("user_id", userID).
		Float64("total", order.TotalAmount).
		Msg("order settled")

	return order, nil
}

func (s *service) RefundOrder(ctx context.Context, orderID string, actorID uint, isAdmin bool, reason string) (*RefundResult, error) {
	var result *RefundResult

	err := s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		// The status check and the credit must see the same row version,
		// so the order is locked and re-checked inside this transaction.
		ord, err := tx.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			if err == repositories.ErrOrderNotFound {
				return ErrOrderNotFound
			}
			return err
		}

		if !isAdmin && ord.UserID != actorID {
			return ErrNotOrderOwner
		}
		if ord.Status == models.OrderStatusRefunded {
			return ErrAlreadyRefunded
		}
		if ord.Status == models.OrderStatusCancelled {
			return ErrOrderCancelled
		}
		if ord.TotalAmount <= 0 {
			return ErrInvalidRefundAmount
		}

		if err := s.wallet.CreditTx(tx, ord.UserID, ord.TotalAmount, models.LedgerKindRefund, &ord.ID); err != nil {
			return err
		}

		ord.Status = models.OrderStatusRefunded
		if reason != "" {
			ord.Notes = "Refunded: " + reason
		} else {
			ord.Notes = "Refunded"
		}
		if err := tx.Orders.Update(ord); err != nil {
			return err
		}

		w, err := tx.Wallets.GetByUserID(ord.UserID)
		if err != nil {
			return err
		}

		result = &RefundResult{
			Order:        ord,
			RefundAmount: ord.TotalAmount,
			NewBalance:   w.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wallet.InvalidateCache(ctx, result.Order.UserID)
	log.Info().
		Str("order_id", orderID).
		Uint("actor_id", actorID).
		Float64("amount", result.RefundAmount).
		Msg("order refunded")

	return result, nil
}

// Administrative transitions. Cancelled and refunded are terminal; refunds
// go through RefundOrder, never through here.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
	models.OrderStatusRefunded:   {},
}

func (s *service) UpdateStatus(ctx context.Context, orderID, status string) error {
	return s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		ord, err := tx.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			if err == repositories.ErrOrderNotFound {
				return ErrOrderNotFound
			}
			return err
		}

		allowed, ok := statusTransitions[ord.Status]
		if !ok {
			return ErrInvalidStatus
		}
		permitted := false
		for _, next := range allowed {
			if next == status {
				permitted = true
				break
			}
		}
		if !permitted {
			return ErrInvalidStatus
		}

		ord.Status = status
		return tx.Orders.Update(ord)
	})
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	ord, err := s.orders.GetByID(orderID)
	if err != nil {
		if err == repositories.ErrOrderNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return ord, nil
}

func (s *service) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListByUser(ctx, userID, limit, offset)
}
