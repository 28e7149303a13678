package handlers_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"vendora/internal/handlers"
	"vendora/internal/models"
	"vendora/internal/services/order"
	"vendora/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderService returns canned results so the test pins down the
// status-code mapping, not the settlement logic.
type stubOrderService struct {
	createErr error
	refundErr error
	order     *models.Order
}

func (s *stubOrderService) CreateOrder(ctx context.Context, userID, serviceID uint, quantity int) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}

func (s *stubOrderService) RefundOrder(ctx context.Context, orderID string, actorID uint, isAdmin bool, reason string) (*order.RefundResult, error) {
	if s.refundErr != nil {
		return nil, s.refundErr
	}
	return &order.RefundResult{Order: s.order, RefundAmount: 60, NewBalance: 100}, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	return nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, error) {
	return nil, nil
}

func newApp(svc order.Service) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{UserID: 1, Role: models.RoleUser})
		return c.Next()
	})
	h := handlers.NewOrderHandler(svc)
	app.Post("/orders", h.CreateOrder)
	app.Post("/orders/:id/refund", h.RefundOrder)
	return app
}

func TestCreateOrderStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"settled", nil, fiber.StatusCreated},
		{"insufficient funds", wallet.ErrInsufficientBalance, fiber.StatusPaymentRequired},
		{"unknown service", order.ErrServiceNotFound, fiber.StatusNotFound},
		{"inactive service", order.ErrServiceUnavailable, fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubOrderService{
				createErr: tt.serviceErr,
				order:     &models.Order{ID: "ord-1", UserID: 1, TotalAmount: 60},
			}
			app := newApp(svc)

			req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"service_id":7,"quantity":1}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestCreateOrderValidatesBody(t *testing.T) {
	app := newApp(&stubOrderService{order: &models.Order{}})

	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRefundOrderStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"refunded", nil, fiber.StatusOK},
		{"already refunded", order.ErrAlreadyRefunded, fiber.StatusConflict},
		{"cancelled", order.ErrOrderCancelled, fiber.StatusConflict},
		{"not owner", order.ErrNotOrderOwner, fiber.StatusForbidden},
		{"unknown order", order.ErrOrderNotFound, fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubOrderService{
				refundErr: tt.serviceErr,
				order:     &models.Order{ID: "ord-1", UserID: 1, Status: models.OrderStatusRefunded},
			}
			app := newApp(svc)

			req := httptest.NewRequest("POST", "/orders/ord-1/refund", strings.NewReader(`{"reason":"test"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
