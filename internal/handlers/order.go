package handlers

import (
	"errors"

	apperrors "vendora/internal/errors"
	"vendora/internal/services/order"
	"vendora/internal/services/wallet"
	"vendora/internal/utils/response"
	"vendora/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService order.Service
}

func NewOrderHandler(orderService order.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		ServiceID uint `json:"service_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	v := validation.New()
	v.Check(input.ServiceID != 0, "service_id", "is required")
	v.Quantity("quantity", input.Quantity)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	ord, err := h.orderService.CreateOrder(c.Context(), claims.UserID, input.ServiceID, input.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrServiceNotFound):
			return response.NotFound(c, "Service not found")
		case errors.Is(err, order.ErrServiceUnavailable):
			return response.NotFound(c, "Service is not available")
		case errors.Is(err, order.ErrInvalidQuantity):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, wallet.ErrInsufficientBalance):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": apperrors.ErrInsufficientBalance.Message,
				"code":  apperrors.ErrInsufficientBalance.Code,
			})
		case errors.Is(err, wallet.ErrWalletNotFound):
			return response.NotFound(c, "Wallet not found")
		}
		return response.ServerError(c, "Failed to create order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order created",
		"data":    ord,
	})
}

func (h *OrderHandler) RefundOrder(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	orderID := c.Params("id")

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Reason("reason", input.Reason)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	result, err := h.orderService.RefundOrder(c.Context(), orderID, claims.UserID, claims.IsAdmin(), input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrNotOrderOwner):
			return response.Forbidden(c, "Not allowed to refund this order")
		case errors.Is(err, order.ErrAlreadyRefunded):
			return response.Conflict(c, "Order already refunded")
		case errors.Is(err, order.ErrOrderCancelled):
			return response.Conflict(c, "Order already cancelled")
		case errors.Is(err, order.ErrInvalidRefundAmount):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to refund order")
	}

	return response.Success(c, "Refund processed", fiber.Map{
		"refund_amount": result.RefundAmount,
		"new_balance":   result.NewBalance,
		"order":         result.Order,
	})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	ord, err := h.orderService.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.ServerError(c, "Failed to get order")
	}
	if ord.UserID != claims.UserID && !claims.IsAdmin() {
		return response.Forbidden(c, "Not allowed to view this order")
	}

	return response.Success(c, "Order retrieved", ord)
}

func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	orders, err := h.orderService.ListOrders(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return response.ServerError(c, "Failed to list orders")
	}

	return response.Success(c, "Orders retrieved", fiber.Map{
		"orders": orders,
	})
}

// UpdateStatus applies an administrative order status transition.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Required("status", input.Status)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	err := h.orderService.UpdateStatus(c.Context(), c.Params("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			return response.NotFound(c, "Order not found")
		case errors.Is(err, order.ErrInvalidStatus):
			return response.Conflict(c, "Invalid status transition")
		}
		return response.ServerError(c, "Failed to update order")
	}

	return response.Success(c, "Order updated", fiber.Map{
		"status": input.Status,
	})
}
