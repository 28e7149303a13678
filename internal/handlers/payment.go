package handlers

import (
	"errors"

	apperrors "vendora/internal/errors"
	"vendora/internal/services/payment"
	"vendora/internal/utils/response"
	"vendora/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.DepositAmount("amount", input.Amount)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	intent, err := h.paymentService.CreateIntent(c.Context(), claims.UserID, input.Amount, input.Currency)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, payment.ErrGatewayUnavailable):
			return response.Error(c, fiber.StatusServiceUnavailable, "Card payments are not available")
		}
		return response.ServerError(c, "Failed to create payment intent")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment intent created",
		"data":    intent,
	})
}

// Webhook receives gateway callbacks. The raw body and signature header are
// passed through untouched so signature verification sees exactly what the
// gateway signed.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	if err := h.paymentService.HandleWebhook(c.Context(), payload, signature); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": apperrors.ErrInvalidSignature.Message,
				"code":  apperrors.ErrInvalidSignature.Code,
			})
		}
		log.Error().Err(err).Msg("webhook processing failed")
		return response.ServerError(c, "Webhook processing failed")
	}

	return c.JSON(fiber.Map{"received": true})
}
