package handlers

import (
	"errors"

	apperrors "vendora/internal/errors"
	"vendora/internal/services/crypto"
	"vendora/internal/utils/response"
	"vendora/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CryptoHandler struct {
	cryptoService crypto.Service
}

func NewCryptoHandler(cryptoService crypto.Service) *CryptoHandler {
	return &CryptoHandler{cryptoService: cryptoService}
}

func (h *CryptoHandler) CreateSession(c *fiber.Ctx) error {
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
	v.Required("currency", input.Currency)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	session, err := h.cryptoService.CreateSession(c.Context(), claims.UserID, input.Amount, input.Currency)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": apperrors.ErrInvalidAmount.Message,
				"code":  apperrors.ErrInvalidAmount.Code,
			})
		case errors.Is(err, crypto.ErrUnsupportedCurrency):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, crypto.ErrCurrencyUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": apperrors.ErrCurrencyUnavailable.Message,
				"code":  apperrors.ErrCurrencyUnavailable.Code,
			})
		}
		return response.ServerError(c, "Failed to create payment session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment session created",
		"data":    session,
	})
}

func (h *CryptoHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	status, err := h.cryptoService.GetStatus(c.Context(), claims.UserID, c.Params("id"))
	if err != nil {
		if errors.Is(err, crypto.ErrSessionNotFound) {
			return response.NotFound(c, "Payment session not found")
		}
		return response.ServerError(c, "Failed to get session status")
	}

	return response.Success(c, "Session status", status)
}

func (h *CryptoHandler) SubmitHash(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		TxHash string `json:"tx_hash"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Required("tx_hash", input.TxHash)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	err = h.cryptoService.SubmitHash(c.Context(), claims.UserID, c.Params("id"), input.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrSessionNotFound):
			return response.NotFound(c, "Payment session not found")
		case errors.Is(err, crypto.ErrInvalidTxHash):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, crypto.ErrSessionExpired):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": apperrors.ErrSessionExpired.Message,
				"code":  apperrors.ErrSessionExpired.Code,
			})
		case errors.Is(err, crypto.ErrNotPending):
			return response.Conflict(c, "Payment session is not pending")
		}
		return response.ServerError(c, "Failed to submit transaction hash")
	}

	return response.Success(c, "Transaction hash submitted", fiber.Map{
		"session_id": c.Params("id"),
		"status":     "verifying",
	})
}
