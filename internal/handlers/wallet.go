package handlers

import (
	"errors"

	apperrors "vendora/internal/errors"
	"vendora/internal/models"
	"vendora/internal/services/wallet"
	"vendora/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": apperrors.ErrWalletNotFound.Message,
				"code":  apperrors.ErrWalletNotFound.Code,
			})
		}
		return response.ServerError(c, "Failed to get wallet")
	}

	return response.Success(c, "Wallet retrieved", fiber.Map{
		"wallet": w,
	})
}

func (h *WalletHandler) GetLedger(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	entries, err := h.walletService.GetLedger(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return response.ServerError(c, "Failed to get ledger")
	}

	return response.Success(c, "Ledger retrieved", fiber.Map{
		"entries": entries,
	})
}
