package handlers

import (
	"vendora/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache cache.WalletCache
}

func NewHealthHandler(db *gorm.DB, walletCache cache.WalletCache) *HealthHandler {
	return &HealthHandler{db: db, cache: walletCache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "ok",
		"database": "ok",
		"cache":    "ok",
	}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		status["database"] = "unavailable"
		healthy = false
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			// Degraded but not down; reads fall through to the database.
			status["cache"] = "unavailable"
		}
	}

	if !healthy {
		status["status"] = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
