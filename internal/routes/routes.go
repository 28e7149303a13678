// Package routes defines the API routing configuration.
// It wires repositories into services and services into handlers, and
// applies authentication middleware to the protected groups.
package routes

import (
	"time"

	"vendora/internal/config"
	"vendora/internal/handlers"
	"vendora/internal/metrics"
	"vendora/internal/middleware"
	"vendora/internal/repositories"
	"vendora/internal/repositories/cache"
	"vendora/internal/services/crypto"
	"vendora/internal/services/order"
	"vendora/internal/services/payment"
	"vendora/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, walletCache cache.WalletCache) {
	// Repositories
	uow := repositories.NewUnitOfWork(db)
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	catalogRepo := repositories.NewServiceRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	// Services in dependency order
	collector := metrics.NewPrometheusCollector()
	walletService := wallet.NewService(uow, walletRepo, ledgerRepo, walletCache, collector)
	orderService := order.NewService(uow, orderRepo, catalogRepo, walletService)
	paymentService := payment.NewService(
		uow,
		paymentRepo,
		walletService,
		nil,
		payment.LoadGatewayConfig(settingRepo),
	)
	cryptoService := crypto.NewService(
		uow,
		paymentRepo,
		settingRepo,
		walletService,
		crypto.RealClock{},
		crypto.GoScheduler{},
		crypto.NewDevVerifier(),
		crypto.Config{
			SessionTTL:        config.GetDurationEnv("CRYPTO_SESSION_TTL", 30*time.Minute),
			MaxVerifyAttempts: config.GetIntEnv("CRYPTO_VERIFY_ATTEMPTS", 3),
			VerifyRetryDelay:  config.GetDurationEnv("CRYPTO_VERIFY_RETRY_DELAY", 5*time.Second),
		},
	)

	// Handlers
	walletHandler := handlers.NewWalletHandler(walletService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	cryptoHandler := handlers.NewCryptoHandler(cryptoService)
	healthHandler := handlers.NewHealthHandler(db, walletCache)

	authMiddleware := middleware.NewAuthMiddleware(config.GetEnv("JWT_SECRET", "vendora"))

	// Public endpoints
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Gateway callbacks authenticate via signature, not bearer token.
	api.Post("/payments/card/webhook", paymentHandler.Webhook)

	// Protected routes
	protected := api.Use(authMiddleware.Handler)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/ledger", walletHandler.GetLedger)

	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/refund", orderHandler.RefundOrder)

	depositLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})

	payments := protected.Group("/payments")
	payments.Post("/card/intents", depositLimiter, paymentHandler.CreateIntent)
	payments.Post("/crypto/sessions", depositLimiter, cryptoHandler.CreateSession)
	payments.Get("/crypto/sessions/:id", cryptoHandler.GetStatus)
	payments.Post("/crypto/sessions/:id/hash", cryptoHandler.SubmitHash)

	// Admin routes
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Put("/orders/:id/status", orderHandler.UpdateStatus)
}
