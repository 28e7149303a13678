package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"vendora/internal/config"
	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/wallet"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

// Deposit limits, matching the crypto path.
const (
	MinDepositAmount = 0.5
	MaxDepositAmount = 10000.0
)

// Intent is the client-facing result of creating a card deposit.
type Intent struct {
	TransactionID string `json:"transaction_id"`
	ClientSecret  string `json:"client_secret"`
}

// Service is the card gateway adapter: it creates payment intents with the
// external gateway and settles deposits from its signed webhook callbacks.
type Service interface {
	CreateIntent(ctx context.Context, userID uint, amount float64, currency string) (*Intent, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// GatewayConfig holds the card gateway credentials.
type GatewayConfig struct {
	SecretKey     string
	WebhookSecret string
}

// LoadGatewayConfig reads the gateway configuration from the stripe
// payment-settings row, falling back to the environment.
func LoadGatewayConfig(settings repositories.SettingRepository) GatewayConfig {
	if setting, err := settings.GetByProvider(models.ProviderStripe); err == nil && setting.IsActive {
		if cfg, err := models.ParseStripeConfig(setting.Config); err == nil {
			return GatewayConfig{SecretKey: cfg.SecretKey, WebhookSecret: cfg.WebhookSecret}
		}
	}
	return GatewayConfig{
		SecretKey:     config.GetEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret: config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	}
}

type service struct {
	uow      repositories.UnitOfWork
	payments repositories.PaymentRepository
	wallet   wallet.Service
	parser   WebhookParser
	cfg      GatewayConfig
}

func NewService(
	uow repositories.UnitOfWork,
	payments repositories.PaymentRepository,
	walletSvc wallet.Service,
	parser WebhookParser,
	cfg GatewayConfig,
) Service {
	if uow == nil || payments == nil {
		panic("repositories are required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	if parser == nil {
		parser = NewStripeWebhookParser(cfg.WebhookSecret)
	}

	stripe.Key = cfg.SecretKey

	return &service{
		uow:      uow,
		payments: payments,
		wallet:   walletSvc,
		parser:   parser,
		cfg:      cfg,
	}
}

func (s *service) CreateIntent(ctx context.Context, userID uint, amount float64, currency string) (*Intent, error) {
	if amount < MinDepositAmount || amount > MaxDepositAmount {
		return nil, ErrInvalidAmount
	}
	if s.cfg.SecretKey == "" {
		return nil, ErrGatewayUnavailable
	}
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))
	params.AddMetadata("type", "wallet_deposit")

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	txn := &models.PaymentTransaction{
		UserID:              userID,
		Amount:              amount,
		Currency:            strings.ToUpper(currency),
		Provider:            models.ProviderStripe,
		ProviderReferenceID: pi.ID,
		Status:              models.PaymentStatusPending,
		Kind:                models.PaymentKindDeposit,
	}
	if err := s.payments.Create(txn); err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	log.Info().
		Str("transaction_id", txn.ID).
		Uint("user_id", userID).
		Float64("amount", amount).
		Msg("card deposit intent created")

	return &Intent{
		TransactionID: txn.ID,
		ClientSecret:  pi.ClientSecret,
	}, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.parser.Parse(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case EventIntentSucceeded:
		return s.onIntentSucceeded(ctx, event.ProviderReferenceID)
	case EventIntentFailed:
		return s.onIntentFailed(ctx, event.ProviderReferenceID)
	default:
		log.Debug().Str("type", event.Type).Msg("unhandled gateway event")
		return nil
	}
}

// onIntentSucceeded credits the deposit exactly once. The transaction row is
// locked and its status re-checked inside the crediting transaction, so a
// redelivered event, or a success arriving after the row reached a terminal
// state through another path, is acknowledged without touching the wallet.
func (s *service) onIntentSucceeded(ctx context.Context, providerRef string) error {
	var credited uint

	err := s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		txn, err := tx.Payments.GetByProviderRefForUpdate(models.ProviderStripe, providerRef)
		if err != nil {
			if err == repositories.ErrPaymentNotFound {
				log.Warn().Str("provider_ref", providerRef).Msg("webhook for unknown payment intent")
				return nil
			}
			return err
		}

		if txn.IsTerminal() {
			return nil
		}

		if err := s.wallet.CreditTx(tx, txn.UserID, txn.Amount, models.LedgerKindDeposit, &txn.ID); err != nil {
			return err
		}

		now := time.Now()
		txn.Status = models.PaymentStatusCompleted
		txn.ProcessedAt = &now
		if err := tx.Payments.Update(txn); err != nil {
			return err
		}

		credited = txn.UserID
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to settle card deposit: %w", err)
	}

	if credited != 0 {
		s.wallet.InvalidateCache(ctx, credited)
		log.Info().Str("provider_ref", providerRef).Uint("user_id", credited).Msg("card deposit completed")
	}
	return nil
}

// onIntentFailed marks the transaction failed only while it is still
// pending; a terminal state reached through another path stays untouched.
func (s *service) onIntentFailed(ctx context.Context, providerRef string) error {
	txn, err := s.payments.GetByProviderRef(models.ProviderStripe, providerRef)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			log.Warn().Str("provider_ref", providerRef).Msg("failure webhook for unknown payment intent")
			return nil
		}
		return err
	}

	moved, err := s.payments.TransitionStatus(
		txn.ID,
		[]string{models.PaymentStatusPending},
		models.PaymentStatusFailed,
		map[string]interface{}{"processed_at": time.Now()},
	)
	if err != nil {
		return err
	}
	if moved {
		log.Info().Str("provider_ref", providerRef).Msg("card deposit failed")
	}
	return nil
}
