package crypto

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/services/wallet"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service manages time-boxed crypto deposit sessions and drives their
// asynchronous verification.
type Service interface {
	CreateSession(ctx context.Context, userID uint, amount float64, currency string) (*Session, error)
	GetStatus(ctx context.Context, userID uint, sessionID string) (*StatusInfo, error)
	SubmitHash(ctx context.Context, userID uint, sessionID, txHash string) error
}

type service struct {
	uow       repositories.UnitOfWork
	payments  repositories.PaymentRepository
	settings  repositories.SettingRepository
	wallet    wallet.Service
	clock     Clock
	scheduler Scheduler
	verifier  Verifier
	cfg       Config
}

func NewService(
	uow repositories.UnitOfWork,
	payments repositories.PaymentRepository,
	settings repositories.SettingRepository,
	walletSvc wallet.Service,
	clock Clock,
	scheduler Scheduler,
	verifier Verifier,
	cfg Config,
) Service {
	if uow == nil || payments == nil || settings == nil {
		panic("repositories are required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	if clock == nil {
		clock = RealClock{}
	}
	if scheduler == nil {
		scheduler = GoScheduler{}
	}
	if verifier == nil {
		panic("verifier is required")
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.MaxVerifyAttempts == 0 {
		cfg.MaxVerifyAttempts = 3
	}

	return &service{
		uow:       uow,
		payments:  payments,
		settings:  settings,
		wallet:    walletSvc,
		clock:     clock,
		scheduler: scheduler,
		verifier:  verifier,
		cfg:       cfg,
	}
}

func (s *service) CreateSession(ctx context.Context, userID uint, amount float64, currency string) (*Session, error) {
	if amount < MinDepositAmount || amount > MaxDepositAmount {
		return nil, ErrInvalidAmount
	}
	provider, ok := supportedCurrencies[strings.ToUpper(currency)]
	if !ok {
		return nil, ErrUnsupportedCurrency
	}

	setting, err := s.settings.GetByProvider(provider)
	if err != nil {
		if err == repositories.ErrSettingNotFound {
			return nil, ErrCurrencyUnavailable
		}
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}
	if !setting.IsActive {
		return nil, ErrCurrencyUnavailable
	}

	cfg, err := models.ParseCryptoConfig(setting.Config)
	if err != nil {
		return nil, fmt.Errorf("provider %s misconfigured: %w", provider, err)
	}

	expiresAt := s.clock.Now().Add(s.cfg.SessionTTL)
	txn := &models.PaymentTransaction{
		UserID:              userID,
		Amount:              amount,
		Currency:            strings.ToUpper(currency),
		Provider:            provider,
		ProviderReferenceID: uuid.NewString(),
		Status:              models.PaymentStatusPending,
		Kind:                models.PaymentKindDeposit,
		ExpiresAt:           &expiresAt,
		Metadata: models.JSON{
			"wallet_address": cfg.WalletAddress,
			"network":        cfg.Network,
			"memo":           cfg.Memo,
		},
	}
	if err := s.payments.Create(txn); err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	log.Info().
		Str("session_id", txn.ID).
		Uint("user_id", userID).
		Float64("amount", amount).
		Str("currency", txn.Currency).
		Msg("crypto deposit session created")

	return &Session{
		SessionID:      txn.ID,
		Address:        cfg.WalletAddress,
		Network:        cfg.Network,
		Memo:           cfg.Memo,
		Amount:         amount,
		Currency:       txn.Currency,
		ExpiresAt:      txn.ExpiresAt,
		PaymentPayload: paymentPayload(cfg, amount, txn.Currency),
	}, nil
}

// GetStatus applies expiry as a side effect of the read. The transition is a
// compare-and-set, so a verification racing with the poll cannot both act on
// the same pending row.
func (s *service) GetStatus(ctx context.Context, userID uint, sessionID string) (*StatusInfo, error) {
	txn, err := s.payments.GetByID(sessionID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrSessionNotFound
	}

	now := s.clock.Now()
	if txn.Status == models.PaymentStatusPending && txn.IsExpired(now) {
		moved, err := s.payments.TransitionStatus(
			sessionID,
			[]string{models.PaymentStatusPending},
			models.PaymentStatusExpired,
			map[string]interface{}{"processed_at": now},
		)
		if err != nil {
			return nil, err
		}
		if moved {
			txn.Status = models.PaymentStatusExpired
		} else {
			// Lost the race; report whatever won.
			if txn, err = s.payments.GetByID(sessionID); err != nil {
				return nil, err
			}
		}
	}

	var remaining int64
	if txn.ExpiresAt != nil && txn.Status == models.PaymentStatusPending {
		if d := txn.ExpiresAt.Sub(now); d > 0 {
			remaining = d.Milliseconds()
		}
	}

	return &StatusInfo{
		SessionID:       txn.ID,
		Status:          txn.Status,
		Amount:          txn.Amount,
		Currency:        txn.Currency,
		TimeRemainingMs: remaining,
	}, nil
}

func (s *service) SubmitHash(ctx context.Context, userID uint, sessionID, txHash string) error {
	txHash = strings.TrimSpace(txHash)
	if txHash == "" {
		return ErrInvalidTxHash
	}

	txn, err := s.payments.GetByID(sessionID)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return ErrSessionNotFound
		}
		return err
	}
	if txn.UserID != userID {
		return ErrSessionNotFound
	}

	now := s.clock.Now()
	metadata := models.JSON{}
	for k, v := range txn.Metadata {
		metadata[k] = v
	}
	metadata["tx_hash"] = txHash
	metadata["submitted_at"] = now.UTC().Format(time.RFC3339)

	moved, err := s.payments.TransitionIfNotExpired(
		sessionID,
		[]string{models.PaymentStatusPending},
		models.PaymentStatusVerifying,
		now,
		map[string]interface{}{"metadata": metadata},
	)
	if err != nil {
		return err
	}
	if !moved {
		// Distinguish an expired session from one already past pending.
		if txn.Status == models.PaymentStatusPending && txn.IsExpired(now) {
			s.expire(sessionID, now)
			return ErrSessionExpired
		}
		return ErrNotPending
	}

	log.Info().
		Str("session_id", sessionID).
		Str("tx_hash", txHash).
		Msg("crypto deposit submitted for verification")

	s.scheduler.Schedule(func() {
		s.runVerification(context.Background(), sessionID, txHash)
	})
	return nil
}

// runVerification drives the external verifier with bounded retries and
// settles the session. It tolerates the session having expired since the
// hash was submitted.
func (s *service) runVerification(ctx context.Context, sessionID, txHash string) {
	txn, err := s.payments.GetByID(sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("verification: session load failed")
		return
	}

	var valid bool
	for attempt := 1; attempt <= s.cfg.MaxVerifyAttempts; attempt++ {
		valid, err = s.verifier.VerifyTransaction(ctx, txn, txHash)
		if err == nil {
			break
		}
		log.Warn().Err(err).
			Str("session_id", sessionID).
			Int("attempt", attempt).
			Msg("verification attempt failed")
		if attempt < s.cfg.MaxVerifyAttempts {
			time.Sleep(s.cfg.VerifyRetryDelay)
		}
	}
	if err != nil {
		// Verifier unreachable; give up on this deposit.
		s.fail(sessionID, "verifier unreachable")
		return
	}
	if !valid {
		s.fail(sessionID, "transaction not found on chain")
		return
	}

	if err := s.settle(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("verification settlement failed")
	}
}

// settle credits the wallet and completes the session in one transaction.
// The status is re-read under lock inside that same transaction: a session
// that expired or settled through another path is left untouched, so a late
// verification can never credit an expired session.
func (s *service) settle(ctx context.Context, sessionID string) error {
	var credited uint

	err := s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		txn, err := tx.Payments.GetByIDForUpdate(sessionID)
		if err != nil {
			return err
		}

		if txn.Status != models.PaymentStatusVerifying && txn.Status != models.PaymentStatusPending {
			return nil
		}

		now := s.clock.Now()
		if txn.IsExpired(now) {
			txn.Status = models.PaymentStatusExpired
			txn.ProcessedAt = &now
			return tx.Payments.Update(txn)
		}

		if err := s.wallet.CreditTx(tx, txn.UserID, txn.Amount, models.LedgerKindDeposit, &txn.ID); err != nil {
			return err
		}

		txn.Status = models.PaymentStatusCompleted
		txn.ProcessedAt = &now
		if err := tx.Payments.Update(txn); err != nil {
			return err
		}

		credited = txn.UserID
		return nil
	})
	if err != nil {
		return err
	}

	if credited != 0 {
		s.wallet.InvalidateCache(ctx, credited)
		log.Info().Str("session_id", sessionID).Uint("user_id", credited).Msg("crypto deposit completed")
	}
	return nil
}

func (s *service) fail(sessionID, reason string) {
	now := s.clock.Now()
	moved, err := s.payments.TransitionStatus(
		sessionID,
		[]string{models.PaymentStatusPending, models.PaymentStatusVerifying},
		models.PaymentStatusFailed,
		map[string]interface{}{"processed_at": now},
	)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to mark session failed")
		return
	}
	if moved {
		log.Info().Str("session_id", sessionID).Str("reason", reason).Msg("crypto deposit failed")
	}
}

func (s *service) expire(sessionID string, now time.Time) {
	if _, err := s.payments.TransitionStatus(
		sessionID,
		[]string{models.PaymentStatusPending},
		models.PaymentStatusExpired,
		map[string]interface{}{"processed_at": now},
	); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to expire session")
	}
}

func paymentPayload(cfg *models.CryptoProviderConfig, amount float64, currency string) string {
	switch currency {
	case "BTC":
		return fmt.Sprintf("bitcoin:%s?amount=%g", cfg.WalletAddress, amount)
	case "ETH":
		return fmt.Sprintf("ethereum:%s?value=%g", cfg.WalletAddress, amount)
	case "USDT":
		payload := fmt.Sprintf("ethereum:%s?value=%g", cfg.WalletAddress, amount)
		if cfg.Memo != "" {
			payload += "&memo=" + cfg.Memo
		}
		return payload
	default:
		return cfg.WalletAddress
	}
}
