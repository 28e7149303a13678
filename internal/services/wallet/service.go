package wallet

import (
	"context"
	"fmt"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/repositories/cache"

	"github.com/rs/zerolog/log"
)

type service struct {
	uow     repositories.UnitOfWork
	wallets repositories.WalletRepository
	ledger  repositories.LedgerRepository
	cache   cache.WalletCache
	metrics MetricsCollector
}

// NewService creates a new wallet service. The wallets and ledger
// repositories are pool-bound and used for reads only; every write goes
// through the unit of work.
func NewService(
	uow repositories.UnitOfWork,
	wallets repositories.WalletRepository,
	ledger repositories.LedgerRepository,
	walletCache cache.WalletCache,
	metrics MetricsCollector,
) Service {
	if uow == nil {
		panic("unit of work is required")
	}
	if wallets == nil || ledger == nil {
		panic("repositories are required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		uow:     uow,
		wallets: wallets,
		ledger:  ledger,
		cache:   walletCache,
		metrics: metrics,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
			s.metrics.RecordCacheHit("wallet")
			return wallet, nil
		}
		s.metrics.RecordCacheMiss("wallet")
	}

	wallet, err := s.wallets.GetByUserID(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetWallet(ctx, wallet); err != nil {
			log.Warn().Err(err).Uint("user_id", userID).Msg("failed to cache wallet")
		}
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (float64, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
	}
	if err := s.wallets.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount float64, kind string, referenceID *string) error {
	err := s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		return s.CreditTx(tx, userID, amount, kind, referenceID)
	})
	if err != nil {
		s.metrics.RecordError("credit", errType(err))
		return err
	}

	s.InvalidateCache(ctx, userID)
	s.metrics.RecordTransaction("credit", amount)
	return nil
}

func (s *service) Debit(ctx context.Context, userID uint, amount float64, kind string, referenceID *string) error {
	err := s.uow.Execute(ctx, func(tx *repositories.Tx) error {
		return s.DebitTx(tx, userID, amount, kind, referenceID)
	})
	if err != nil {
		s.metrics.RecordError("debit", errType(err))
		return err
	}

	s.InvalidateCache(ctx, userID)
	s.metrics.RecordTransaction("debit", amount)
	return nil
}

// CreditTx increments the locked wallet balance and appends the matching
// ledger entry inside the caller's transaction.
func (s *service) CreditTx(tx *repositories.Tx, userID uint, amount float64, kind string, referenceID *string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if kind != models.LedgerKindDeposit && kind != models.LedgerKindRefund {
		return ErrInvalidKind
	}

	wallet, err := tx.Wallets.GetByUserIDForUpdate(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to lock wallet: %w", err)
	}

	oldBalance := wallet.Balance
	wallet.Balance += amount
	if err := tx.Wallets.Update(wallet); err != nil {
		return err
	}

	entry := &models.LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		ReferenceID: referenceID,
	}
	if err := tx.Ledger.Append(entry); err != nil {
		return err
	}

	s.metrics.RecordBalanceChange(userID, oldBalance, wallet.Balance)
	return nil
}

// DebitTx decrements the locked wallet balance, rejecting the operation if
// funds are insufficient, and appends a negative ledger entry.
func (s *service) DebitTx(tx *repositories.Tx, userID uint, amount float64, kind string, referenceID *string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if kind != models.LedgerKindPayment && kind != models.LedgerKindWithdrawal {
		return ErrInvalidKind
	}

	wallet, err := tx.Wallets.GetByUserIDForUpdate(userID)
	if err != nil {
		if err == repositories.ErrWalletNotFound {
			return ErrWalletNotFound
		}
		return fmt.Errorf("failed to lock wallet: %w", err)
	}

	if wallet.Balance < amount {
		return ErrInsufficientBalance
	}

	oldBalance := wallet.Balance
	wallet.Balance -= amount
	if err := tx.Wallets.Update(wallet); err != nil {
		return err
	}

	entry := &models.LedgerEntry{
		UserID:      userID,
		Amount:      -amount,
		Kind:        kind,
		ReferenceID: referenceID,
	}
	if err := tx.Ledger.Append(entry); err != nil {
		return err
	}

	s.metrics.RecordBalanceChange(userID, oldBalance, wallet.Balance)
	return nil
}

func (s *service) GetLedger(ctx context.Context, userID uint, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.ledger.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return entries, nil
}

func (s *service) InvalidateCache(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate wallet cache")
	}
}

func errType(err error) string {
	switch err {
	case ErrInvalidAmount:
		return "invalid_amount"
	case ErrInsufficientBalance:
		return "insufficient_balance"
	case ErrWalletNotFound:
		return "wallet_not_found"
	default:
		return "internal"
	}
}
