package wallet

import (
	"context"

	"vendora/internal/models"
	"vendora/internal/repositories"
)

// Service defines the wallet and ledger operations.
type Service interface {
	// Core wallet operations
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (float64, error)
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)

	// Money movement; each call is one atomic unit
	Credit(ctx context.Context, userID uint, amount float64, kind string, referenceID *string) error
	Debit(ctx context.Context, userID uint, amount float64, kind string, referenceID *string) error

	// Transaction-scoped variants for composition by the settlement,
	// refund and deposit paths. Callers invalidate the cache after commit.
	CreditTx(tx *repositories.Tx, userID uint, amount float64, kind string, referenceID *string) error
	DebitTx(tx *repositories.Tx, userID uint, amount float64, kind string, referenceID *string) error

	// Ledger
	GetLedger(ctx context.Context, userID uint, limit, offset int) ([]models.LedgerEntry, error)

	// InvalidateCache drops the cached wallet after an external commit.
	InvalidateCache(ctx context.Context, userID uint)
}
