package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Tx bundles every repository bound to one database transaction. Atomic
// operations receive a *Tx and never touch the shared pool directly, so a
// debit, its ledger entry and the record it references always commit or roll
// back together.
type Tx struct {
	Wallets  WalletRepository
	Ledger   LedgerRepository
	Orders   OrderRepository
	Payments PaymentRepository
}

// UnitOfWork runs a function inside a single database transaction.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx *Tx) error) error
}

type unitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Execute(ctx context.Context, fn func(tx *Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Tx{
			Wallets:  NewWalletRepository(gtx),
			Ledger:   NewLedgerRepository(gtx),
			Orders:   NewOrderRepository(gtx),
			Payments: NewPaymentRepository(gtx),
		})
	})
}
