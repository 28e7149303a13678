package wallet_test

import (
	"context"
	"testing"

	"vendora/internal/models"
	"vendora/internal/repositories/memory"
	"vendora/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(store *memory.Store) wallet.Service {
	return wallet.NewService(store, store.Wallets(), store.Ledger(), nil, nil)
}

func TestCreateWalletStartsEmpty(t *testing.T) {
	store := memory.NewStore()
	svc := newService(store)

	w, err := svc.CreateWallet(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, w.Balance)
	assert.Equal(t, "USD", w.Currency)
}

func TestCreditAppendsLedgerEntry(t *testing.T) {
	store := memory.NewStore()
	store.SeedWallet(1, 0)
	svc := newService(store)

	ref := "txn-1"
	err := svc.Credit(context.Background(), 1, 50, models.LedgerKindDeposit, &ref)
	require.NoError(t, err)

	assert.Equal(t, 50.0, store.WalletBalance(1))

	entries := store.LedgerEntries(1)
	require.Len(t, entries, 1)
	assert.Equal(t, 50.0, entries[0].Amount)
	assert.Equal(t, models.LedgerKindDeposit, entries[0].Kind)
	require.NotNil(t, entries[0].ReferenceID)
	assert.Equal(t, "txn-1", *entries[0].ReferenceID)
}

func TestCreditRejectsInvalidInput(t *testing.T) {
	store := memory.NewStore()
	store.SeedWallet(1, 0)
	svc := newService(store)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Credit(ctx, 1, 0, models.LedgerKindDeposit, nil), wallet.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Credit(ctx, 1, -10, models.LedgerKindDeposit, nil), wallet.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Credit(ctx, 1, 10, models.LedgerKindPayment, nil), wallet.ErrInvalidKind)
	assert.ErrorIs(t, svc.Credit(ctx, 2, 10, models.LedgerKindDeposit, nil), wallet.ErrWalletNotFound)

	assert.Equal(t, 0.0, store.WalletBalance(1))
	assert.Empty(t, store.LedgerEntries(1))
}

func TestDebitInsufficientBalanceLeavesNoTrace(t *testing.T) {
	store := memory.NewStore()
	store.SeedWallet(1, 30)
	svc := newService(store)

	err := svc.Debit(context.Background(), 1, 50, models.LedgerKindPayment, nil)
	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)

	assert.Equal(t, 30.0, store.WalletBalance(1))
	assert.Empty(t, store.LedgerEntries(1))
}

func TestDebitRecordsNegativeEntry(t *testing.T) {
	store := memory.NewStore()
	store.SeedWallet(1, 100)
	svc := newService(store)

	err := svc.Debit(context.Background(), 1, 40, models.LedgerKindPayment, nil)
	require.NoError(t, err)

	assert.Equal(t, 60.0, store.WalletBalance(1))
	entries := store.LedgerEntries(1)
	require.Len(t, entries, 1)
	assert.Equal(t, -40.0, entries[0].Amount)
}

func TestBalanceMatchesLedgerSum(t *testing.T) {
	store := memory.NewStore()
	store.SeedWallet(1, 0)
	svc := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.Credit(ctx, 1, 100, models.LedgerKindDeposit, nil))
	require.NoError(t, svc.Debit(ctx, 1, 25, models.LedgerKindPayment, nil))
	require.NoError(t, svc.Credit(ctx, 1, 25, models.LedgerKindRefund, nil))
	require.NoError(t, svc.Debit(ctx, 1, 10, models.LedgerKindWithdrawal, nil))

	sum, err := store.Ledger().SumByUser(1)
	require.NoError(t, err)
	assert.Equal(t, store.WalletBalance(1), sum)
	assert.Equal(t, 90.0, sum)
}

func TestGetLedgerNewestFirst(t *testing.T) {
	store := memory.NewStore()
	store.SeedWallet(1, 0)
	svc := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.Credit(ctx, 1, 10, models.LedgerKindDeposit, nil))
	require.NoError(t, svc.Credit(ctx, 1, 20, models.LedgerKindDeposit, nil))

	entries, err := svc.GetLedger(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 20.0, entries[0].Amount)
	assert.Equal(t, 10.0, entries[1].Amount)
}
