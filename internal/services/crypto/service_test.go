package crypto_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vendora/internal/models"
	"vendora/internal/repositories/memory"
	"vendora/internal/services/crypto"
	"vendora/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// syncScheduler runs verification inline so tests observe its outcome.
type syncScheduler struct{}

func (syncScheduler) Schedule(fn func()) { fn() }

// captureScheduler holds the task so tests control when it runs.
type captureScheduler struct {
	fn func()
}

func (s *captureScheduler) Schedule(fn func()) { s.fn = fn }

type stubVerifier struct {
	valid bool
	err   error
	calls int
}

func (v *stubVerifier) VerifyTransaction(_ context.Context, _ *models.PaymentTransaction, _ string) (bool, error) {
	v.calls++
	return v.valid, v.err
}

type fixture struct {
	store    *memory.Store
	clock    *fakeClock
	verifier *stubVerifier
	svc      crypto.Service
}

func newFixture(t *testing.T, scheduler crypto.Scheduler, verifier *stubVerifier) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedWallet(1, 0)
	store.SeedSetting(models.ProviderBTC, true, models.JSON{
		"wallet_address": "bc1q7cyrfmck2ffu2ud3rn5l5a8yv6f0chkp0zpemf",
		"network":        "mainnet",
	})

	clock := newFakeClock()
	walletSvc := wallet.NewService(store, store.Wallets(), store.Ledger(), nil, nil)
	svc := crypto.NewService(
		store,
		store.Payments(),
		store.Settings(),
		walletSvc,
		clock,
		scheduler,
		verifier,
		crypto.Config{SessionTTL: 30 * time.Minute, MaxVerifyAttempts: 3},
	)
	return &fixture{store: store, clock: clock, verifier: verifier, svc: svc}
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})

	session, err := f.svc.CreateSession(context.Background(), 1, 0.5, "btc")
	require.NoError(t, err)

	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, "bc1q7cyrfmck2ffu2ud3rn5l5a8yv6f0chkp0zpemf", session.Address)
	assert.Equal(t, "BTC", session.Currency)
	assert.Equal(t, "bitcoin:bc1q7cyrfmck2ffu2ud3rn5l5a8yv6f0chkp0zpemf?amount=0.5", session.PaymentPayload)
	require.NotNil(t, session.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(30*time.Minute), *session.ExpiresAt)

	txn := f.store.Payment(session.SessionID)
	require.NotNil(t, txn)
	assert.Equal(t, models.PaymentStatusPending, txn.Status)
}

func TestCreateSessionValidation(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx, 1, 0, "BTC")
	assert.ErrorIs(t, err, crypto.ErrInvalidAmount)

	_, err = f.svc.CreateSession(ctx, 1, 0.5, "DOGE")
	assert.ErrorIs(t, err, crypto.ErrUnsupportedCurrency)

	// ETH has no settings row seeded, so it is unavailable.
	_, err = f.svc.CreateSession(ctx, 1, 0.5, "ETH")
	assert.ErrorIs(t, err, crypto.ErrCurrencyUnavailable)
}

func TestCreateSessionInactiveProvider(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})
	f.store.SeedSetting(models.ProviderETH, false, models.JSON{"wallet_address": "0xabc"})

	_, err := f.svc.CreateSession(context.Background(), 1, 0.5, "ETH")
	assert.ErrorIs(t, err, crypto.ErrCurrencyUnavailable)
}

func TestSubmitHashVerifiesAndCredits(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)

	err = f.svc.SubmitHash(ctx, 1, session.SessionID, "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b")
	require.NoError(t, err)

	txn := f.store.Payment(session.SessionID)
	assert.Equal(t, models.PaymentStatusCompleted, txn.Status)
	assert.NotNil(t, txn.ProcessedAt)
	assert.Equal(t, 0.5, f.store.WalletBalance(1))

	entries := f.store.LedgerEntries(1)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.5, entries[0].Amount)
	assert.Equal(t, models.LedgerKindDeposit, entries[0].Kind)
	require.NotNil(t, entries[0].ReferenceID)
	assert.Equal(t, session.SessionID, *entries[0].ReferenceID)
}

func TestVerificationRunsOnlyOnce(t *testing.T) {
	scheduler := &captureScheduler{}
	f := newFixture(t, scheduler, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)
	require.NoError(t, f.svc.SubmitHash(ctx, 1, session.SessionID, "deadbeefdeadbeef"))

	require.NotNil(t, scheduler.fn)
	scheduler.fn()
	scheduler.fn()

	assert.Equal(t, 0.5, f.store.WalletBalance(1))
	assert.Len(t, f.store.LedgerEntries(1), 1)
}

func TestSubmitHashAfterExpiry(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)

	f.clock.Advance(31 * time.Minute)

	err = f.svc.SubmitHash(ctx, 1, session.SessionID, "deadbeefdeadbeef")
	assert.ErrorIs(t, err, crypto.ErrSessionExpired)

	txn := f.store.Payment(session.SessionID)
	assert.Equal(t, models.PaymentStatusExpired, txn.Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
	assert.Empty(t, f.store.LedgerEntries(1))
}

func TestLateVerificationNeverCreditsExpiredSession(t *testing.T) {
	scheduler := &captureScheduler{}
	f := newFixture(t, scheduler, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)
	require.NoError(t, f.svc.SubmitHash(ctx, 1, session.SessionID, "deadbeefdeadbeef"))

	// The deadline passes while the hash sits in the verification queue.
	f.clock.Advance(31 * time.Minute)
	require.NotNil(t, scheduler.fn)
	scheduler.fn()

	txn := f.store.Payment(session.SessionID)
	assert.Equal(t, models.PaymentStatusExpired, txn.Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
	assert.Empty(t, f.store.LedgerEntries(1))
}

func TestGetStatusExpiresPendingSession(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)

	status, err := f.svc.GetStatus(ctx, 1, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, status.Status)
	assert.Equal(t, (30 * time.Minute).Milliseconds(), status.TimeRemainingMs)

	f.clock.Advance(31 * time.Minute)

	status, err = f.svc.GetStatus(ctx, 1, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, status.Status)
	assert.Zero(t, status.TimeRemainingMs)
}

func TestGetStatusScopedToOwner(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)

	_, err = f.svc.GetStatus(ctx, 2, session.SessionID)
	assert.ErrorIs(t, err, crypto.ErrSessionNotFound)
}

func TestInvalidHashFailsSession(t *testing.T) {
	f := newFixture(t, syncScheduler{}, &stubVerifier{valid: false})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)
	require.NoError(t, f.svc.SubmitHash(ctx, 1, session.SessionID, "not-on-chain"))

	txn := f.store.Payment(session.SessionID)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
}

func TestVerifierOutageFailsAfterRetries(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("chain explorer timeout")}
	f := newFixture(t, syncScheduler{}, verifier)
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)
	require.NoError(t, f.svc.SubmitHash(ctx, 1, session.SessionID, "deadbeefdeadbeef"))

	assert.Equal(t, 3, verifier.calls)
	txn := f.store.Payment(session.SessionID)
	assert.Equal(t, models.PaymentStatusFailed, txn.Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
}

func TestSubmitHashRejectsBlankAndDuplicate(t *testing.T) {
	scheduler := &captureScheduler{}
	f := newFixture(t, scheduler, &stubVerifier{valid: true})
	ctx := context.Background()

	session, err := f.svc.CreateSession(ctx, 1, 0.5, "BTC")
	require.NoError(t, err)

	err = f.svc.SubmitHash(ctx, 1, session.SessionID, "   ")
	assert.ErrorIs(t, err, crypto.ErrInvalidTxHash)

	require.NoError(t, f.svc.SubmitHash(ctx, 1, session.SessionID, "deadbeefdeadbeef"))

	// The session is already verifying; a second submission is refused.
	err = f.svc.SubmitHash(ctx, 1, session.SessionID, "deadbeefdeadbeef")
	assert.ErrorIs(t, err, crypto.ErrNotPending)
}
