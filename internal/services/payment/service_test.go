package payment_test

import (
	"context"
	"testing"

	"vendora/internal/models"
	"vendora/internal/repositories/memory"
	"vendora/internal/services/payment"
	"vendora/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser trusts a fixed signature and maps the payload to an event.
type stubParser struct {
	event *payment.WebhookEvent
}

func (p *stubParser) Parse(payload []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != "valid" {
		return nil, payment.ErrInvalidSignature
	}
	return p.event, nil
}

type fixture struct {
	store  *memory.Store
	parser *stubParser
	svc    payment.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedWallet(1, 0)

	parser := &stubParser{}
	walletSvc := wallet.NewService(store, store.Wallets(), store.Ledger(), nil, nil)
	svc := payment.NewService(
		store,
		store.Payments(),
		walletSvc,
		parser,
		payment.GatewayConfig{SecretKey: "sk_test_x", WebhookSecret: "whsec_x"},
	)
	return &fixture{store: store, parser: parser, svc: svc}
}

func (f *fixture) seedIntent(t *testing.T, status string) *models.PaymentTransaction {
	t.Helper()
	txn := &models.PaymentTransaction{
		UserID:              1,
		Amount:              25,
		Currency:            "USD",
		Provider:            models.ProviderStripe,
		ProviderReferenceID: "pi_123",
		Status:              status,
		Kind:                models.PaymentKindDeposit,
	}
	require.NoError(t, f.store.Payments().Create(txn))
	return txn
}

func (f *fixture) deliver(t *testing.T, eventType, signature string) error {
	t.Helper()
	f.parser.event = &payment.WebhookEvent{Type: eventType, ProviderReferenceID: "pi_123"}
	return f.svc.HandleWebhook(context.Background(), []byte(`{}`), signature)
}

func TestWebhookSuccessCreditsWallet(t *testing.T) {
	f := newFixture(t)
	txn := f.seedIntent(t, models.PaymentStatusPending)

	require.NoError(t, f.deliver(t, payment.EventIntentSucceeded, "valid"))

	updated := f.store.Payment(txn.ID)
	assert.Equal(t, models.PaymentStatusCompleted, updated.Status)
	assert.NotNil(t, updated.ProcessedAt)
	assert.Equal(t, 25.0, f.store.WalletBalance(1))

	entries := f.store.LedgerEntries(1)
	require.Len(t, entries, 1)
	assert.Equal(t, 25.0, entries[0].Amount)
	assert.Equal(t, models.LedgerKindDeposit, entries[0].Kind)
}

func TestWebhookRedeliveryCreditsOnce(t *testing.T) {
	f := newFixture(t)
	f.seedIntent(t, models.PaymentStatusPending)

	require.NoError(t, f.deliver(t, payment.EventIntentSucceeded, "valid"))
	require.NoError(t, f.deliver(t, payment.EventIntentSucceeded, "valid"))

	assert.Equal(t, 25.0, f.store.WalletBalance(1))
	assert.Len(t, f.store.LedgerEntries(1), 1)
}

func TestWebhookInvalidSignatureChangesNothing(t *testing.T) {
	f := newFixture(t)
	txn := f.seedIntent(t, models.PaymentStatusPending)

	err := f.deliver(t, payment.EventIntentSucceeded, "forged")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	assert.Equal(t, models.PaymentStatusPending, f.store.Payment(txn.ID).Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
	assert.Empty(t, f.store.LedgerEntries(1))
}

func TestWebhookFailureMarksPendingOnly(t *testing.T) {
	f := newFixture(t)
	txn := f.seedIntent(t, models.PaymentStatusPending)

	require.NoError(t, f.deliver(t, payment.EventIntentFailed, "valid"))

	assert.Equal(t, models.PaymentStatusFailed, f.store.Payment(txn.ID).Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
}

func TestWebhookFailureNeverOverwritesCompleted(t *testing.T) {
	f := newFixture(t)
	txn := f.seedIntent(t, models.PaymentStatusPending)

	require.NoError(t, f.deliver(t, payment.EventIntentSucceeded, "valid"))

	// A stale failure event arrives after settlement.
	require.NoError(t, f.deliver(t, payment.EventIntentFailed, "valid"))

	assert.Equal(t, models.PaymentStatusCompleted, f.store.Payment(txn.ID).Status)
	assert.Equal(t, 25.0, f.store.WalletBalance(1))
}

func TestWebhookSuccessAfterTerminalStateIsNoOp(t *testing.T) {
	f := newFixture(t)
	txn := f.seedIntent(t, models.PaymentStatusFailed)

	require.NoError(t, f.deliver(t, payment.EventIntentSucceeded, "valid"))

	assert.Equal(t, models.PaymentStatusFailed, f.store.Payment(txn.ID).Status)
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
}

func TestWebhookUnknownIntentAcknowledged(t *testing.T) {
	f := newFixture(t)

	// No transaction row exists for the reference; the delivery is
	// acknowledged so the gateway stops retrying.
	require.NoError(t, f.deliver(t, payment.EventIntentSucceeded, "valid"))
	assert.Equal(t, 0.0, f.store.WalletBalance(1))
}

func TestWebhookUnhandledEventIgnored(t *testing.T) {
	f := newFixture(t)
	txn := f.seedIntent(t, models.PaymentStatusPending)

	require.NoError(t, f.deliver(t, "payment_intent.created", "valid"))
	assert.Equal(t, models.PaymentStatusPending, f.store.Payment(txn.ID).Status)
}

func TestCreateIntentRejectsInvalidAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateIntent(ctx, 1, 0.1, "usd")
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)

	_, err = f.svc.CreateIntent(ctx, 1, 50000, "usd")
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)
}

func TestCreateIntentRequiresGateway(t *testing.T) {
	store := memory.NewStore()
	walletSvc := wallet.NewService(store, store.Wallets(), store.Ledger(), nil, nil)
	svc := payment.NewService(store, store.Payments(), walletSvc, &stubParser{}, payment.GatewayConfig{})

	_, err := svc.CreateIntent(context.Background(), 1, 25, "usd")
	assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
}
