package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCryptoConfig(t *testing.T) {
	cfg, err := ParseCryptoConfig(JSON{
		"wallet_address": "bc1qexample",
		"network":        "testnet",
		"memo":           "12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "bc1qexample", cfg.WalletAddress)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "12345", cfg.Memo)
}

func TestParseCryptoConfigDefaultsNetwork(t *testing.T) {
	cfg, err := ParseCryptoConfig(JSON{"wallet_address": "bc1qexample"})
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
}

func TestParseCryptoConfigRejectsMissingAddress(t *testing.T) {
	_, err := ParseCryptoConfig(JSON{"network": "mainnet"})
	assert.ErrorIs(t, err, ErrMissingWalletAddress)

	_, err = ParseCryptoConfig(nil)
	assert.ErrorIs(t, err, ErrMissingWalletAddress)
}

func TestParseStripeConfig(t *testing.T) {
	cfg, err := ParseStripeConfig(JSON{
		"secret_key":     "sk_test_x",
		"webhook_secret": "whsec_x",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk_test_x", cfg.SecretKey)

	_, err = ParseStripeConfig(JSON{"secret_key": "sk_test_x"})
	assert.ErrorIs(t, err, ErrMissingStripeKeys)
}

func TestPaymentTransactionTerminalStates(t *testing.T) {
	for status, terminal := range map[string]bool{
		PaymentStatusPending:   false,
		PaymentStatusVerifying: false,
		PaymentStatusCompleted: true,
		PaymentStatusFailed:    true,
		PaymentStatusExpired:   true,
	} {
		txn := PaymentTransaction{Status: status}
		assert.Equal(t, terminal, txn.IsTerminal(), status)
	}
}

func TestOrderCanRefund(t *testing.T) {
	for status, ok := range map[string]bool{
		OrderStatusPending:    true,
		OrderStatusProcessing: true,
		OrderStatusCompleted:  true,
		OrderStatusCancelled:  false,
		OrderStatusRefunded:   false,
	} {
		ord := Order{Status: status}
		assert.Equal(t, ok, ord.CanRefund(), status)
	}
}
