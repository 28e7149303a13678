package models

import (
	"errors"
	"time"
)

// Crypto providers (lower-case, as stored in payment_settings.provider)
const (
	ProviderStripe = "stripe"
	ProviderBTC    = "btc"
	ProviderETH    = "eth"
	ProviderUSDT   = "usdt"
)

// PaymentSetting is one provider's configuration row. The Config blob is
// never read field-by-field at use sites; it is parsed into the typed
// structs below and validated at the boundary.
type PaymentSetting struct {
	ID        uint   `gorm:"primarykey"`
	Provider  string `gorm:"uniqueIndex;not null"`
	IsActive  bool   `gorm:"default:false"`
	Config    JSON   `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CryptoProviderConfig is the validated shape of a crypto provider's config.
type CryptoProviderConfig struct {
	WalletAddress string
	Network       string
	Memo          string
}

// StripeProviderConfig is the validated shape of the card gateway's config.
type StripeProviderConfig struct {
	SecretKey      string
	WebhookSecret  string
	PublishableKey string
}

var (
	ErrMissingWalletAddress = errors.New("provider config missing wallet address")
	ErrMissingStripeKeys    = errors.New("provider config missing stripe keys")
)

// ParseCryptoConfig validates and types a crypto provider's config blob.
func ParseCryptoConfig(cfg JSON) (*CryptoProviderConfig, error) {
	out := &CryptoProviderConfig{
		WalletAddress: stringField(cfg, "wallet_address"),
		Network:       stringField(cfg, "network"),
		Memo:          stringField(cfg, "memo"),
	}
	if out.WalletAddress == "" {
		return nil, ErrMissingWalletAddress
	}
	if out.Network == "" {
		out.Network = "mainnet"
	}
	return out, nil
}

// ParseStripeConfig validates and types the card gateway's config blob.
func ParseStripeConfig(cfg JSON) (*StripeProviderConfig, error) {
	out := &StripeProviderConfig{
		SecretKey:      stringField(cfg, "secret_key"),
		WebhookSecret:  stringField(cfg, "webhook_secret"),
		PublishableKey: stringField(cfg, "publishable_key"),
	}
	if out.SecretKey == "" || out.WebhookSecret == "" {
		return nil, ErrMissingStripeKeys
	}
	return out, nil
}

func stringField(cfg JSON, key string) string {
	if cfg == nil {
		return ""
	}
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}
