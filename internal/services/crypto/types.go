package crypto

import (
	"context"
	"time"

	"vendora/internal/models"
)

// Supported deposit currencies
var supportedCurrencies = map[string]string{
	"BTC":  models.ProviderBTC,
	"ETH":  models.ProviderETH,
	"USDT": models.ProviderUSDT,
}

// Deposit limits
const (
	MinDepositAmount = 0.000001
	MaxDepositAmount = 10000.0
)

// Config holds session manager tuning.
type Config struct {
	SessionTTL        time.Duration
	MaxVerifyAttempts int
	VerifyRetryDelay  time.Duration
}

// Clock abstracts wall-clock time so expiry races are testable.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Scheduler runs verification work detached from the request that
// triggered it.
type Scheduler interface {
	Schedule(fn func())
}

// GoScheduler runs each task on its own goroutine.
type GoScheduler struct{}

func (GoScheduler) Schedule(fn func()) { go fn() }

// Verifier checks a submitted transaction hash against the chain. A false
// result with a nil error means the hash is definitively invalid; an error
// means the check could not be performed and may be retried.
type Verifier interface {
	VerifyTransaction(ctx context.Context, txn *models.PaymentTransaction, txHash string) (bool, error)
}

// Session is the renderable deposit session returned to the client.
type Session struct {
	SessionID      string     `json:"session_id"`
	Address        string     `json:"address"`
	Network        string     `json:"network"`
	Memo           string     `json:"memo,omitempty"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	ExpiresAt      *time.Time `json:"expires_at"`
	PaymentPayload string     `json:"payment_payload"`
}

// StatusInfo is the polled view of a session.
type StatusInfo struct {
	SessionID       string  `json:"session_id"`
	Status          string  `json:"status"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	TimeRemainingMs int64   `json:"time_remaining_ms"`
}
